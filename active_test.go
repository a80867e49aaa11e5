package bands

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestActive_Default 活动 Band 初始为进程默认 Band
func TestActive_Default(t *testing.T) {
	defer UseDefaultBand()

	assert.Same(t, DefaultBand(), GetBand())
}

// TestActive_UseBand 切换与还原活动 Band
func TestActive_UseBand(t *testing.T) {
	defer UseDefaultBand()

	b := New()
	UseBand(b)
	assert.Same(t, b, GetBand())

	UseDefaultBand()
	assert.Same(t, DefaultBand(), GetBand())
}

// TestActive_UseBandNil nil 静默忽略
func TestActive_UseBandNil(t *testing.T) {
	defer UseDefaultBand()

	b := New()
	UseBand(b)
	UseBand(nil)
	assert.Same(t, b, GetBand())
}

// TestActive_TopLevel 顶层便捷函数落在活动 Band 上
func TestActive_TopLevel(t *testing.T) {
	defer UseDefaultBand()

	b := New()
	UseBand(b)

	ch := GetChannel("greet", nil)
	assert.Same(t, b, ch.Band())
	assert.Same(t, ch, b.Channel("greet", nil))

	r := mkFunc("hello")
	defer runtime.KeepAlive(r)
	ch.Connect(r)

	results, err := Send("greet")
	require.NoError(t, err)
	assert.Equal(t, []any{"hello"}, results)
	runtime.KeepAlive(ch)
}

// TestActive_SendTo 顶层绑定发送
func TestActive_SendTo(t *testing.T) {
	defer UseDefaultBand()

	b := New()
	UseBand(b)

	o := &testOwner{name: "one"}
	ch := GetChannel("greet", o)
	ch.Connect(Bind(o, (*testOwner).hello))

	results, err := SendTo("greet", o)
	require.NoError(t, err)
	assert.Equal(t, []any{"one.hello"}, results)

	runtime.KeepAlive(o)
	runtime.KeepAlive(ch)
}

// TestActive_Isolation 切换后默认 Band 不受影响
func TestActive_Isolation(t *testing.T) {
	defer UseDefaultBand()

	b := New()
	UseBand(b)
	ch := GetChannel("isolated", nil)
	defer runtime.KeepAlive(ch)

	assert.NotSame(t, ch, DefaultBand().Channel("isolated", nil))
}
