package bands

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPredicates 类型谓词
func TestPredicates(t *testing.T) {
	b := New()
	ch := b.Channel("x", nil)
	defer runtime.KeepAlive(ch)

	assert.True(t, IsBand(b))
	assert.False(t, IsBand(ch))
	assert.False(t, IsBand(nil))

	assert.True(t, IsChannel(ch))
	assert.False(t, IsChannel(b))

	assert.True(t, IsDispatcher(SyncDispatcher{}))
	assert.True(t, IsDispatcher(NewQueueDispatcher()))
	assert.False(t, IsDispatcher("not a dispatcher"))
}

// TestIsMethod 区分绑定方法与自由函数
func TestIsMethod(t *testing.T) {
	o := &testOwner{name: "o"}
	defer runtime.KeepAlive(o)

	bound := Bind(o, (*testOwner).hello)
	free := mkFunc("v")
	defer runtime.KeepAlive(free)

	assert.True(t, IsMethod(bound))
	assert.False(t, IsMethod(free))
	assert.False(t, IsMethod(nil))
}
