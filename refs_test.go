package bands

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testOwner 测试用宿主对象
//
// 非零尺寸：零尺寸对象共享地址，不能作为身份来源。
type testOwner struct {
	name string
}

func (o *testOwner) hello(args ...any) (any, error) {
	return o.name + ".hello", nil
}

func (o *testOwner) goodbye(args ...any) (any, error) {
	return o.name + ".goodbye", nil
}

// TestFunc_Identity 每个句柄身份唯一且稳定
func TestFunc_Identity(t *testing.T) {
	fn := func(args ...any) (any, error) { return nil, nil }

	a := Func(fn)
	b := Func(fn)
	defer runtime.KeepAlive(a)
	defer runtime.KeepAlive(b)

	assert.NotEqual(t, a.ID(), b.ID(), "不同句柄身份不同，即使包装同一函数")
	assert.Equal(t, a.ID(), a.ID(), "同一句柄身份稳定")
	assert.NotZero(t, a.ID().Owner)
}

// TestFunc_Nil nil 函数返回 nil 句柄
func TestFunc_Nil(t *testing.T) {
	assert.Nil(t, Func(nil))
	assert.Zero(t, (*FuncRef)(nil).ID())
}

// TestBind_Identity 绑定方法身份 = (宿主身份, 方法身份)
func TestBind_Identity(t *testing.T) {
	o1 := &testOwner{name: "one"}
	o2 := &testOwner{name: "two"}
	defer runtime.KeepAlive(o1)
	defer runtime.KeepAlive(o2)

	r1 := Bind(o1, (*testOwner).hello)
	r1again := Bind(o1, (*testOwner).hello)
	r2 := Bind(o2, (*testOwner).hello)
	r3 := Bind(o1, (*testOwner).goodbye)

	assert.Equal(t, r1.ID(), r1again.ID(), "同宿主同方法身份一致")
	assert.NotEqual(t, r1.ID(), r2.ID(), "不同宿主身份不同")
	assert.NotEqual(t, r1.ID(), r3.ID(), "不同方法身份不同")
}

// TestBind_Nil nil 宿主或方法返回 nil 引用
func TestBind_Nil(t *testing.T) {
	assert.Nil(t, Bind[testOwner](nil, (*testOwner).hello))
	assert.Nil(t, Bind(&testOwner{name: "x"}, nil))
}

// TestBind_Resolve 解析出的闭包调用到宿主方法
func TestBind_Resolve(t *testing.T) {
	o := &testOwner{name: "one"}
	defer runtime.KeepAlive(o)

	r := Bind(o, (*testOwner).hello)

	fn, ok := r.Resolve()
	require.True(t, ok)

	result, err := fn()
	require.NoError(t, err)
	assert.Equal(t, "one.hello", result)
}

// TestBind_ResolveDead 宿主回收后解析失败
func TestBind_ResolveDead(t *testing.T) {
	o := &testOwner{name: "gone"}
	r := Bind(o, (*testOwner).hello)

	fn, ok := r.Resolve()
	require.True(t, ok)
	_ = fn
	runtime.KeepAlive(o)

	runtime.GC()

	_, ok = r.Resolve()
	assert.False(t, ok)
	assert.NotZero(t, r.ID(), "身份在目标死亡后依然稳定")
}
