package bands

import (
	"reflect"
	"runtime"
	"weak"
)

// ============================================================================
// 接收者引用
// ============================================================================

// Receiver 接收者函数
//
// 所有参数均为位置参数。返回错误会中止本次 Send 中剩余接收者的执行，
// 并原样传播给调用方（先错先停）。
type Receiver func(args ...any) (any, error)

// RefID 接收者身份
//
// 在构造引用时计算并固定下来，目标被回收后依然稳定，
// 用于去重和删除（包括弱引用死亡后的异步清理）。
type RefID struct {
	// Owner 目标对象的指针身份；自由函数为句柄自身的指针身份
	Owner uintptr
	// Func 函数代码的指针身份
	Func uintptr
}

// Ref 可解析的接收者引用
//
// 由 Func 或 Bind 构造。Resolve 在每次迭代时检查目标存活性，
// 弱引用目标被回收后返回 false。
type Ref interface {
	// ID 返回构造时计算的身份
	ID() RefID

	// Resolve 解析出可调用的接收者；目标已被回收时返回 false
	Resolve() (Receiver, bool)

	// holdWeak 返回不延长目标生命周期的存放形式
	holdWeak() holder

	// watch 注册目标被回收后的清理回调（携带插入时的身份）
	watch(dead func(RefID))
}

// ============================================================================
// 自由函数引用
// ============================================================================

// FuncRef 自由函数的共享所有权句柄
//
// Go 无法直接对函数值取弱引用，因此自由函数通过句柄接入弱引用模型：
// 调用方持有句柄，通道只存句柄的弱指针。句柄离开作用域被回收后，
// 接收者自动断开，无需显式 Disconnect。
type FuncRef struct {
	fn Receiver
	id RefID
}

// Func 构造自由函数句柄
//
// fn 为 nil 时返回 nil，Connect 对 nil 引用静默忽略。
func Func(fn Receiver) *FuncRef {
	if fn == nil {
		return nil
	}
	f := &FuncRef{fn: fn}
	f.id = RefID{
		Owner: reflect.ValueOf(f).Pointer(),
		Func:  reflect.ValueOf(fn).Pointer(),
	}
	return f
}

// ID 返回句柄身份
//
// nil 句柄返回零值身份，Add 对其静默忽略。
func (f *FuncRef) ID() RefID {
	if f == nil {
		return RefID{}
	}
	return f.id
}

// Resolve 返回被包装的函数
//
// 能调用到存活句柄说明目标还在，总是成功。
func (f *FuncRef) Resolve() (Receiver, bool) {
	if f == nil {
		return nil, false
	}
	return f.fn, true
}

func (f *FuncRef) holdWeak() holder {
	return &weakFuncHolder{p: weak.Make(f)}
}

func (f *FuncRef) watch(dead func(RefID)) {
	runtime.AddCleanup(f, dead, f.id)
}

// ============================================================================
// 绑定方法引用
// ============================================================================

// methodRef 绑定方法的弱引用
//
// 弱引用宿主对象，另存方法值用于解析时重建调用，
// 对应"弱引用实例 + 方法名重建"的接收者模型。
type methodRef[T any] struct {
	owner weak.Pointer[T]
	fn    func(*T, ...any) (any, error)
	id    RefID
}

// Bind 构造绑定方法引用
//
// 弱引用 owner：连接后的接收者不会延长 owner 的生命周期，
// owner 被回收后接收者自动失效并被异步清理。方法通常以方法表达式给出：
//
//	ch.Connect(bands.Bind(c, (*Component).OnStarted))
//
// owner 或 method 为 nil 时返回 nil。
func Bind[T any](owner *T, method func(*T, ...any) (any, error)) Ref {
	if owner == nil || method == nil {
		return nil
	}
	return &methodRef[T]{
		owner: weak.Make(owner),
		fn:    method,
		id: RefID{
			Owner: reflect.ValueOf(owner).Pointer(),
			Func:  reflect.ValueOf(method).Pointer(),
		},
	}
}

// ID 返回 (宿主身份, 方法身份) 组合
func (m *methodRef[T]) ID() RefID { return m.id }

// Resolve 解析出绑定调用
//
// 宿主已被回收时返回 false。返回的闭包强引用宿主，
// 保证派发期间宿主不会被回收。
func (m *methodRef[T]) Resolve() (Receiver, bool) {
	inst := m.owner.Value()
	if inst == nil {
		return nil, false
	}
	return func(args ...any) (any, error) {
		return m.fn(inst, args...)
	}, true
}

// methodRef 自身只持有弱指针，可直接作为存放形式
func (m *methodRef[T]) holdWeak() holder { return m }

func (m *methodRef[T]) watch(dead func(RefID)) {
	if inst := m.owner.Value(); inst != nil {
		runtime.AddCleanup(inst, dead, m.id)
	}
}

// isMethod 标记接口，见 IsMethod
func (m *methodRef[T]) isMethod() {}
