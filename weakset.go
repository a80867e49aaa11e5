package bands

import (
	"sync"
	"weak"
)

// ============================================================================
// 存放形式
// ============================================================================

// holder 接收者的存放形式
//
// 三种实现：强引用（strongHolder）、自由函数句柄的弱指针
// （weakFuncHolder）、绑定方法的弱引用（methodRef）。
type holder interface {
	// Resolve 解析出可调用的接收者；目标已被回收时返回 false
	Resolve() (Receiver, bool)
}

// strongHolder 强引用存放
//
// 在 Add 时解析一次并直接持有可调用对象，阻止其被回收。
type strongHolder struct {
	fn Receiver
}

func (h strongHolder) Resolve() (Receiver, bool) { return h.fn, true }

// weakFuncHolder 自由函数句柄的弱指针存放
type weakFuncHolder struct {
	p weak.Pointer[FuncRef]
}

func (h *weakFuncHolder) Resolve() (Receiver, bool) {
	f := h.p.Value()
	if f == nil {
		return nil, false
	}
	return f.fn, true
}

// ============================================================================
// WeakSet
// ============================================================================

// WeakSet 有序、去重的接收者集合
//
// 底层用列表存储以保持插入顺序。默认存弱引用：连接接收者
// 不会延长其宿主的生命周期；宿主被回收后，条目对迭代立即不可见，
// 并由 runtime.AddCleanup 注册的回调异步地从索引中清除。
//
// 所有方法并发安全（清理回调运行在 runtime 的清理 goroutine 上）。
type WeakSet struct {
	mu   sync.Mutex
	ids  []RefID
	refs []holder
}

// NewWeakSet 创建空集合
func NewWeakSet() *WeakSet {
	return &WeakSet{}
}

// Len 返回条目数
//
// 包含已死亡但尚未被异步清理的条目（与迭代结果可能短暂不一致）。
func (s *WeakSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Contains 判断引用是否在集合中
//
// 按身份判断，不要求目标存活：语义为"连接过且尚未断开/清理"。
func (s *WeakSet) Contains(r Ref) bool {
	if r == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(r.ID()) >= 0
}

// Add 追加引用
//
// 幂等：同一身份重复添加是静默空操作，首次注册生效，
// 后续添加不会升级引用强度（弱连接后再强连接仍为弱）。
// strong 选项在添加时解析一次并强持有，阻止目标被回收。
func (s *WeakSet) Add(r Ref, opts ...ConnectOpt) {
	if r == nil {
		return
	}
	settings := connectSettings{}
	for _, opt := range opts {
		opt(&settings)
	}

	id := r.ID()
	if id == (RefID{}) {
		// nil 句柄（如 Func(nil) 的返回值）
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(id) >= 0 {
		return
	}

	var h holder
	if settings.strong {
		fn, ok := r.Resolve()
		if !ok {
			// 目标已死，无可强持有之物
			return
		}
		h = strongHolder{fn: fn}
	} else {
		h = r.holdWeak()
		r.watch(s.expire)
	}

	s.ids = append(s.ids, id)
	s.refs = append(s.refs, h)
}

// Discard 按身份移除引用
//
// 不存在时静默空操作。
func (s *WeakSet) Discard(r Ref) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(r.ID())
}

// Resolve 返回当前存活接收者的快照
//
// 按插入顺序排列，跳过已死亡的条目。每次调用重新检查存活性，
// 返回的接收者在本次派发期间强引用其宿主。
func (s *WeakSet) Resolve() []Receiver {
	_, fns := s.resolve()
	return fns
}

// resolve 返回存活条目的身份与接收者，两切片一一对应
//
// 身份供跨通道解析时去重：同一接收者同时连到绑定通道和
// 全局通道时，一次发送只调用一次。
func (s *WeakSet) resolve() ([]RefID, []Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]RefID, 0, len(s.refs))
	fns := make([]Receiver, 0, len(s.refs))
	for i, h := range s.refs {
		fn, ok := h.Resolve()
		if !ok {
			continue
		}
		ids = append(ids, s.ids[i])
		fns = append(fns, fn)
	}
	return ids, fns
}

// expire 弱引用目标死亡后的清理回调
//
// 身份在插入时即已捕获，目标死亡后依然有效。条目可能已被
// Discard 提前移除，因此按存在与否静默处理。
func (s *WeakSet) expire(id RefID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// index 返回身份所在下标，不存在返回 -1。调用方需持锁。
func (s *WeakSet) index(id RefID) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// removeLocked 移除身份对应的条目。调用方需持锁。
func (s *WeakSet) removeLocked(id RefID) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	s.refs = append(s.refs[:i], s.refs[i+1:]...)
}
