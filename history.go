package bands

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DispatchRecord 一次已完成派发的审计记录
type DispatchRecord struct {
	// DispatchID 派发标识
	DispatchID uuid.UUID
	// Identifier 通道标识符
	Identifier string
	// Receivers 本次调用的接收者数量
	Receivers int
	// Results 收集到的结果数量
	Results int
	// When 完成时间
	When time.Time
}

// HistoryDispatcher 带审计历史的派发器
//
// 包装另一个 Dispatcher，在 AfterDispatch 钩子里把派发摘要写入
// 按 DispatchID 索引的 LRU 缓存，只保留最近 size 条。
// 只记录成功完成的派发；出错中止的派发没有 After 钩子，不入账。
type HistoryDispatcher struct {
	inner Dispatcher
	clock clock.Clock
	cache *lru.Cache[uuid.UUID, DispatchRecord]
}

// NewHistoryDispatcher 创建审计派发器
//
// size 为保留的最近派发条数，必须为正。inner 为 nil 时使用
// SyncDispatcher。
func NewHistoryDispatcher(inner Dispatcher, size int, opts ...HistoryOpt) (*HistoryDispatcher, error) {
	if inner == nil {
		inner = SyncDispatcher{}
	}
	cache, err := lru.New[uuid.UUID, DispatchRecord](size)
	if err != nil {
		return nil, err
	}
	d := &HistoryDispatcher{
		inner: inner,
		clock: clock.New(),
		cache: cache,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch 委托给内层派发器
func (d *HistoryDispatcher) Dispatch(identifier string, receiver Receiver, args ...any) (any, error) {
	return d.inner.Dispatch(identifier, receiver, args...)
}

// AfterDispatch 记录派发摘要
func (d *HistoryDispatcher) AfterDispatch(ctx *Context) {
	d.cache.Add(ctx.DispatchID, DispatchRecord{
		DispatchID: ctx.DispatchID,
		Identifier: ctx.Identifier,
		Receivers:  len(ctx.Receivers),
		Results:    len(ctx.Results),
		When:       d.clock.Now(),
	})
}

// Record 按派发标识查询记录
func (d *HistoryDispatcher) Record(id uuid.UUID) (DispatchRecord, bool) {
	return d.cache.Get(id)
}

// Recent 返回缓存中的记录，从最旧到最新
func (d *HistoryDispatcher) Recent() []DispatchRecord {
	keys := d.cache.Keys()
	out := make([]DispatchRecord, 0, len(keys))
	for _, k := range keys {
		if rec, ok := d.cache.Peek(k); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Len 返回缓存中的记录数
func (d *HistoryDispatcher) Len() int {
	return d.cache.Len()
}
