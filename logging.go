package bands

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dep2p/go-bands/pkg/lib/log"
)

var dispatchLogger = log.Logger("bands/dispatch")

// startedCap 在途起始时间条目上限
//
// 出错中止的派发没有 After 钩子来删除条目，靠容量上限淘汰，
// 长期运行的派发器不会无界累积。
const startedCap = 1024

// LoggingDispatcher 带结构化日志的派发器
//
// 包装另一个 Dispatcher，在整批执行前后输出 Debug 日志并统计耗时。
// 耗时通过可注入的 clock.Clock 计算，测试中可换成 clock.Mock。
//
// 演示钩子的典型用法：横切关注点挂在 Before/After 上，
// 单接收者调用原样委托给内层派发器，不触碰解析语义。
type LoggingDispatcher struct {
	inner   Dispatcher
	clock   clock.Clock
	started *expirable.LRU[uuid.UUID, time.Time]
}

// NewLoggingDispatcher 创建日志派发器
//
// inner 为 nil 时使用 SyncDispatcher。
func NewLoggingDispatcher(inner Dispatcher, opts ...LoggingOpt) *LoggingDispatcher {
	if inner == nil {
		inner = SyncDispatcher{}
	}
	d := &LoggingDispatcher{
		inner:   inner,
		clock:   clock.New(),
		started: expirable.NewLRU[uuid.UUID, time.Time](startedCap, nil, 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch 委托给内层派发器
func (d *LoggingDispatcher) Dispatch(identifier string, receiver Receiver, args ...any) (any, error) {
	return d.inner.Dispatch(identifier, receiver, args...)
}

// BeforeDispatch 记录起始时间并输出开始日志
func (d *LoggingDispatcher) BeforeDispatch(ctx *Context) {
	d.started.Add(ctx.DispatchID, d.clock.Now())

	dispatchLogger.Debug("开始派发",
		"dispatchID", ctx.DispatchID,
		"identifier", ctx.Identifier,
		"receivers", len(ctx.Receivers))
}

// AfterDispatch 输出完成日志和耗时
//
// 接收者出错的派发不会走到这里，其起始时间条目留在缓存中
// 等容量上限淘汰。
func (d *LoggingDispatcher) AfterDispatch(ctx *Context) {
	now := d.clock.Now()

	start, ok := d.started.Get(ctx.DispatchID)
	d.started.Remove(ctx.DispatchID)

	var elapsed time.Duration
	if ok {
		elapsed = now.Sub(start)
	}

	dispatchLogger.Debug("派发完成",
		"dispatchID", ctx.DispatchID,
		"identifier", ctx.Identifier,
		"results", len(ctx.Results),
		"duration", elapsed)
}
