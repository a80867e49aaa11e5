package bands

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// ThrottleDispatcher 限速派发器
//
// 包装另一个 Dispatcher，每次单接收者调用前先向限速器取令牌，
// 把一批接收者的执行摊平到时间轴上。解析语义不变，仍是同步
// 按序执行，只是调用之间可能阻塞等待。
type ThrottleDispatcher struct {
	inner   Dispatcher
	limiter *rate.Limiter
	ctx     context.Context
}

// NewThrottleDispatcher 创建限速派发器
//
// limit 为每秒允许的接收者调用数，burst 为突发容量。
// inner 为 nil 时使用 SyncDispatcher。
func NewThrottleDispatcher(inner Dispatcher, limit rate.Limit, burst int) *ThrottleDispatcher {
	if inner == nil {
		inner = SyncDispatcher{}
	}
	return &ThrottleDispatcher{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		ctx:     context.Background(),
	}
}

// Dispatch 等待令牌后委托给内层派发器
func (d *ThrottleDispatcher) Dispatch(identifier string, receiver Receiver, args ...any) (any, error) {
	if err := d.limiter.Wait(d.ctx); err != nil {
		return nil, fmt.Errorf("throttle wait: %w", err)
	}
	return d.inner.Dispatch(identifier, receiver, args...)
}
