package bands

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

// queuedCall 一次被推迟的接收者调用
type queuedCall struct {
	identifier string
	receiver   Receiver
	args       []any
}

// QueueDispatcher 排队派发器
//
// Send 时不执行接收者，只把调用入队，由调用方在合适的执行环境里
// 调用 Drain 统一执行。适合把接收者执行转移到主线程/事件循环。
//
// 入队阶段 Send 的结果列表全为 nil。Drain 时发送方已经返回，
// 先错先停不再适用：所有排队调用都会执行，错误用 multierr 聚合
// 后一次性返回。
type QueueDispatcher struct {
	mu     sync.Mutex
	queue  []queuedCall
	closed bool
}

// NewQueueDispatcher 创建排队派发器
func NewQueueDispatcher() *QueueDispatcher {
	return &QueueDispatcher{}
}

// Dispatch 入队而不执行
func (d *QueueDispatcher) Dispatch(identifier string, receiver Receiver, args ...any) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrQueueClosed
	}
	d.queue = append(d.queue, queuedCall{
		identifier: identifier,
		receiver:   receiver,
		args:       args,
	})
	return nil, nil
}

// Len 返回排队中的调用数
func (d *QueueDispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Drain 执行并清空队列
//
// 按入队顺序执行全部调用，返回成功调用的结果列表和聚合后的错误。
// 出错的调用不占结果位。执行发生在锁外，接收者里可以再触发 Send。
func (d *QueueDispatcher) Drain() ([]any, error) {
	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	var (
		results []any
		errs    error
	)
	for _, call := range pending {
		result, err := call.receiver(call.args...)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", call.identifier, err))
			continue
		}
		results = append(results, result)
	}
	return results, errs
}

// Close 关闭派发器并丢弃队列
//
// 关闭后 Dispatch 返回 ErrQueueClosed。可重复调用。
func (d *QueueDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.queue = nil
	return nil
}
