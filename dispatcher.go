package bands

// ============================================================================
// 派发器
// ============================================================================

// Dispatcher 接收者执行策略
//
// Channel 发送消息时由 Dispatcher 执行每个接收者。Dispatch 是唯一的
// 单接收者调用扩展点：替代执行策略（排队、限流、投递到其它执行
// 环境等）只需覆盖它，上下文构建与钩子时序由派发驱动统一复用。
//
// 实现可以额外实现 BeforeDispatcher/AfterDispatcher 能力接口，
// 在整批执行前后挂钩，用于日志、审计等横切关注点。
type Dispatcher interface {
	// Dispatch 调用单个接收者并返回其结果
	Dispatch(identifier string, receiver Receiver, args ...any) (any, error)
}

// BeforeDispatcher 整批执行前的可选钩子
type BeforeDispatcher interface {
	// BeforeDispatch 在调用任何接收者之前执行，
	// 此时 ctx.Results 为空
	BeforeDispatch(ctx *Context)
}

// AfterDispatcher 整批执行后的可选钩子
type AfterDispatcher interface {
	// AfterDispatch 在全部接收者成功执行后执行，
	// 此时 ctx.Results 已填满。某个接收者出错时不会执行
	AfterDispatch(ctx *Context)
}

// ============================================================================
// 默认实现
// ============================================================================

// SyncDispatcher 默认派发器：在调用方线程上同步执行接收者
type SyncDispatcher struct{}

// Dispatch 直接调用接收者
func (SyncDispatcher) Dispatch(_ string, receiver Receiver, args ...any) (any, error) {
	return receiver(args...)
}

// defaultDispatcher 未配置时 Band 使用的派发器
var defaultDispatcher Dispatcher = SyncDispatcher{}

// ============================================================================
// 派发驱动
// ============================================================================

// dispatchAll 执行一批已解析的接收者
//
// 构建 Context，依次：Before 钩子 → 按序调用每个接收者并收集
// 结果 → After 钩子。接收者返回错误时立即停止，错误连同已得的
// 部分结果返回（先错先停），After 钩子被跳过。
func dispatchAll(d Dispatcher, identifier string, receivers []Receiver, args ...any) ([]any, error) {
	ctx := newContext(identifier, receivers, args...)

	if before, ok := d.(BeforeDispatcher); ok {
		before.BeforeDispatch(ctx)
	}

	for _, receiver := range ctx.Receivers {
		result, err := d.Dispatch(identifier, receiver, args...)
		if err != nil {
			return ctx.Results, err
		}
		ctx.Results = append(ctx.Results, result)
	}

	if after, ok := d.(AfterDispatcher); ok {
		after.AfterDispatch(ctx)
	}

	return ctx.Results, nil
}
