package bands

import "github.com/google/uuid"

// Context 一次派发的上下文
//
// 每次派发新建，传给派发器的 BeforeDispatch/AfterDispatch 钩子，
// 不持久化。构造后除 Results 外不可变。
type Context struct {
	// DispatchID 本次派发的唯一标识，供日志/审计钩子关联前后事件
	DispatchID uuid.UUID

	// Identifier 通道标识符
	Identifier string

	// Receivers 已解析的接收者快照，按调用顺序排列
	Receivers []Receiver

	// Args 发送的参数
	Args []any

	// Results 接收者返回值，按调用顺序追加，与 Receivers 一一对应
	Results []any
}

// newContext 构造派发上下文
func newContext(identifier string, receivers []Receiver, args ...any) *Context {
	return &Context{
		DispatchID: uuid.New(),
		Identifier: identifier,
		Receivers:  receivers,
		Args:       args,
		Results:    make([]any, 0, len(receivers)),
	}
}
