package bands

import "errors"

// 公共错误定义
//
// 接收者自身返回的错误不在此列：它们原样从 Send 传播给调用方，
// 本次发送中剩余的接收者被跳过（先错先停）。
var (
	// ErrQueueClosed 队列派发器已关闭
	ErrQueueClosed = errors.New("bands: queue dispatcher closed")
)
