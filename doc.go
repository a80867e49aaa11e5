// Package bands 提供进程内发布/订阅信号总线
//
// 命名"通道"（Channel）收集有序的回调接收者列表；一次"发送"
// （Send）按序调用当前存活的全部接收者并收集返回值。通道可以是
// 全局的（未绑定），也可以绑定到某个宿主对象实例；绑定通道能收到
// 经由同标识符未绑定通道发出的广播，反之亦然。
//
// # 核心概念
//
//   - Band: Channel 的注册表/命名空间，不同 Band 互不可见
//   - Channel: 命名端点，可选绑定宿主，持有接收者集合
//   - WeakSet: 有序去重的接收者集合，默认弱引用
//   - Dispatcher: 可插拔的接收者执行策略
//
// # 快速开始
//
//	band := bands.New()
//
//	// 连接自由函数（句柄由调用方持有，回收后自动断开）
//	hello := bands.Func(func(args ...any) (any, error) {
//	    return "hello", nil
//	})
//	ch := band.Channel("greeting", nil)
//	ch.Connect(hello)
//
//	results, err := ch.Send()  // ["hello"]
//
// # 绑定通道
//
// 每个宿主实例在构造时显式申请自己的绑定通道并存入字段
// （替代动态语言里的描述符自动绑定）：
//
//	type Component struct {
//	    name    string
//	    Started *bands.Channel
//	}
//
//	func NewComponent(band *bands.Band, name string) *Component {
//	    c := &Component{name: name}
//	    c.Started = band.Channel("started", c)
//	    c.Started.Connect(bands.Bind(c, (*Component).OnStarted))
//	    return c
//	}
//
// 绑定发送可达自身订阅者加全局订阅者；未绑定发送扇出到全局
// 订阅者加每个绑定实例的订阅者（按实例通道创建顺序）。
//
// # 接收者生命周期
//
// 接收者默认弱引用：连接回调不会延长宿主对象的生命周期，宿主被
// 回收后接收者自动从通道中消失。Strong() 选项改为强持有。
//
// # 执行模型
//
// 单线程同步：Send 在调用方 goroutine 上完成全部解析与派发，
// 所有接收者执行完毕后才返回。注册表和接收者集合内部有互斥保护，
// 并发调用是安全的；替代执行策略（排队、限流、日志、审计）通过
// 自定义 Dispatcher 实现，见 QueueDispatcher、ThrottleDispatcher、
// LoggingDispatcher、HistoryDispatcher。
//
// # 文件组织
//
//	band.go        注册表与可见性解析
//	channel.go     命名端点
//	weakset.go     接收者集合
//	refs.go        弱/强接收者引用
//	dispatcher.go  派发器接口与默认实现
//	context.go     派发上下文
//	active.go      进程级活动 Band 与顶层便捷函数
//	module.go      Fx 模块
package bands
