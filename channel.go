package bands

import "fmt"

// Channel 向已连接接收者发送消息的命名端点
//
// 本质上是一个按连接顺序调用的函数注册表。Channel 可以是未绑定的
// （匿名广播），也可以绑定到某个宿主对象。通过未绑定 Channel 发送时，
// 消息会广播给同标识符的未绑定和所有已绑定接收者；通过已绑定 Channel
// 发送时，消息发给该绑定 Channel 的接收者，外加同标识符未绑定
// Channel 的接收者。
//
// 通常不手工构造 Channel，而是通过 Band.Channel（或活动 Band 上的
// GetChannel 工厂函数）获取。注册表之外的簿记都在 Band 中，
// Channel 自身除标识符/宿主/接收者集合外无状态。
type Channel struct {
	identifier string
	ownerID    uintptr
	band       *Band
	receivers  *WeakSet
}

// Identifier 返回通道标识符
func (c *Channel) Identifier() string { return c.identifier }

// Bound 是否绑定到宿主对象
func (c *Channel) Bound() bool { return c.ownerID != 0 }

// Band 返回所属 Band
func (c *Channel) Band() *Band { return c.band }

// Receivers 返回直连接收者集合
func (c *Channel) Receivers() *WeakSet { return c.receivers }

// Connect 连接接收者
//
// 同一接收者重复连接是静默空操作。默认弱引用；
// Strong() 选项强持有接收者，阻止其被回收。
func (c *Channel) Connect(r Ref, opts ...ConnectOpt) {
	c.receivers.Add(r, opts...)
}

// Disconnect 断开接收者
//
// 未连接的接收者静默忽略。
func (c *Channel) Disconnect(r Ref) {
	c.receivers.Discard(r)
}

// Connected 判断接收者是否已连接（按身份，不要求存活）
func (c *Channel) Connected(r Ref) bool {
	return c.receivers.Contains(r)
}

// Send 向可见接收者发送消息
//
// 由所属 Band 解析可见接收者组（见 Band.ChannelReceivers）并派发，
// 返回按调用顺序排列的结果列表。某个接收者返回错误时，
// 剩余接收者被跳过，错误原样传播。
func (c *Channel) Send(args ...any) ([]any, error) {
	return c.band.send(c, args...)
}

// String 实现 fmt.Stringer
func (c *Channel) String() string {
	kind := "unbound"
	if c.Bound() {
		kind = "bound"
	}
	return fmt.Sprintf("<%s Channel %q>", kind, c.identifier)
}
