package bands

import "github.com/benbjohnson/clock"

// ============================================================================
// Band 选项
// ============================================================================

// bandSettings Band 构造设置
type bandSettings struct {
	dispatcher Dispatcher
}

// Option Band 构造选项函数
type Option func(*bandSettings)

// WithDispatcher 替换接收者执行策略
//
// 默认为 SyncDispatcher（同步按序执行）。
func WithDispatcher(d Dispatcher) Option {
	return func(s *bandSettings) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// ============================================================================
// 连接选项
// ============================================================================

// connectSettings 连接设置
type connectSettings struct {
	strong bool
}

// ConnectOpt 连接选项函数
type ConnectOpt func(*connectSettings)

// Strong 强引用连接
//
// 在连接时解析接收者并强持有，阻止其宿主被回收。
// 注意：已弱连接的接收者再以 Strong 连接是空操作，
// 首次注册生效，不升级强度。
func Strong() ConnectOpt {
	return func(s *connectSettings) {
		s.strong = true
	}
}

// ============================================================================
// 派发器扩展选项
// ============================================================================

// LoggingOpt LoggingDispatcher 选项函数
type LoggingOpt func(*LoggingDispatcher)

// WithClock 替换计时时钟（测试中注入 clock.Mock）
func WithClock(c clock.Clock) LoggingOpt {
	return func(d *LoggingDispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}

// HistoryOpt HistoryDispatcher 选项函数
type HistoryOpt func(*HistoryDispatcher)

// WithHistoryClock 替换记录时间戳用的时钟
func WithHistoryClock(c clock.Clock) HistoryOpt {
	return func(d *HistoryDispatcher) {
		if c != nil {
			d.clock = c
		}
	}
}
