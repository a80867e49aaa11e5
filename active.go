package bands

import "sync"

// ============================================================================
// 活动 Band
// ============================================================================

// 进程级"当前活动 Band"插槽
//
// 进程启动时以一个默认 Band 初始化。不带显式 Band 的顶层
// GetChannel/Send 调用都落在这个插槽上。优先把 Band 显式传给
// 使用方，插槽只作为顶层便捷调用的兜底。
var (
	activeMu    sync.RWMutex
	defaultBand = New()
	activeBand  = defaultBand
)

// GetBand 返回当前活动 Band
func GetBand() *Band {
	activeMu.RLock()
	defer activeMu.RUnlock()
	return activeBand
}

// DefaultBand 返回进程默认 Band
func DefaultBand() *Band {
	return defaultBand
}

// UseBand 把活动 Band 切换为指定 Band
//
// nil 静默忽略。
func UseBand(b *Band) {
	if b == nil {
		return
	}
	activeMu.Lock()
	defer activeMu.Unlock()
	activeBand = b
}

// UseDefaultBand 把活动 Band 切回默认 Band
func UseDefaultBand() {
	activeMu.Lock()
	defer activeMu.Unlock()
	activeBand = defaultBand
}

// ============================================================================
// 顶层便捷函数
// ============================================================================

// GetChannel 在活动 Band 中获取 Channel
//
// owner 非 nil 时返回绑定 Channel，否则返回未绑定 Channel。
// 获取即创建且幂等，见 Band.Channel。
func GetChannel(identifier string, owner any) *Channel {
	return GetBand().Channel(identifier, owner)
}

// Send 通过活动 Band 的未绑定 Channel 发送
//
// 广播给标识符下的全部未绑定和绑定接收者。
func Send(identifier string, args ...any) ([]any, error) {
	return GetBand().Send(identifier, args...)
}

// SendTo 通过活动 Band 中绑定到 owner 的 Channel 发送
func SendTo(identifier string, owner any, args ...any) ([]any, error) {
	return GetBand().SendTo(identifier, owner, args...)
}
