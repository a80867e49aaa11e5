package bands

import (
	"reflect"
	"runtime"
	"sync"
	"weak"

	"github.com/dep2p/go-bands/pkg/lib/log"
)

var bandLogger = log.Logger("bands/band")

// Band 一组 Channel 的注册表
//
// 不同 Band 中的 Channel 互不可见。Band 按 (标识符, 宿主身份) 去重
// Channel：同一键重复请求返回同一个 Channel 实例（指针相等）。
//
// Band 只持有 Channel 的弱指针：Channel 失去外部强引用后会被回收，
// 其接收者随之丢失，注册表条目由清理回调异步移除。绑定 Channel
// 通常存放在宿主对象的字段里，宿主死亡时连带回收。
//
// 接收者的执行行为由 Dispatcher 控制，可在构造时用
// WithDispatcher 替换。
type Band struct {
	mu         sync.Mutex
	dispatcher Dispatcher

	// 三个相互耦合的索引，始终保持一致：
	// 按键、按宿主身份、按标识符（切片顺序即创建顺序）
	channels     map[channelKey]weak.Pointer[Channel]
	byOwner      map[uintptr]map[string]channelKey
	byIdentifier map[string][]channelKey
}

// channelKey 注册表键：(标识符, 宿主身份)
//
// 未绑定 Channel 的宿主身份为 0。
type channelKey struct {
	identifier string
	owner      uintptr
}

// New 创建 Band
func New(opts ...Option) *Band {
	settings := bandSettings{
		dispatcher: defaultDispatcher,
	}
	for _, opt := range opts {
		opt(&settings)
	}
	return &Band{
		dispatcher:   settings.dispatcher,
		channels:     make(map[channelKey]weak.Pointer[Channel]),
		byOwner:      make(map[uintptr]map[string]channelKey),
		byIdentifier: make(map[string][]channelKey),
	}
}

// Dispatcher 返回配置的派发器
func (b *Band) Dispatcher() Dispatcher { return b.dispatcher }

// ============================================================================
// 注册表
// ============================================================================

// Channel 获取标识符对应的 Channel
//
// owner 非 nil 时返回绑定 Channel，否则返回未绑定 Channel。
// 获取即创建（get-or-create）且幂等：同一 (标识符, 宿主身份)
// 返回同一个实例。在 Band 锁内完成，并发首次请求不会产生两个实例。
//
// owner 必须是指针（或 nil）；其它类型属于使用错误，直接 panic。
func (b *Band) Channel(identifier string, owner any) *Channel {
	key := channelKey{identifier: identifier, owner: ownerIdentity(owner)}

	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.channels[key]; ok {
		if ch := p.Value(); ch != nil {
			return ch
		}
		// 已死但清理回调尚未运行的残留条目
		b.removeLocked(key)
	}

	ch := &Channel{
		identifier: identifier,
		ownerID:    key.owner,
		band:       b,
		receivers:  NewWeakSet(),
	}
	b.channels[key] = weak.Make(ch)
	owners := b.byOwner[key.owner]
	if owners == nil {
		owners = make(map[string]channelKey)
		b.byOwner[key.owner] = owners
	}
	owners[identifier] = key
	b.byIdentifier[identifier] = append(b.byIdentifier[identifier], key)

	runtime.AddCleanup(ch, b.onChannelDead, key)

	bandLogger.Debug("通道已创建",
		"identifier", identifier,
		"bound", ch.Bound())
	return ch
}

// onChannelDead Channel 被回收后的清理回调
//
// 回调异步运行，期间同一键下可能已注册了新的存活 Channel，
// 此时跳过，避免误删新条目。
func (b *Band) onChannelDead(key channelKey) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.channels[key]
	if !ok || p.Value() != nil {
		return
	}
	b.removeLocked(key)

	bandLogger.Debug("通道已回收",
		"identifier", key.identifier,
		"bound", key.owner != 0)
}

// removeLocked 将键从三个索引中原子移除。调用方需持锁。
func (b *Band) removeLocked(key channelKey) {
	delete(b.channels, key)

	if owners := b.byOwner[key.owner]; owners != nil {
		delete(owners, key.identifier)
		if len(owners) == 0 {
			delete(b.byOwner, key.owner)
		}
	}

	keys := b.byIdentifier[key.identifier]
	kept := keys[:0]
	for _, k := range keys {
		if k != key {
			kept = append(kept, k)
		}
	}
	if len(kept) == 0 {
		delete(b.byIdentifier, key.identifier)
	} else {
		b.byIdentifier[key.identifier] = kept
	}
}

// ownerIdentity 计算宿主身份
//
// nil 宿主（未绑定）为 0；其余必须是非 nil 指针，
// 取指针值作为稳定身份。
func ownerIdentity(owner any) uintptr {
	if owner == nil {
		return 0
	}
	v := reflect.ValueOf(owner)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		panic("bands: channel owner must be a non-nil pointer")
	}
	return v.Pointer()
}

// ============================================================================
// 解析与派发
// ============================================================================

// ChannelReceivers 解析通道可见的接收者组序列
//
// 绑定 Channel：先产出自身的接收者组；若同标识符存在未绑定
// Channel，再产出它的接收者组（绑定发送可达自身订阅者 + 全局
// 订阅者）。
//
// 未绑定 Channel：先产出自身的接收者组；再按创建顺序产出同标识符
// 其它所有 Channel 的接收者组，跳过自身（全局发送扇出到全局
// 订阅者 + 每个绑定实例的订阅者）。
//
// 组顺序和组内连接顺序共同构成 Send 结果的全序。
func (b *Band) ChannelReceivers(ch *Channel) []*WeakSet {
	b.mu.Lock()
	defer b.mu.Unlock()

	groups := []*WeakSet{ch.receivers}

	if ch.Bound() {
		key := channelKey{identifier: ch.identifier, owner: 0}
		if p, ok := b.channels[key]; ok {
			if anon := p.Value(); anon != nil {
				groups = append(groups, anon.receivers)
			}
		}
		return groups
	}

	for _, key := range b.byIdentifier[ch.identifier] {
		p, ok := b.channels[key]
		if !ok {
			continue
		}
		other := p.Value()
		if other == nil || other == ch {
			continue
		}
		groups = append(groups, other.receivers)
	}
	return groups
}

// Send 通过未绑定 Channel 发送
//
// 广播给标识符下的全局订阅者和所有绑定实例的订阅者。
func (b *Band) Send(identifier string, args ...any) ([]any, error) {
	return b.Channel(identifier, nil).Send(args...)
}

// SendTo 通过绑定到 owner 的 Channel 发送
func (b *Band) SendTo(identifier string, owner any, args ...any) ([]any, error) {
	return b.Channel(identifier, owner).Send(args...)
}

// send Channel.Send 的落点：解析接收者组并派发
func (b *Band) send(ch *Channel, args ...any) ([]any, error) {
	groups := b.ChannelReceivers(ch)
	return b.Dispatch(ch.identifier, groups, args...)
}

// Dispatch 用本 Band 的 Dispatcher 执行接收者组
//
// 按组顺序展开为扁平列表，再交给派发器。组内保持连接顺序，
// 跨组按接收者身份去重，首次出现的位置生效。
func (b *Band) Dispatch(identifier string, groups []*WeakSet, args ...any) ([]any, error) {
	var receivers []Receiver
	seen := make(map[RefID]struct{})
	for _, g := range groups {
		ids, fns := g.resolve()
		for i, fn := range fns {
			if _, dup := seen[ids[i]]; dup {
				continue
			}
			seen[ids[i]] = struct{}{}
			receivers = append(receivers, fn)
		}
	}
	return dispatchAll(b.dispatcher, identifier, receivers, args...)
}
