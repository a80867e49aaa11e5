package bands

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registrySize 返回三个索引的条目数（测试辅助）
func registrySize(b *Band) (channels, owners, identifiers int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels), len(b.byOwner), len(b.byIdentifier)
}

// TestBand_New 默认派发器为 SyncDispatcher
func TestBand_New(t *testing.T) {
	b := New()

	require.NotNil(t, b)
	assert.IsType(t, SyncDispatcher{}, b.Dispatcher())
}

// TestBand_ChannelIdempotent 同一 (标识符, 宿主) 返回同一实例
func TestBand_ChannelIdempotent(t *testing.T) {
	b := New()

	unbound := b.Channel("anon", nil)
	assert.Same(t, unbound, b.Channel("anon", nil))
	assert.False(t, unbound.Bound())

	o := &testOwner{name: "o"}
	bound := b.Channel("anon", o)
	assert.Same(t, bound, b.Channel("anon", o))
	assert.True(t, bound.Bound())

	assert.NotSame(t, unbound, bound)

	runtime.KeepAlive(o)
	runtime.KeepAlive(unbound)
	runtime.KeepAlive(bound)
}

// TestBand_ChannelDistinctOwners 不同宿主得到不同通道
func TestBand_ChannelDistinctOwners(t *testing.T) {
	b := New()

	o1 := &testOwner{name: "one"}
	o2 := &testOwner{name: "two"}

	c1 := b.Channel("x", o1)
	c2 := b.Channel("x", o2)
	assert.NotSame(t, c1, c2)

	runtime.KeepAlive(o1)
	runtime.KeepAlive(o2)
	runtime.KeepAlive(c1)
	runtime.KeepAlive(c2)
}

// TestBand_OwnerMustBePointer 非指针宿主属于使用错误
func TestBand_OwnerMustBePointer(t *testing.T) {
	b := New()

	assert.Panics(t, func() {
		b.Channel("x", testOwner{name: "value"})
	})
	assert.Panics(t, func() {
		b.Channel("x", (*testOwner)(nil))
	})
	assert.Panics(t, func() {
		b.Channel("x", "owner")
	})
}

// TestBand_RegistryIndexes 创建后三个索引一致
func TestBand_RegistryIndexes(t *testing.T) {
	b := New()

	o := &testOwner{name: "o"}
	ch1 := b.Channel("x", nil)
	ch2 := b.Channel("x", o)
	ch3 := b.Channel("y", o)

	channels, owners, identifiers := registrySize(b)
	assert.Equal(t, 3, channels)
	assert.Equal(t, 2, owners, "宿主身份：o 和未绑定哨兵")
	assert.Equal(t, 2, identifiers, "标识符：x 和 y")

	runtime.KeepAlive(o)
	runtime.KeepAlive(ch1)
	runtime.KeepAlive(ch2)
	runtime.KeepAlive(ch3)
}

// TestBand_ChannelCollected 失去外部强引用的通道从三个索引中移除
func TestBand_ChannelCollected(t *testing.T) {
	b := New()

	func() {
		ch := b.Channel("ephemeral", nil)
		ch.Connect(mkFunc("x"))
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		channels, owners, identifiers := registrySize(b)
		return channels == 0 && owners == 0 && identifiers == 0
	}, 2*time.Second, 10*time.Millisecond)
}

// TestBand_ChannelRecreatedAfterDeath 回收后的键可立即重建
func TestBand_ChannelRecreatedAfterDeath(t *testing.T) {
	b := New()

	func() {
		_ = b.Channel("phoenix", nil)
	}()
	runtime.GC()

	// 无论清理回调是否已运行，再次获取都返回存活通道
	ch := b.Channel("phoenix", nil)
	require.NotNil(t, ch)
	assert.Same(t, ch, b.Channel("phoenix", nil))
	runtime.KeepAlive(ch)
}

// TestBand_OwnerDeathDropsChannel 宿主死亡连带回收其绑定通道
func TestBand_OwnerDeathDropsChannel(t *testing.T) {
	b := New()

	keep := b.Channel("x", nil)
	defer runtime.KeepAlive(keep)

	func() {
		o := &testOwner{name: "dying"}
		// 绑定通道只被宿主（此处为局部变量）持有
		_ = b.Channel("x", o)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		channels, _, _ := registrySize(b)
		return channels == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// TestBand_SendNoReceivers 无接收者时返回空结果
func TestBand_SendNoReceivers(t *testing.T) {
	b := New()

	results, err := b.Send("empty")
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestBand_SendTo 绑定发送经由宿主通道
func TestBand_SendTo(t *testing.T) {
	b := New()

	o := &testOwner{name: "one"}
	ch := b.Channel("greet", o)
	ch.Connect(Bind(o, (*testOwner).hello))

	results, err := b.SendTo("greet", o)
	require.NoError(t, err)
	assert.Equal(t, []any{"one.hello"}, results)

	runtime.KeepAlive(o)
	runtime.KeepAlive(ch)
}

// TestBand_SendArgs 参数原样传给接收者
func TestBand_SendArgs(t *testing.T) {
	b := New()

	var got []any
	echo := Func(func(args ...any) (any, error) {
		got = append([]any{}, args...)
		return len(args), nil
	})
	defer runtime.KeepAlive(echo)

	ch := b.Channel("args", nil)
	ch.Connect(echo)

	results, err := ch.Send("hello", 42, true)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, results)
	assert.Equal(t, []any{"hello", 42, true}, got)
	runtime.KeepAlive(ch)
}
