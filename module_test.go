package bands_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	bands "github.com/dep2p/go-bands"
)

// TestModule_ProvidesBand 模块向容器提供 *Band
func TestModule_ProvidesBand(t *testing.T) {
	var b *bands.Band

	app := fxtest.New(t,
		bands.Module(),
		fx.Populate(&b),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, b)

	ch := b.Channel("greet", nil)
	r := bands.Func(func(args ...any) (any, error) { return "hello", nil })
	defer runtime.KeepAlive(r)
	ch.Connect(r)

	results, err := b.Send("greet")
	require.NoError(t, err)
	assert.Equal(t, []any{"hello"}, results)
	runtime.KeepAlive(ch)
}

// TestModule_Options 构造选项透传给 Band
func TestModule_Options(t *testing.T) {
	q := bands.NewQueueDispatcher()

	var b *bands.Band
	app := fxtest.New(t,
		bands.Module(bands.WithDispatcher(q)),
		fx.Populate(&b),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Same(t, q, b.Dispatcher())
}

// TestApp_StartStop App 组装的应用可正常启停
func TestApp_StartStop(t *testing.T) {
	var b *bands.Band
	app := bands.App(fx.Populate(&b))

	require.NoError(t, app.Start(t.Context()))
	require.NotNil(t, b)
	require.NoError(t, app.Stop(t.Context()))
}
