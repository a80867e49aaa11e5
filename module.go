package bands

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-bands/pkg/lib/log"
)

var moduleLogger = log.Logger("bands/module")

// ============================================================================
// Fx 模块
// ============================================================================

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Band *Band
}

// Module 返回 Fx 模块
//
// 提供一个按选项构造的 *Band 并挂接生命周期：
//
//	app := fx.New(
//	    bands.Module(),
//	    fx.Invoke(func(b *bands.Band) {
//	        b.Channel("started", nil).Connect(...)
//	    }),
//	)
func Module(opts ...Option) fx.Option {
	return fx.Module("bands",
		fx.Provide(func() Result {
			return Result{Band: New(opts...)}
		}),
		fx.Invoke(registerLifecycle),
	)
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC   fx.Lifecycle
	Band *Band
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			moduleLogger.Debug("bands 模块已启动")
			return nil
		},
		OnStop: func(_ context.Context) error {
			// Band 无需显式释放：通道与接收者均为弱引用
			moduleLogger.Debug("bands 模块已停止")
			return nil
		},
	})
}

// App 组装一个包含 bands 模块的 Fx 应用
//
// 禁用 Fx 自身的日志输出，避免干扰使用方日志。
func App(opts ...fx.Option) *fx.App {
	all := append([]fx.Option{
		Module(),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	}, opts...)
	return fx.New(all...)
}
