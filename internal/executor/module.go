package executor

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Module связывает приём сигналов с исполнением: одна горутина
// читает канал телеграм-модуля и отдаёт роутеру.
func Module() fx.Option {
	return fx.Module("executor",
		fx.Provide(
			NewManager,
			NewRouter,
		),
		fx.Invoke(func(lc fx.Lifecycle, ctx context.Context, router *Router, signals chan *models.ParsedMessage) {
			runCtx, cancel := context.WithCancel(ctx)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						for {
							select {
							case <-runCtx.Done():
								return
							case msg, ok := <-signals:
								if !ok {
									logger.Error("executor: signal channel closed")
									return
								}
								router.OnMessage(runCtx, msg)
							}
						}
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
