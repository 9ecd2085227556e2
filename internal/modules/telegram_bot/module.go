package telegram

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/executor"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// 1. Очередь сигналов: телеграм пишет, исполнитель читает
		fx.Provide(
			func() chan *models.ParsedMessage {
				return make(chan *models.ParsedMessage, 16)
			},
		),

		// 2. Сервис Telegram как *service.Telegram
		fx.Provide(
			service.NewTelegram,
		),

		// 3. Адаптер: *service.Telegram -> executor.Notifier
		fx.Provide(
			func(t *service.Telegram) executor.Notifier {
				return t
			},
		),

		// Менеджер и бот ссылаются друг на друга, цикл рвём сеттерами
		fx.Invoke(
			func(t *service.Telegram, m *executor.Manager, n executor.Notifier) {
				t.SetStatusSource(m)
				m.SetNotifier(n)
			},
		),

		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, appCtx context.Context, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						t.Start(appCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
