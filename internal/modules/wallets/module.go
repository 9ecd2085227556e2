package wallets

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/wallets/pg"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// Module выбирает источник кошельков: база, если она есть,
// иначе единственный кошелёк из окружения.
func Module() fx.Option {
	return fx.Module("wallets",
		fx.Provide(
			func(txManager *db.PgTxManager, cfg *config.Config) Source {
				if txManager == nil {
					logger.Warn("wallets: using env source, database disabled")
					return NewEnvSource(cfg)
				}
				return pg.New(txManager)
			},
		),
	)
}
