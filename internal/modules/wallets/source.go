package wallets

import (
	"context"

	"signal_bot/internal/models"
)

// Source отдаёт список кошельков, на которые раскладываем сигнал.
type Source interface {
	List(ctx context.Context) ([]models.Wallet, error)
}
