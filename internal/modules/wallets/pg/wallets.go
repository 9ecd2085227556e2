package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal_bot/internal/models"
	"signal_bot/pkg/db"
)

const listWallets = `
SELECT api_key, api_secret, balance, leverage
FROM wallets
WHERE enabled = true
ORDER BY id
`

type Wallets struct {
	db *db.PgTxManager
}

// New instance
func New(txManager *db.PgTxManager) *Wallets {
	return &Wallets{
		db: txManager,
	}
}

// List выбирает активные кошельки из базы.
func (w *Wallets) List(ctx context.Context) (out []models.Wallet, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Wallets.List: %w", err)
		}
	}()

	err = w.db.RunMaster(ctx,
		func(ctxTx context.Context, tx pgx.Tx) error {
			rows, err := tx.Query(ctxTx, listWallets)
			if err != nil {
				return err
			}
			defer rows.Close()

			for rows.Next() {
				var wallet models.Wallet
				if err := rows.Scan(
					&wallet.APIKey,
					&wallet.APISecret,
					&wallet.Balance,
					&wallet.Leverage,
				); err != nil {
					return err
				}
				out = append(out, wallet)
			}
			return rows.Err()
		})
	if err != nil {
		return nil, err
	}

	return out, nil
}
