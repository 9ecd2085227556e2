package wallets

import (
	"context"
	"errors"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
)

var errNoWallet = errors.New("no wallet configured: set BINANCE_API_KEY / BINANCE_API_SECRET")

// EnvSource — один кошелёк из окружения. Режим без базы.
type EnvSource struct {
	cfg *config.Config
}

func NewEnvSource(cfg *config.Config) *EnvSource {
	return &EnvSource{cfg: cfg}
}

func (s *EnvSource) List(_ context.Context) ([]models.Wallet, error) {
	if s.cfg.WalletAPIKey == "" || s.cfg.WalletAPISecret == "" {
		return nil, errNoWallet
	}
	return []models.Wallet{
		{
			APIKey:    s.cfg.WalletAPIKey,
			APISecret: s.cfg.WalletAPISecret,
			Balance:   s.cfg.WalletBalance,
			Leverage:  s.cfg.WalletLeverage,
		},
	}, nil
}
