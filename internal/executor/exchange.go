package executor

import (
	"context"

	"signal_bot/internal/models"
)

// ExchangeClient — всё, что исполнителю нужно от биржи.
// Реализация — REST-клиент binance_client/service, по одному на кошелёк.
type ExchangeClient interface {
	SymbolFilters(ctx context.Context, symbol string) (models.SymbolFilters, error)
	MarkPrice(ctx context.Context, symbol string) (float64, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	LeverageBrackets(ctx context.Context, symbol string) ([]models.LeverageBracket, error)
	SubmitOrder(ctx context.Context, spec models.OrderSpec) (models.OrderAck, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	CancelAllOpen(ctx context.Context, symbol string) error
	OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error)
	OpenPositions(ctx context.Context, symbol string) ([]models.Position, error)
}
