package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"signal_bot/internal/models"
)

// OpenOrders — открытые ордера по паре. Монитор снимает их по одному
// при закрытии позиции.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	data, err := c.doSigned(ctx, "GET", "/fapi/v1/openOrders", params)
	if err != nil {
		return nil, fmt.Errorf("OpenOrders %w", err)
	}

	var r []struct {
		OrderID       int64  `json:"orderId"`
		ClientOrderID string `json:"clientOrderId"`
		Symbol        string `json:"symbol"`
		Type          string `json:"type"`
		Side          string `json:"side"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("OpenOrders decode: %w; body=%s", err, string(data))
	}

	out := make([]models.OpenOrder, 0, len(r))
	for _, o := range r {
		out = append(out, models.OpenOrder{
			OrderID:       o.OrderID,
			ClientOrderID: o.ClientOrderID,
			Symbol:        o.Symbol,
			Type:          o.Type,
			Side:          o.Side,
		})
	}
	return out, nil
}
