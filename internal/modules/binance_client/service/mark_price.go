package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// MarkPrice — текущая марк-цена, по ней считаем объём входа.
func (c *Client) MarkPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	data, err := c.doPublic(ctx, "/fapi/v1/premiumIndex", params)
	if err != nil {
		return 0, fmt.Errorf("MarkPrice %w", err)
	}

	var r struct {
		MarkPrice string `json:"markPrice"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return 0, fmt.Errorf("MarkPrice decode: %w; body=%s", err, string(data))
	}

	px, err := strconv.ParseFloat(r.MarkPrice, 64)
	if err != nil || px <= 0 {
		return 0, fmt.Errorf("MarkPrice parse: %v (%q)", err, r.MarkPrice)
	}
	return px, nil
}
