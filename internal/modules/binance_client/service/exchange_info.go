package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"signal_bot/internal/models"
)

// SymbolFilters тянет сетку пары: шаг объёма и шаг цены.
// Без обоих фильтров торговать нельзя — лучше упасть тут, чем на ордере.
func (c *Client) SymbolFilters(ctx context.Context, symbol string) (models.SymbolFilters, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	data, err := c.doPublic(ctx, "/fapi/v1/exchangeInfo", params)
	if err != nil {
		return models.SymbolFilters{}, fmt.Errorf("SymbolFilters %w", err)
	}

	var r struct {
		Symbols []struct {
			Symbol  string `json:"symbol"`
			Status  string `json:"status"`
			Filters []struct {
				FilterType string `json:"filterType"`
				StepSize   string `json:"stepSize"`
				TickSize   string `json:"tickSize"`
			} `json:"filters"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return models.SymbolFilters{}, fmt.Errorf("SymbolFilters decode: %w; body=%s", err, string(data))
	}

	for _, s := range r.Symbols {
		if s.Symbol != symbol {
			continue
		}
		if s.Status != "" && s.Status != "TRADING" {
			return models.SymbolFilters{}, fmt.Errorf("SymbolFilters: %s not trading, status=%s", symbol, s.Status)
		}

		out := models.SymbolFilters{Symbol: symbol}
		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				out.StepSize = f.StepSize
			case "PRICE_FILTER":
				out.TickSize = f.TickSize
			}
		}
		if out.StepSize == "" {
			return models.SymbolFilters{}, fmt.Errorf("SymbolFilters: %s has no LOT_SIZE filter", symbol)
		}
		if out.TickSize == "" {
			return models.SymbolFilters{}, fmt.Errorf("SymbolFilters: %s has no PRICE_FILTER filter", symbol)
		}
		return out, nil
	}

	return models.SymbolFilters{}, fmt.Errorf("SymbolFilters: symbol %s not found", symbol)
}
