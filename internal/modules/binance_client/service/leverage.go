package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"signal_bot/internal/models"
)

// SetLeverage выставляет плечо на пару перед входом.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("leverage", strconv.Itoa(leverage))

	_, err := c.doSigned(ctx, "POST", "/fapi/v1/leverage", params)
	if err != nil {
		return fmt.Errorf("SetLeverage %w", err)
	}
	return nil
}

// IsLeverageRejected — биржа не даёт такое плечо на этой паре.
// Код -4028: Leverage is not valid.
func IsLeverageRejected(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "-4028") ||
		strings.Contains(err.Error(), "Leverage") && strings.Contains(err.Error(), "not valid")
}

// LeverageBrackets — ступени плеча по паре. Нужны, когда запрошенное
// плечо отвергли: берём максимум первой ступени и пробуем ещё раз.
func (c *Client) LeverageBrackets(ctx context.Context, symbol string) ([]models.LeverageBracket, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	data, err := c.doSigned(ctx, "GET", "/fapi/v1/leverageBracket", params)
	if err != nil {
		return nil, fmt.Errorf("LeverageBrackets %w", err)
	}

	var r []struct {
		Symbol   string `json:"symbol"`
		Brackets []struct {
			Bracket         int     `json:"bracket"`
			InitialLeverage int     `json:"initialLeverage"`
			NotionalCap     float64 `json:"notionalCap"`
		} `json:"brackets"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("LeverageBrackets decode: %w; body=%s", err, string(data))
	}

	for _, entry := range r {
		if entry.Symbol != symbol {
			continue
		}
		out := make([]models.LeverageBracket, 0, len(entry.Brackets))
		for _, b := range entry.Brackets {
			out = append(out, models.LeverageBracket{
				Bracket:         b.Bracket,
				InitialLeverage: b.InitialLeverage,
				NotionalCap:     b.NotionalCap,
			})
		}
		return out, nil
	}

	return nil, fmt.Errorf("LeverageBrackets: symbol %s not found", symbol)
}
