package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"signal_bot/internal/models"
)

// OpenPositions — позиции по паре. Знак positionAmt задаёт сторону:
// плюс — long, минус — short, ноль — позиции нет.
func (c *Client) OpenPositions(ctx context.Context, symbol string) ([]models.Position, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}

	data, err := c.doSigned(ctx, "GET", "/fapi/v2/positionRisk", params)
	if err != nil {
		return nil, fmt.Errorf("OpenPositions %w", err)
	}

	var r []struct {
		Symbol      string `json:"symbol"`
		PositionAmt string `json:"positionAmt"`
		EntryPrice  string `json:"entryPrice"`
		Leverage    string `json:"leverage"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("OpenPositions decode: %w; body=%s", err, string(data))
	}

	out := make([]models.Position, 0, len(r))
	for _, p := range r {
		amt, _ := strconv.ParseFloat(p.PositionAmt, 64)
		entry, _ := strconv.ParseFloat(p.EntryPrice, 64)
		lev, _ := strconv.Atoi(p.Leverage)
		out = append(out, models.Position{
			Symbol:      p.Symbol,
			PositionAmt: amt,
			EntryPrice:  entry,
			Leverage:    lev,
		})
	}
	return out, nil
}
