package service

import (
	"context"
	"encoding/json"
	"fmt"
)

// CreateListenKey открывает user-data поток кошелька.
// Ключ живёт 60 минут, продлеваем его KeepAliveListenKey.
func (c *Client) CreateListenKey(ctx context.Context) (string, error) {
	data, err := c.doKeyed(ctx, "POST", "/fapi/v1/listenKey")
	if err != nil {
		return "", fmt.Errorf("CreateListenKey %w", err)
	}

	var r struct {
		ListenKey string `json:"listenKey"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return "", fmt.Errorf("CreateListenKey decode: %w; body=%s", err, string(data))
	}
	if r.ListenKey == "" {
		return "", fmt.Errorf("CreateListenKey: empty listenKey RAW=%s", string(data))
	}
	return r.ListenKey, nil
}

func (c *Client) KeepAliveListenKey(ctx context.Context) error {
	_, err := c.doKeyed(ctx, "PUT", "/fapi/v1/listenKey")
	if err != nil {
		return fmt.Errorf("KeepAliveListenKey %w", err)
	}
	return nil
}
