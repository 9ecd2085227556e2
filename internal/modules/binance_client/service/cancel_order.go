package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CancelOrder снимает один ордер по id. Ошибку "ордера уже нет"
// решает вызывающий: при гонке с исполнением это штатный случай.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))

	_, err := c.doSigned(ctx, "DELETE", "/fapi/v1/order", params)
	if err != nil {
		return fmt.Errorf("CancelOrder %w", err)
	}
	return nil
}

// CancelAllOpen снимает все открытые ордера по паре разом.
func (c *Client) CancelAllOpen(ctx context.Context, symbol string) error {
	params := url.Values{}
	params.Set("symbol", symbol)

	_, err := c.doSigned(ctx, "DELETE", "/fapi/v1/allOpenOrders", params)
	if err != nil {
		return fmt.Errorf("CancelAllOpen %w", err)
	}
	return nil
}
