package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"signal_bot/internal/models"
)

// SubmitOrder выставляет один ордер лестницы. Поля собираются по типу:
// market — количество, стоп/трейл — триггер и closePosition/reduceOnly.
func (c *Client) SubmitOrder(ctx context.Context, spec models.OrderSpec) (models.OrderAck, error) {
	if spec.Symbol == "" || spec.Side == "" {
		return models.OrderAck{}, fmt.Errorf("SubmitOrder: symbol/side empty")
	}

	params := url.Values{}
	params.Set("symbol", spec.Symbol)
	params.Set("side", spec.Side)
	params.Set("type", string(spec.Type))
	if spec.ClientOrderID != "" {
		params.Set("newClientOrderId", spec.ClientOrderID)
	}

	switch spec.Type {
	case models.KindEntry:
		if spec.Quantity <= 0 {
			return models.OrderAck{}, fmt.Errorf("SubmitOrder: quantity <= 0")
		}
		params.Set("quantity", formatQty(spec.Quantity))

	case models.KindStopLoss:
		if spec.StopPrice <= 0 {
			return models.OrderAck{}, fmt.Errorf("SubmitOrder: stopPrice <= 0")
		}
		params.Set("stopPrice", formatPrice(spec.StopPrice))
		if spec.ClosePosition {
			params.Set("closePosition", "true")
		} else {
			params.Set("quantity", formatQty(spec.Quantity))
			params.Set("reduceOnly", "true")
		}

	case models.KindTakeProfit:
		if spec.Price <= 0 || spec.StopPrice <= 0 || spec.Quantity <= 0 {
			return models.OrderAck{}, fmt.Errorf("SubmitOrder: bad take profit leg")
		}
		// лимитка на цели: price — исполнение, stopPrice — триггер
		params.Set("price", formatPrice(spec.Price))
		params.Set("stopPrice", formatPrice(spec.StopPrice))
		params.Set("quantity", formatQty(spec.Quantity))
		params.Set("reduceOnly", "true")
		tif := spec.TimeInForce
		if tif == "" {
			tif = "GTC"
		}
		params.Set("timeInForce", tif)

	case models.KindTrailing:
		if spec.ActivationPrice <= 0 || spec.Quantity <= 0 {
			return models.OrderAck{}, fmt.Errorf("SubmitOrder: bad trailing leg")
		}
		params.Set("activationPrice", formatPrice(spec.ActivationPrice))
		params.Set("callbackRate", strconv.FormatFloat(spec.CallbackRate, 'f', -1, 64))
		params.Set("quantity", formatQty(spec.Quantity))
		params.Set("reduceOnly", "true")

	default:
		return models.OrderAck{}, fmt.Errorf("SubmitOrder: unsupported type %q", spec.Type)
	}

	data, err := c.doSigned(ctx, "POST", "/fapi/v1/order", params)
	if err != nil {
		return models.OrderAck{}, fmt.Errorf("SubmitOrder %w", err)
	}

	var r struct {
		OrderID       int64  `json:"orderId"`
		ClientOrderID string `json:"clientOrderId"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return models.OrderAck{}, fmt.Errorf("SubmitOrder decode: %w; body=%s", err, string(data))
	}
	if r.OrderID == 0 {
		return models.OrderAck{}, fmt.Errorf("SubmitOrder: empty orderId RAW=%s", string(data))
	}

	return models.OrderAck{
		OrderID:       r.OrderID,
		ClientOrderID: r.ClientOrderID,
	}, nil
}
