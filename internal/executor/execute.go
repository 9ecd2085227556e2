package executor

import (
	"context"
	"fmt"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/internal/monitor"
	binance "signal_bot/internal/modules/binance_client/service"
	"signal_bot/pkg/logger"
)

// executeTrade проводит сигнал от начала до конца: плечо, расчёт лесенки,
// маркет-вход, стоп, тейки, трейлинг, постановка монитора.
//
// Порядок выставления жёсткий: сначала вход, сразу за ним стоп —
// позиция не живёт без защиты дольше одного запроса. Отката нет:
// если нога не встала, оставшиеся не выставляем, но монитор ставим
// на то, что встало.
func (s *Session) executeTrade(ctx context.Context, sig *models.TradeSignal) error {
	symbol := sig.Pair

	filters, err := s.client.SymbolFilters(ctx, symbol)
	if err != nil {
		return err
	}
	markPrice, err := s.client.MarkPrice(ctx, symbol)
	if err != nil {
		return err
	}

	if err := s.applyLeverage(ctx, symbol); err != nil {
		return err
	}

	ladder, err := BuildLadder(sig, filters, markPrice, s.wallet.Balance, s.wallet.Leverage, s.callbackRate)
	if err != nil {
		return err
	}

	// вход: без него ничего дальше не имеет смысла
	entryID := helper.NewClientOrderID()
	if _, err := s.client.SubmitOrder(ctx, models.OrderSpec{
		Symbol:        symbol,
		Side:          ladder.Side,
		Type:          models.KindEntry,
		Quantity:      ladder.EntryQty,
		ClientOrderID: entryID,
	}); err != nil {
		return fmt.Errorf("entry: %w", err)
	}

	placed := []models.PlacedOrder{
		{ClientOrderID: entryID, Kind: models.KindEntry, Quantity: ladder.EntryQty},
	}

	var slOrderID int64
	var slClientID string
	partial := false

	// стоп на всю позицию
	slClientID = helper.NewClientOrderID()
	ack, err := s.client.SubmitOrder(ctx, models.OrderSpec{
		Symbol:        symbol,
		Side:          ladder.CloseSide,
		Type:          models.KindStopLoss,
		StopPrice:     ladder.StopPrice,
		ClosePosition: true,
		ClientOrderID: slClientID,
	})
	if err != nil {
		logger.Error("executeTrade %s: stop loss: %v", symbol, err)
		s.sendF(ctx, "⚠️ %s: позиция открыта, но стоп НЕ встал: %v", symbol, err)
		partial = true
		slClientID = ""
	} else {
		slOrderID = ack.OrderID
		placed = append(placed, models.PlacedOrder{
			ClientOrderID: slClientID, Kind: models.KindStopLoss, OrigPrice: ladder.StopPrice,
		})
	}

	// тейки в порядке сигнала; при первой осечке дальше не идём
	if !partial {
		for i, leg := range ladder.TakeProfits {
			clientID := helper.NewClientOrderID()
			if _, err := s.client.SubmitOrder(ctx, models.OrderSpec{
				Symbol:        symbol,
				Side:          ladder.CloseSide,
				Type:          models.KindTakeProfit,
				Price:         leg.Price,
				StopPrice:     leg.Price,
				Quantity:      leg.Quantity,
				TimeInForce:   "GTC",
				ClientOrderID: clientID,
			}); err != nil {
				logger.Error("executeTrade %s: take profit %d: %v", symbol, i+1, err)
				s.sendF(ctx, "⚠️ %s: цель %d не встала: %v", symbol, i+1, err)
				partial = true
				break
			}
			placed = append(placed, models.PlacedOrder{
				ClientOrderID: clientID, Kind: models.KindTakeProfit,
				OrigPrice: leg.Price, Quantity: leg.Quantity,
			})
		}
	}

	if !partial {
		clientID := helper.NewClientOrderID()
		if _, err := s.client.SubmitOrder(ctx, models.OrderSpec{
			Symbol:          symbol,
			Side:            ladder.CloseSide,
			Type:            models.KindTrailing,
			ActivationPrice: ladder.Trailing.ActivationPrice,
			CallbackRate:    ladder.Trailing.CallbackRate,
			Quantity:        ladder.Trailing.Quantity,
			ClientOrderID:   clientID,
		}); err != nil {
			logger.Error("executeTrade %s: trailing: %v", symbol, err)
			s.sendF(ctx, "⚠️ %s: трейлинг не встал: %v", symbol, err)
			partial = true
		} else {
			placed = append(placed, models.PlacedOrder{
				ClientOrderID: clientID, Kind: models.KindTrailing,
				OrigPrice: ladder.Trailing.ActivationPrice, Quantity: ladder.Trailing.Quantity,
			})
		}
	}

	// монитор ставим даже на частичную лесенку: позиция-то открыта
	s.spawnMonitor(symbol, ladder.CloseSide, sig, placed, slOrderID, slClientID)

	if partial {
		s.sendF(ctx, "🚧 %s %s: вход исполнен, лесенка встала частично (%d ордеров)",
			symbol, sig.Direction, len(placed))
	} else {
		s.sendF(ctx, "📈 %s %s: вход %.8g, стоп %.8g, целей %d + трейлинг",
			symbol, sig.Direction, ladder.EntryQty, ladder.StopPrice, len(ladder.TakeProfits))
	}
	return nil
}

// applyLeverage: если биржа не даёт запрошенное плечо на этой паре,
// берём максимум из первой ступени и пробуем ещё раз.
func (s *Session) applyLeverage(ctx context.Context, symbol string) error {
	err := s.client.SetLeverage(ctx, symbol, s.wallet.Leverage)
	if err == nil {
		return nil
	}
	if !binance.IsLeverageRejected(err) {
		return fmt.Errorf("leverage: %w", err)
	}

	brackets, berr := s.client.LeverageBrackets(ctx, symbol)
	if berr != nil || len(brackets) == 0 {
		return fmt.Errorf("leverage %d rejected, brackets: %v", s.wallet.Leverage, berr)
	}

	max := brackets[0].InitialLeverage
	logger.Warn("applyLeverage %s: %d rejected, retrying with %d", symbol, s.wallet.Leverage, max)
	if err := s.client.SetLeverage(ctx, symbol, max); err != nil {
		return fmt.Errorf("leverage retry %d: %w", max, err)
	}
	s.wallet.Leverage = max
	return nil
}

func (s *Session) spawnMonitor(
	symbol, closeSide string,
	sig *models.TradeSignal,
	placed []models.PlacedOrder,
	slOrderID int64,
	slClientID string,
) {
	if s.onMonitor != nil {
		s.onMonitor(+1)
	}
	done := s.onMonitor

	m := monitor.New(monitor.Params{
		Symbol:     symbol,
		CloseSide:  closeSide,
		Entry:      sig.Entry[0],
		Targets:    sig.Targets,
		Placed:     placed,
		SLOrderID:  slOrderID,
		SLClientID: slClientID,
		Exchange:   s.client,
		Notifier:   s.notifier,
	})
	// onDone через параметр не передать: нужен сам монитор для Unregister
	m.SetOnDone(func() {
		s.dispatcher.Unregister(symbol, m)
		if done != nil {
			done(-1)
		}
	})
	s.dispatcher.Register(m)
}
