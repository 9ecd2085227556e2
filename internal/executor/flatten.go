package executor

import (
	"context"
	"fmt"
	"math"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// flatten закрывает позицию руками: маркет на весь объём противоположной
// стороной, затем снимаем все ордера пары. Объём берём из живой позиции,
// сигнал его не несёт. Направление из сигнала — только подсказка,
// фактическую сторону задаёт знак positionAmt.
func (s *Session) flatten(ctx context.Context, cls *models.CloseSignal) error {
	symbol := cls.Pair

	positions, err := s.client.OpenPositions(ctx, symbol)
	if err != nil {
		return err
	}

	var pos *models.Position
	for i := range positions {
		if positions[i].Symbol == symbol && positions[i].PositionAmt != 0 {
			pos = &positions[i]
			break
		}
	}

	// позиции нет — закрывать нечего, на биржу больше не ходим
	if pos == nil {
		logger.Info("flatten %s: no open position, nothing to do", symbol)
		s.sendF(ctx, "ℹ️ %s: позиции нет, закрывать нечего", symbol)
		return nil
	}

	held := models.SideBuy // long
	if pos.PositionAmt < 0 {
		held = models.SideSell // short
	}
	side := helper.OppositeSide(held)

	if _, err := s.client.SubmitOrder(ctx, models.OrderSpec{
		Symbol:        symbol,
		Side:          side,
		Type:          models.KindEntry,
		Quantity:      math.Abs(pos.PositionAmt),
		ClientOrderID: helper.NewClientOrderID(),
	}); err != nil {
		return fmt.Errorf("close market: %w", err)
	}

	if err := s.client.CancelAllOpen(ctx, symbol); err != nil {
		logger.Warn("flatten %s: cancel all: %v", symbol, err)
	}

	s.sendF(ctx, "🏁 %s: позиция закрыта вручную, объём %.8g", symbol, math.Abs(pos.PositionAmt))
	return nil
}
