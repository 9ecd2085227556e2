package executor

import (
	"errors"
	"fmt"

	"signal_bot/internal/models"
	"signal_bot/internal/quant"
)

var (
	ErrNoTargets    = errors.New("signal has no targets")
	ErrZeroQuantity = errors.New("entry quantity is zero after quantization")
	ErrLegTooSmall  = errors.New("per-target quantity is zero after quantization")
)

// BuildLadder считает всю лесенку одной позиции до единого похода на биржу.
//
// Объём входа: баланс * плечо / марк-цена, вниз до шага сетки.
// Каждая цель получает равную долю entryQty/n, тоже вниз. Последняя цель
// становится трейлинг-стопом и забирает весь остаток округления, поэтому
// сумма ног всегда точно равна объёму входа.
func BuildLadder(
	sig *models.TradeSignal,
	filters models.SymbolFilters,
	markPrice float64,
	balance float64,
	leverage int,
	callbackRate float64,
) (models.OrderLadder, error) {
	if len(sig.Targets) == 0 {
		return models.OrderLadder{}, ErrNoTargets
	}
	if markPrice <= 0 {
		return models.OrderLadder{}, fmt.Errorf("mark price %.8g <= 0", markPrice)
	}

	stepPrec, err := quant.PrecisionOf(filters.StepSize)
	if err != nil {
		return models.OrderLadder{}, err
	}
	tickPrec, err := quant.PrecisionOf(filters.TickSize)
	if err != nil {
		return models.OrderLadder{}, err
	}

	entryQty := quant.Floor(balance*float64(leverage)/markPrice, stepPrec)
	if entryQty <= 0 {
		return models.OrderLadder{}, ErrZeroQuantity
	}

	n := len(sig.Targets)
	legQty := quant.Floor(entryQty/float64(n), stepPrec)
	if legQty <= 0 {
		return models.OrderLadder{}, ErrLegTooSmall
	}

	ladder := models.OrderLadder{
		Symbol:    sig.Pair,
		Side:      sig.Side(),
		CloseSide: sig.CloseSide(),
		EntryQty:  entryQty,
		StopPrice: quant.Round(sig.StopLoss, tickPrec),
	}

	// первые n-1 целей — тейки, последняя — активация трейлинга
	for i := 0; i < n-1; i++ {
		ladder.TakeProfits = append(ladder.TakeProfits, models.TakeProfitLeg{
			Price:    quant.Round(sig.Targets[i], tickPrec),
			Quantity: legQty,
		})
	}

	// остаток округления уходит в трейлинг: Round, не Floor,
	// чтобы разница entryQty - (n-1)*legQty не потеряла шаг
	trailingQty := quant.Round(entryQty-float64(n-1)*legQty, stepPrec)
	ladder.Trailing = models.TrailingLeg{
		ActivationPrice: quant.Round(sig.Targets[n-1], tickPrec),
		Quantity:        trailingQty,
		CallbackRate:    callbackRate,
	}

	return ladder, nil
}
