package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

func btcFilters() models.SymbolFilters {
	return models.SymbolFilters{
		Symbol:   "BTCUSDT",
		StepSize: "0.00100000",
		TickSize: "0.10",
	}
}

func TestBuildLadderLong(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "BTCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{27000, 27200},
		Targets:   []float64{27900, 28400, 29000},
		StopLoss:  26400,
	}

	// 100 USDT * 10x / 27100 = 0.0369... -> 0.036
	ladder, err := BuildLadder(sig, btcFilters(), 27100, 100, 10, 0.2)
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", ladder.Symbol)
	assert.Equal(t, models.SideBuy, ladder.Side)
	assert.Equal(t, models.SideSell, ladder.CloseSide)
	assert.Equal(t, 0.036, ladder.EntryQty)
	assert.Equal(t, 26400.0, ladder.StopPrice)

	// 3 цели: 2 тейка + трейлинг на последней
	require.Len(t, ladder.TakeProfits, 2)
	assert.Equal(t, 27900.0, ladder.TakeProfits[0].Price)
	assert.Equal(t, 28400.0, ladder.TakeProfits[1].Price)
	assert.Equal(t, 0.012, ladder.TakeProfits[0].Quantity)
	assert.Equal(t, 0.012, ladder.TakeProfits[1].Quantity)

	assert.Equal(t, 29000.0, ladder.Trailing.ActivationPrice)
	assert.Equal(t, 0.012, ladder.Trailing.Quantity)
	assert.Equal(t, 0.2, ladder.Trailing.CallbackRate)
}

// Остаток округления всегда уезжает в трейлинг: сумма ног равна входу.
func TestBuildLadderRemainderGoesToTrailing(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "BTCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{27000, 27200},
		Targets:   []float64{27900, 28400, 29000},
		StopLoss:  26400,
	}

	// 271 USDT * 10x / 27100 = 0.1 -> entryQty 0.100, по целям 0.033
	ladder, err := BuildLadder(sig, btcFilters(), 27100, 271, 10, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 0.1, ladder.EntryQty)
	require.Len(t, ladder.TakeProfits, 2)
	assert.Equal(t, 0.033, ladder.TakeProfits[0].Quantity)
	assert.Equal(t, 0.033, ladder.TakeProfits[1].Quantity)
	// 0.100 - 2*0.033 = 0.034
	assert.Equal(t, 0.034, ladder.Trailing.Quantity)

	sum := ladder.Trailing.Quantity
	for _, leg := range ladder.TakeProfits {
		sum += leg.Quantity
	}
	assert.InDelta(t, ladder.EntryQty, sum, 1e-12)
}

// Сквозной пример: вход на 100 USDT при марке 101 даёт 0.990,
// две цели по трети и трейлинг с остатком.
func TestBuildLadderWorkedExample(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "ABCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{100, 102},
		Targets:   []float64{110, 120, 130},
		StopLoss:  95,
	}
	filters := models.SymbolFilters{Symbol: "ABCUSDT", StepSize: "0.001", TickSize: "0.01"}

	ladder, err := BuildLadder(sig, filters, 101, 10, 10, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 0.99, ladder.EntryQty)
	require.Len(t, ladder.TakeProfits, 2)
	assert.Equal(t, 110.0, ladder.TakeProfits[0].Price)
	assert.Equal(t, 120.0, ladder.TakeProfits[1].Price)
	assert.Equal(t, 0.33, ladder.TakeProfits[0].Quantity)
	assert.Equal(t, 0.33, ladder.TakeProfits[1].Quantity)
	assert.Equal(t, 130.0, ladder.Trailing.ActivationPrice)
	assert.Equal(t, 0.33, ladder.Trailing.Quantity)
}

func TestBuildLadderShort(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "ETHUSDT",
		Direction: models.DirectionShort,
		Entry:     [2]float64{1850, 1870},
		Targets:   []float64{1790, 1740},
		StopLoss:  1925,
	}
	filters := models.SymbolFilters{Symbol: "ETHUSDT", StepSize: "0.001", TickSize: "0.01"}

	ladder, err := BuildLadder(sig, filters, 1860, 200, 5, 0.2)
	require.NoError(t, err)

	assert.Equal(t, models.SideSell, ladder.Side)
	assert.Equal(t, models.SideBuy, ladder.CloseSide)
	// 200*5/1860 = 0.5376... -> 0.537
	assert.Equal(t, 0.537, ladder.EntryQty)
	require.Len(t, ladder.TakeProfits, 1)
	assert.Equal(t, 1790.0, ladder.TakeProfits[0].Price)
	assert.Equal(t, 1740.0, ladder.Trailing.ActivationPrice)
}

func TestBuildLadderSingleTargetAllTrailing(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "BTCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{27000, 27200},
		Targets:   []float64{27900},
		StopLoss:  26400,
	}

	ladder, err := BuildLadder(sig, btcFilters(), 27100, 100, 10, 0.2)
	require.NoError(t, err)

	assert.Empty(t, ladder.TakeProfits)
	assert.Equal(t, ladder.EntryQty, ladder.Trailing.Quantity)
	assert.Equal(t, 27900.0, ladder.Trailing.ActivationPrice)
}

func TestBuildLadderPricesSnapToTick(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "BTCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{27000, 27200},
		Targets:   []float64{27900.123, 28400.456},
		StopLoss:  26400.789,
	}

	ladder, err := BuildLadder(sig, btcFilters(), 27100, 100, 10, 0.2)
	require.NoError(t, err)

	assert.Equal(t, 26400.8, ladder.StopPrice)
	assert.Equal(t, 27900.1, ladder.TakeProfits[0].Price)
	assert.Equal(t, 28400.5, ladder.Trailing.ActivationPrice)
}

func TestBuildLadderErrors(t *testing.T) {
	sig := &models.TradeSignal{
		Pair:      "BTCUSDT",
		Direction: models.DirectionLong,
		Entry:     [2]float64{27000, 27200},
		Targets:   []float64{27900},
		StopLoss:  26400,
	}

	// без целей
	empty := *sig
	empty.Targets = nil
	_, err := BuildLadder(&empty, btcFilters(), 27100, 100, 10, 0.2)
	assert.ErrorIs(t, err, ErrNoTargets)

	// баланса не хватает даже на один шаг сетки
	_, err = BuildLadder(sig, btcFilters(), 27100, 0.5, 1, 0.2)
	assert.ErrorIs(t, err, ErrZeroQuantity)

	// объём есть, но на каждую из целей не хватает шага
	many := *sig
	many.Targets = []float64{27900, 28000, 28100, 28200}
	_, err = BuildLadder(&many, btcFilters(), 27100, 8, 10, 0.2)
	assert.ErrorIs(t, err, ErrLegTooSmall)

	// битый фильтр
	bad := btcFilters()
	bad.StepSize = "0"
	_, err = BuildLadder(sig, bad, 27100, 100, 10, 0.2)
	assert.Error(t, err)
}
