package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

// fakeExchange пишет все вызовы в журнал; ответы настраиваются.
type fakeExchange struct {
	submitted []models.OrderSpec
	cancelled []int64
	open      []models.OpenOrder

	submitErr error
	cancelErr error
	nextID    int64
}

func (f *fakeExchange) SubmitOrder(_ context.Context, spec models.OrderSpec) (models.OrderAck, error) {
	if f.submitErr != nil {
		return models.OrderAck{}, f.submitErr
	}
	f.submitted = append(f.submitted, spec)
	f.nextID++
	return models.OrderAck{OrderID: f.nextID, ClientOrderID: spec.ClientOrderID}, nil
}

func (f *fakeExchange) CancelOrder(_ context.Context, _ string, orderID int64) error {
	f.cancelled = append(f.cancelled, orderID)
	return f.cancelErr
}

func (f *fakeExchange) OpenOrders(_ context.Context, _ string) ([]models.OpenOrder, error) {
	return f.open, nil
}

func testMonitor(ex *fakeExchange, onDone func()) *Monitor {
	return New(Params{
		Symbol:    "BTCUSDT",
		CloseSide: models.SideSell,
		Entry:     27000,
		Targets:   []float64{27900, 28400, 29000},
		Placed: []models.PlacedOrder{
			{ClientOrderID: "sb-entry", Kind: models.KindEntry},
			{ClientOrderID: "sb-sl", Kind: models.KindStopLoss, OrigPrice: 26400},
			{ClientOrderID: "sb-tp1", Kind: models.KindTakeProfit, OrigPrice: 27900},
			{ClientOrderID: "sb-tp2", Kind: models.KindTakeProfit, OrigPrice: 28400},
			{ClientOrderID: "sb-trail", Kind: models.KindTrailing, OrigPrice: 29000},
		},
		SLOrderID:  100,
		SLClientID: "sb-sl",
		Exchange:   ex,
		OnDone:     onDone,
	})
}

func tpFill(clientID string) models.FillNotification {
	return models.FillNotification{
		Symbol:        "BTCUSDT",
		OrderType:     models.KindTakeProfit,
		ClientOrderID: clientID,
		Status:        "FILLED",
		ExecutionType: "TRADE",
	}
}

func TestFirstTargetMovesStopToBreakeven(t *testing.T) {
	ex := &fakeExchange{}
	m := testMonitor(ex, nil)

	m.OnFill(context.Background(), tpFill("sb-tp1"))

	// старый стоп снят, новый — на нижней границе входа
	require.Equal(t, []int64{100}, ex.cancelled)
	require.Len(t, ex.submitted, 1)
	spec := ex.submitted[0]
	assert.Equal(t, models.KindStopLoss, spec.Type)
	assert.Equal(t, 27000.0, spec.StopPrice)
	assert.Equal(t, models.SideSell, spec.Side)
	assert.True(t, spec.ClosePosition)
	assert.NotEqual(t, "sb-sl", spec.ClientOrderID)

	assert.Equal(t, StateAdvancing, m.State())
}

func TestSecondTargetMovesStopToFirst(t *testing.T) {
	ex := &fakeExchange{}
	m := testMonitor(ex, nil)

	m.OnFill(context.Background(), tpFill("sb-tp1"))
	m.OnFill(context.Background(), tpFill("sb-tp2"))

	require.Len(t, ex.submitted, 2)
	assert.Equal(t, 27000.0, ex.submitted[0].StopPrice)
	assert.Equal(t, 27900.0, ex.submitted[1].StopPrice)

	// вторая перестановка снимает стоп, поставленный первой
	require.Len(t, ex.cancelled, 2)
	assert.Equal(t, int64(100), ex.cancelled[0])
	assert.Equal(t, int64(1), ex.cancelled[1])
}

func TestStaleTargetDoesNotRollBackStop(t *testing.T) {
	ex := &fakeExchange{}
	m := testMonitor(ex, nil)

	// уведомления пришли не по порядку: сперва вторая цель, потом первая
	m.OnFill(context.Background(), tpFill("sb-tp2"))
	require.Len(t, ex.submitted, 1)
	assert.Equal(t, 27900.0, ex.submitted[0].StopPrice)

	m.OnFill(context.Background(), tpFill("sb-tp1"))
	// опоздавшая цель ничего не делает
	assert.Len(t, ex.submitted, 1)
	assert.Len(t, ex.cancelled, 1)
	assert.Equal(t, StateAdvancing, m.State())
}

func TestStopFillTearsDown(t *testing.T) {
	ex := &fakeExchange{
		open: []models.OpenOrder{
			{OrderID: 201, Symbol: "BTCUSDT"},
			{OrderID: 202, Symbol: "BTCUSDT"},
		},
	}
	done := 0
	m := testMonitor(ex, func() { done++ })

	m.OnFill(context.Background(), models.FillNotification{
		Symbol:        "BTCUSDT",
		OrderType:     models.KindStopLoss,
		ClientOrderID: "sb-sl",
		Status:        "FILLED",
		ExecutionType: "TRADE",
	})

	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, []int64{201, 202}, ex.cancelled)
	assert.Equal(t, 1, done)

	// после закрытия всё игнорируется, onDone не дёргается повторно
	m.OnFill(context.Background(), tpFill("sb-tp1"))
	assert.Empty(t, ex.submitted)
	assert.Equal(t, 1, done)
}

func TestTrailingFillTearsDown(t *testing.T) {
	ex := &fakeExchange{}
	done := 0
	m := testMonitor(ex, func() { done++ })

	m.OnFill(context.Background(), models.FillNotification{
		Symbol:        "BTCUSDT",
		OrderType:     models.KindTrailing,
		ClientOrderID: "sb-trail",
		Status:        "FILLED",
		ExecutionType: "TRADE",
	})

	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, 1, done)
}

// Терминальный ордер закрывает позицию даже после целей.
func TestStopWinsAfterRatchet(t *testing.T) {
	ex := &fakeExchange{}
	m := testMonitor(ex, nil)

	m.OnFill(context.Background(), tpFill("sb-tp1"))
	m.OnFill(context.Background(), models.FillNotification{
		Symbol:        "BTCUSDT",
		OrderType:     models.KindStopLoss,
		ClientOrderID: ex.submitted[0].ClientOrderID,
		Status:        "FILLED",
		ExecutionType: "TRADE",
	})

	assert.Equal(t, StateClosed, m.State())
}

func TestIgnoresForeignAndPartialFills(t *testing.T) {
	ex := &fakeExchange{}
	m := testMonitor(ex, nil)

	// чужая пара
	other := tpFill("sb-tp1")
	other.Symbol = "ETHUSDT"
	m.OnFill(context.Background(), other)

	// не-исполнение: NEW
	created := tpFill("sb-tp1")
	created.Status = "NEW"
	created.ExecutionType = "NEW"
	m.OnFill(context.Background(), created)

	// частичное исполнение
	partial := tpFill("sb-tp1")
	partial.Status = "PARTIALLY_FILLED"
	m.OnFill(context.Background(), partial)

	// неизвестный clientOrderId
	m.OnFill(context.Background(), tpFill("sb-unknown"))

	assert.Empty(t, ex.submitted)
	assert.Empty(t, ex.cancelled)
	assert.Equal(t, StateArmed, m.State())
}

// Гонка со снятием стопа: ордер уже исполнился — замену всё равно ставим.
func TestBenignCancelFailureStillReplacesStop(t *testing.T) {
	ex := &fakeExchange{cancelErr: errors.New("http 400: order does not exist")}
	m := testMonitor(ex, nil)

	m.OnFill(context.Background(), tpFill("sb-tp1"))

	require.Len(t, ex.submitted, 1)
	assert.Equal(t, 27000.0, ex.submitted[0].StopPrice)
	assert.Equal(t, StateAdvancing, m.State())
}

func TestReplaceStopFailureKeepsRatchetIndex(t *testing.T) {
	ex := &fakeExchange{submitErr: fmt.Errorf("http 500")}
	m := testMonitor(ex, nil)

	m.OnFill(context.Background(), tpFill("sb-tp1"))
	assert.Empty(t, ex.submitted)
	// состояние не продвинулось, но индекс уже занят:
	// та же цель второй раз перестановку не повторит
	m.OnFill(context.Background(), tpFill("sb-tp1"))
	assert.Empty(t, ex.submitted)
}

func TestAbandonStopsProcessing(t *testing.T) {
	ex := &fakeExchange{}
	done := 0
	m := testMonitor(ex, func() { done++ })

	m.Abandon()
	assert.Equal(t, StateAbandoned, m.State())
	assert.Equal(t, 1, done)

	m.OnFill(context.Background(), tpFill("sb-tp1"))
	assert.Empty(t, ex.submitted)
	assert.Empty(t, ex.cancelled)
}
