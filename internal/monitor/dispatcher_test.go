package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

func TestDispatcherRoutesBySymbol(t *testing.T) {
	exBTC := &fakeExchange{}
	exETH := &fakeExchange{}

	d := NewDispatcher(Hooks{})

	btc := testMonitor(exBTC, nil)
	eth := New(Params{
		Symbol:    "ETHUSDT",
		CloseSide: models.SideBuy,
		Entry:     1850,
		Targets:   []float64{1790, 1740},
		Placed: []models.PlacedOrder{
			{ClientOrderID: "sb-eth-tp1", Kind: models.KindTakeProfit, OrigPrice: 1790},
		},
		SLOrderID: 300,
		Exchange:  exETH,
	})
	d.Register(btc)
	d.Register(eth)
	assert.Equal(t, 2, d.Active())

	fills := make(chan models.FillNotification, 4)
	fills <- tpFill("sb-tp1") // BTCUSDT
	fills <- models.FillNotification{
		Symbol:        "ETHUSDT",
		OrderType:     models.KindTakeProfit,
		ClientOrderID: "sb-eth-tp1",
		Status:        "FILLED",
		ExecutionType: "TRADE",
	}
	fills <- models.FillNotification{ // никому: монитора на пару нет
		Symbol:        "SOLUSDT",
		OrderType:     models.KindTakeProfit,
		ClientOrderID: "sb-sol",
		Status:        "FILLED",
		ExecutionType: "TRADE",
	}
	close(fills)

	d.Run(context.Background(), fills)

	require.Len(t, exBTC.submitted, 1)
	assert.Equal(t, 27000.0, exBTC.submitted[0].StopPrice)
	require.Len(t, exETH.submitted, 1)
	assert.Equal(t, 1850.0, exETH.submitted[0].StopPrice)
}

// Поток закрылся — вести позиции больше нечем, мониторы бросаем.
func TestDispatcherAbandonsOnStreamClose(t *testing.T) {
	d := NewDispatcher(Hooks{})
	m := testMonitor(&fakeExchange{}, nil)
	d.Register(m)

	fills := make(chan models.FillNotification)
	close(fills)
	d.Run(context.Background(), fills)

	assert.Equal(t, StateAbandoned, m.State())
}

func TestDispatcherReplacesDuplicateSymbol(t *testing.T) {
	d := NewDispatcher(Hooks{})

	old := testMonitor(&fakeExchange{}, nil)
	old.SetOnDone(func() { d.Unregister(old.Symbol(), old) })
	d.Register(old)

	fresh := testMonitor(&fakeExchange{}, nil)
	d.Register(fresh)

	assert.Equal(t, StateAbandoned, old.State())
	assert.Equal(t, 1, d.Active())
	assert.Same(t, fresh, d.lookup("BTCUSDT"))
}

func TestDispatcherUnregisterOnlyRemovesOwner(t *testing.T) {
	d := NewDispatcher(Hooks{})
	a := testMonitor(&fakeExchange{}, nil)
	b := testMonitor(&fakeExchange{}, nil)

	d.Register(a)
	d.Register(b) // замещает a

	// опоздавший unregister от a не должен снять b
	d.Unregister("BTCUSDT", a)
	assert.Same(t, b, d.lookup("BTCUSDT"))
}

func TestDispatcherHooksOnFill(t *testing.T) {
	count := 0
	d := NewDispatcher(Hooks{OnFill: func() { count++ }})

	fills := make(chan models.FillNotification, 2)
	fills <- tpFill("sb-tp1")
	fills <- tpFill("sb-tp2")
	close(fills)

	d.Run(context.Background(), fills)
	assert.Equal(t, 2, count)
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	d := NewDispatcher(Hooks{})
	m := testMonitor(&fakeExchange{}, nil)
	d.Register(m)

	ctx, cancel := context.WithCancel(context.Background())
	fills := make(chan models.FillNotification)

	doneCh := make(chan struct{})
	go func() {
		d.Run(ctx, fills)
		close(doneCh)
	}()

	cancel()
	select {
	case <-doneCh:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on cancel")
	}
	assert.Equal(t, StateAbandoned, m.State())
}
