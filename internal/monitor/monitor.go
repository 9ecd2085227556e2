package monitor

import (
	"context"
	"sync/atomic"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// State — жизненный цикл позиции.
type State int32

const (
	StateArmed State = iota
	StateAdvancing
	StateClosed
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateAdvancing:
		return "advancing"
	case StateClosed:
		return "closed"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Exchange — что монитору нужно от биржи.
type Exchange interface {
	SubmitOrder(ctx context.Context, spec models.OrderSpec) (models.OrderAck, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error)
}

// Notifier шлёт оператору события позиции. Может быть nil.
type Notifier interface {
	SendF(ctx context.Context, format string, args ...any)
}

// Monitor ведёт одну позицию: по исполнениям целей подтягивает стоп,
// по стопу или трейлингу сворачивает остатки лестницы.
//
// Все вызовы OnFill идут из одной горутины диспетчера, внутренней
// блокировки не нужно. state атомарный только ради чтения снаружи.
type Monitor struct {
	symbol    string
	closeSide string
	entry     float64   // нижняя граница входа, сюда уводим стоп после первой цели
	targets   []float64 // цели по порядку сигнала
	placed    []models.PlacedOrder

	slOrderID     int64
	slClientID    string
	bestRatchet   int // индекс лучшей исполненной цели, -1 до первой
	state         atomic.Int32
	exchange      Exchange
	notifier      Notifier
	onDone        func() // снимает монитор с диспетчера
	callbackStops bool
}

type Params struct {
	Symbol     string
	CloseSide  string
	Entry      float64
	Targets    []float64
	Placed     []models.PlacedOrder
	SLOrderID  int64
	SLClientID string
	Exchange   Exchange
	Notifier   Notifier
	OnDone     func()
}

func New(p Params) *Monitor {
	m := &Monitor{
		symbol:      p.Symbol,
		closeSide:   p.CloseSide,
		entry:       p.Entry,
		targets:     p.Targets,
		placed:      p.Placed,
		slOrderID:   p.SLOrderID,
		slClientID:  p.SLClientID,
		bestRatchet: -1,
		exchange:    p.Exchange,
		notifier:    p.Notifier,
		onDone:      p.OnDone,
	}
	m.state.Store(int32(StateArmed))
	return m
}

// SetOnDone задаёт колбэк снятия с учёта. Зовётся до Register,
// пока монитор не виден диспетчеру.
func (m *Monitor) SetOnDone(fn func()) { m.onDone = fn }

func (m *Monitor) Symbol() string { return m.symbol }

func (m *Monitor) State() State { return State(m.state.Load()) }

// OnFill обрабатывает одно исполнение. Порядок разбора важен:
// терминальные ордера (стоп, трейлинг) закрывают позицию всегда,
// даже если уведомления о целях пришли с опозданием.
func (m *Monitor) OnFill(ctx context.Context, fill models.FillNotification) {
	if m.State() == StateClosed || m.State() == StateAbandoned {
		return
	}
	if fill.Symbol != m.symbol || !fill.Filled() {
		return
	}

	switch fill.OrderType {
	case models.KindStopLoss, models.KindTrailing:
		m.teardown(ctx, fill)
	case models.KindTakeProfit:
		m.ratchet(ctx, fill)
	}
}

// teardown: позиция закрыта биржей, снимаем остатки лестницы.
func (m *Monitor) teardown(ctx context.Context, fill models.FillNotification) {
	open, err := m.exchange.OpenOrders(ctx, m.symbol)
	if err != nil {
		logger.Error("monitor %s: open orders on teardown: %v", m.symbol, err)
	}
	for _, o := range open {
		// ордер мог исполниться или сняться сам — это не ошибка
		if err := m.exchange.CancelOrder(ctx, m.symbol, o.OrderID); err != nil {
			logger.Warn("monitor %s: cancel %d: %v", m.symbol, o.OrderID, err)
		}
	}

	m.state.Store(int32(StateClosed))
	if m.notifier != nil {
		m.notifier.SendF(ctx, "🏁 %s: позиция закрыта (%s), лесенка снята", m.symbol, fill.OrderType)
	}
	if m.onDone != nil {
		m.onDone()
		m.onDone = nil
	}
}

// ratchet: цель i исполнилась — стоп уезжает на цель i-1,
// после первой цели — на вход (безубыток).
func (m *Monitor) ratchet(ctx context.Context, fill models.FillNotification) {
	idx := m.targetIndex(fill.ClientOrderID)
	if idx < 0 {
		logger.Warn("monitor %s: unknown take profit %s", m.symbol, fill.ClientOrderID)
		return
	}

	// опоздавшая цель ниже уже достигнутой — стоп не откатываем
	if idx <= m.bestRatchet {
		return
	}
	m.bestRatchet = idx

	newStop := m.entry
	if idx > 0 {
		newStop = m.targets[idx-1]
	}

	// сначала снимаем старый стоп: гонка с его исполнением — штатный случай
	if m.slOrderID != 0 {
		if err := m.exchange.CancelOrder(ctx, m.symbol, m.slOrderID); err != nil {
			logger.Warn("monitor %s: cancel stop %d: %v", m.symbol, m.slOrderID, err)
		}
	}

	clientID := helper.NewClientOrderID()
	ack, err := m.exchange.SubmitOrder(ctx, models.OrderSpec{
		Symbol:        m.symbol,
		Side:          m.closeSide,
		Type:          models.KindStopLoss,
		StopPrice:     newStop,
		ClosePosition: true,
		ClientOrderID: clientID,
	})
	if err != nil {
		logger.Error("monitor %s: replace stop: %v", m.symbol, err)
		if m.notifier != nil {
			m.notifier.SendF(ctx, "⚠️ %s: не смог переставить стоп на %.8g: %v", m.symbol, newStop, err)
		}
		return
	}

	m.slOrderID = ack.OrderID
	m.slClientID = ack.ClientOrderID
	m.state.Store(int32(StateAdvancing))

	if m.notifier != nil {
		if idx == 0 {
			m.notifier.SendF(ctx, "✅ %s: цель 1 взята, стоп в безубыток %.8g", m.symbol, newStop)
		} else {
			m.notifier.SendF(ctx, "✅ %s: цель %d взята, стоп на %.8g", m.symbol, idx+1, newStop)
		}
	}
}

// targetIndex находит номер цели по clientOrderId выставленного ордера.
// Цены для сопоставления не годятся: биржа их округляет.
func (m *Monitor) targetIndex(clientOrderID string) int {
	i := 0
	for _, p := range m.placed {
		if p.Kind != models.KindTakeProfit {
			continue
		}
		if p.ClientOrderID == clientOrderID {
			return i
		}
		i++
	}
	return -1
}

// Abandon останавливает ведение без снятия ордеров —
// например, при замещении дубликатом по той же паре.
func (m *Monitor) Abandon() {
	m.state.Store(int32(StateAbandoned))
	if m.onDone != nil {
		m.onDone()
		m.onDone = nil
	}
}
