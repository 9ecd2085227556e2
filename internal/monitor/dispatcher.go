package monitor

import (
	"context"
	"sync"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Hooks — необязательные колбэки для health-статуса.
type Hooks struct {
	OnFill func()
}

// Dispatcher раздаёт исполнения мониторам по паре. Один диспетчер на
// кошелёк, Run читает канал стрима в одной горутине — обработка
// исполнений строго последовательная.
type Dispatcher struct {
	mu       sync.Mutex
	monitors map[string]*Monitor
	hooks    Hooks
}

func NewDispatcher(hooks Hooks) *Dispatcher {
	return &Dispatcher{
		monitors: make(map[string]*Monitor),
		hooks:    hooks,
	}
}

// Register ставит монитор на пару. Старый монитор той же пары
// бросаем: его лесенку уже заместили новые ордера.
func (d *Dispatcher) Register(m *Monitor) {
	d.mu.Lock()
	old := d.monitors[m.Symbol()]
	d.monitors[m.Symbol()] = m
	d.mu.Unlock()

	if old != nil {
		logger.Warn("dispatcher: %s already monitored, abandoning old", m.Symbol())
		old.Abandon()
	}
}

func (d *Dispatcher) Unregister(symbol string, m *Monitor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.monitors[symbol] == m {
		delete(d.monitors, symbol)
	}
}

func (d *Dispatcher) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.monitors)
}

func (d *Dispatcher) lookup(symbol string) *Monitor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.monitors[symbol]
}

// Run гоняет исполнения до закрытия канала или отмены ctx.
// Канал закрывается при падении стрима — мониторы бросаем,
// без уведомлений вести позицию нельзя.
func (d *Dispatcher) Run(ctx context.Context, fills <-chan models.FillNotification) {
	for {
		select {
		case <-ctx.Done():
			d.abandonAll()
			return
		case fill, ok := <-fills:
			if !ok {
				logger.Error("dispatcher: fill stream closed")
				d.abandonAll()
				return
			}

			if d.hooks.OnFill != nil {
				d.hooks.OnFill()
			}

			m := d.lookup(fill.Symbol)
			if m == nil {
				continue
			}
			m.OnFill(ctx, fill)
		}
	}
}

func (d *Dispatcher) abandonAll() {
	d.mu.Lock()
	all := make([]*Monitor, 0, len(d.monitors))
	for _, m := range d.monitors {
		all = append(all, m)
	}
	d.mu.Unlock()

	for _, m := range all {
		m.Abandon()
	}
}
