package executor

import (
	"context"
	"sync"

	"signal_bot/internal/models"
	"signal_bot/internal/monitor"
	"signal_bot/pkg/logger"
)

// Notifier шлёт сообщения оператору. Может быть nil — тогда молчим.
type Notifier interface {
	SendF(ctx context.Context, format string, args ...any)
}

// Session — один кошелёк: его клиент, его диспетчер мониторов.
// Сигналы по кошельку исполняются по одному, mutex сериализует:
// два сигнала подряд не должны драться за баланс и плечо.
type Session struct {
	mu sync.Mutex

	wallet     models.Wallet
	client     ExchangeClient
	dispatcher *monitor.Dispatcher
	notifier   Notifier

	callbackRate float64
	onMonitor    func(delta int)
}

type SessionParams struct {
	Wallet       models.Wallet
	Client       ExchangeClient
	Dispatcher   *monitor.Dispatcher
	Notifier     Notifier
	CallbackRate float64
	OnMonitor    func(delta int)
}

func NewSession(p SessionParams) *Session {
	return &Session{
		wallet:       p.Wallet,
		client:       p.Client,
		dispatcher:   p.Dispatcher,
		notifier:     p.Notifier,
		callbackRate: p.CallbackRate,
		onMonitor:    p.OnMonitor,
	}
}

// Execute разбирает, что пришло: вход по сигналу или ручное закрытие.
func (s *Session) Execute(ctx context.Context, msg *models.ParsedMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case msg.Trade != nil:
		if err := s.executeTrade(ctx, msg.Trade); err != nil {
			logger.Error("session: trade %s: %v", msg.Trade.Pair, err)
			s.sendF(ctx, "❌ %s: вход не выполнен: %v", msg.Trade.Pair, err)
		}
	case msg.Close != nil:
		if err := s.flatten(ctx, msg.Close); err != nil {
			logger.Error("session: flatten %s: %v", msg.Close.Pair, err)
			s.sendF(ctx, "❌ %s: закрытие не выполнено: %v", msg.Close.Pair, err)
		}
	}
}

func (s *Session) ActiveMonitors() int {
	return s.dispatcher.Active()
}

func (s *Session) sendF(ctx context.Context, format string, args ...any) {
	if s.notifier != nil {
		s.notifier.SendF(ctx, format, args...)
	}
}
