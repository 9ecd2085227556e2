package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/monitor"
	binance "signal_bot/internal/modules/binance_client/service"
	userstream "signal_bot/internal/modules/binance_userstream/service"
	"signal_bot/internal/modules/config"
	healthsvc "signal_bot/internal/modules/health/service"
	"signal_bot/pkg/logger"
)

// Manager держит сессии по кошелькам. Сессия поднимается лениво при
// первом сигнале: клиент, user-data стрим и диспетчер на кошелёк.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session // ключ — api key кошелька

	cfg      *config.Config
	notifier Notifier
	health   *healthsvc.State
}

func NewManager(cfg *config.Config, health *healthsvc.State) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		health:   health,
	}
}

// SetNotifier цепляет телеграм после сборки: между ними цикл,
// бот тоже спрашивает менеджера про статус.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
	for _, s := range m.sessions {
		s.notifier = n
	}
}

// SessionFor отдаёт сессию кошелька, поднимая её при первом обращении.
// ctx — контекст приложения: на нём живут стрим и диспетчер.
func (m *Manager) SessionFor(ctx context.Context, wallet models.Wallet) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[wallet.APIKey]; ok {
		return s
	}

	client := binance.NewClient(wallet, m.cfg.Binance.Testnet)
	stream := userstream.NewStream(client, m.cfg.Binance.Testnet)

	hooks := monitor.Hooks{}
	if m.health != nil {
		hooks.OnFill = func() { m.health.TouchFill(time.Now()) }
	}
	dispatcher := monitor.NewDispatcher(hooks)

	fills := make(chan models.FillNotification, 64)
	go stream.Run(ctx, fills)
	go dispatcher.Run(ctx, fills)

	s := NewSession(SessionParams{
		Wallet:       wallet,
		Client:       client,
		Dispatcher:   dispatcher,
		Notifier:     m.notifier,
		CallbackRate: m.cfg.TrailingCallbackRate,
		OnMonitor: func(delta int) {
			if m.health != nil {
				m.health.AddMonitors(int64(delta))
			}
		},
	})
	m.sessions[wallet.APIKey] = s

	logger.Info("manager: session started for wallet %s", maskKey(wallet.APIKey))
	return s
}

// Status — сводка для команды /status в телеграме.
func (m *Manager) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) == 0 {
		return "Сессий нет, сигналов ещё не было"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Сессий: %d\n", len(m.sessions))
	for key, s := range m.sessions {
		fmt.Fprintf(&b, "• %s: активных позиций %d\n", maskKey(key), s.ActiveMonitors())
	}
	return b.String()
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
