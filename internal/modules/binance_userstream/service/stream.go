package service

import (
	"context"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

const (
	wsBaseMainnet = "wss://fstream.binance.com/ws/"
	wsBaseTestnet = "wss://stream.binancefuture.com/ws/"

	// listenKey живёт 60 минут, продлеваем заранее
	keepAliveEvery = 25 * time.Minute
)

// ListenKeyClient — кусок REST-клиента, который нужен стриму.
type ListenKeyClient interface {
	CreateListenKey(ctx context.Context) (string, error)
	KeepAliveListenKey(ctx context.Context) error
}

// Stream держит один user-data поток на кошелёк и отдаёт исполнения
// ордеров. Все пары кошелька идут через один канал.
type Stream struct {
	client   ListenKeyClient
	wsDialer *websocket.Dialer
	wsBase   string
}

func NewStream(client ListenKeyClient, testnet bool) *Stream {
	base := wsBaseMainnet
	if testnet {
		base = wsBaseTestnet
	}
	return &Stream{
		client:   client,
		wsDialer: &websocket.Dialer{},
		wsBase:   base,
	}
}

// Run подключается и шлёт уведомления в out до отмены ctx.
// Канал закрывается на выходе — потребитель по этому сворачивает мониторы.
func (s *Stream) Run(ctx context.Context, out chan<- models.FillNotification) {
	defer close(out)

	for {
		key, err := s.client.CreateListenKey(ctx)
		if err != nil {
			logger.Error("userstream: listenKey: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		log.Printf("[WS] user-data connect")
		conn, _, err := s.wsDialer.Dial(s.wsBase+key, nil)
		if err != nil {
			logger.Error("userstream: dial: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
				continue
			}
		}

		// продление ключа живёт ровно столько, сколько это соединение:
		// на переподключении горутину обязательно гасим
		connCtx, cancelConn := context.WithCancel(ctx)
		go s.keepAlive(connCtx)

		// основной read-loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] user-data read error: %v", err)
				_ = conn.Close()
				break
			}

			fill, ok := parseOrderUpdate(msg)
			if !ok {
				continue
			}

			select {
			case out <- fill:
			case <-ctx.Done():
				cancelConn()
				_ = conn.Close()
				return
			}
		}
		cancelConn()

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

// keepAlive продлевает listenKey, пока живо соединение, с которым
// его запустили. Выходит по отмене connCtx.
func (s *Stream) keepAlive(ctx context.Context) {
	t := time.NewTicker(keepAliveEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.client.KeepAliveListenKey(ctx); err != nil {
				logger.Warn("userstream: keepalive: %v", err)
			}
		}
	}
}

// orderTradeUpdate — кадр ORDER_TRADE_UPDATE user-data потока.
type orderTradeUpdate struct {
	Event string `json:"e"`
	Order struct {
		Symbol        string `json:"s"`
		ClientOrderID string `json:"c"`
		Side          string `json:"S"`
		Type          string `json:"o"`
		OrigType      string `json:"ot"`
		ExecutionType string `json:"x"`
		Status        string `json:"X"`
		OrderID       int64  `json:"i"`
	} `json:"o"`
}

func parseOrderUpdate(msg []byte) (models.FillNotification, bool) {
	var frame orderTradeUpdate
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return models.FillNotification{}, false
	}
	if frame.Event != "ORDER_TRADE_UPDATE" {
		return models.FillNotification{}, false
	}

	// ot хранит исходный тип: стоп после срабатывания приходит как MARKET
	kind := frame.Order.OrigType
	if kind == "" {
		kind = frame.Order.Type
	}

	return models.FillNotification{
		Symbol:        frame.Order.Symbol,
		OrderType:     models.OrderKind(kind),
		OrderID:       frame.Order.OrderID,
		ClientOrderID: frame.Order.ClientOrderID,
		Status:        frame.Order.Status,
		ExecutionType: frame.Order.ExecutionType,
	}, true
}
