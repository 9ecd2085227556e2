package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal_bot/internal/models"
)

const tpFilledFrame = `{
  "e": "ORDER_TRADE_UPDATE",
  "E": 1699999999000,
  "o": {
    "s": "BTCUSDT",
    "c": "sb-a1b2c3d4e5f60718293a4b5c",
    "S": "SELL",
    "o": "LIMIT",
    "ot": "TAKE_PROFIT",
    "x": "TRADE",
    "X": "FILLED",
    "i": 8886774
  }
}`

func TestParseOrderUpdateFilledTakeProfit(t *testing.T) {
	fill, ok := parseOrderUpdate([]byte(tpFilledFrame))
	require.True(t, ok)

	assert.Equal(t, "BTCUSDT", fill.Symbol)
	// после триггера тип в o меняется, исходный остаётся в ot
	assert.Equal(t, models.KindTakeProfit, fill.OrderType)
	assert.Equal(t, "sb-a1b2c3d4e5f60718293a4b5c", fill.ClientOrderID)
	assert.Equal(t, int64(8886774), fill.OrderID)
	assert.True(t, fill.Filled())
}

func TestParseOrderUpdateNewOrderNotFilled(t *testing.T) {
	frame := `{"e":"ORDER_TRADE_UPDATE","o":{"s":"BTCUSDT","c":"sb-x","o":"STOP_MARKET","ot":"STOP_MARKET","x":"NEW","X":"NEW","i":1}}`
	fill, ok := parseOrderUpdate([]byte(frame))
	require.True(t, ok)
	assert.Equal(t, models.KindStopLoss, fill.OrderType)
	assert.False(t, fill.Filled())
}

func TestParseOrderUpdateFallsBackToType(t *testing.T) {
	frame := `{"e":"ORDER_TRADE_UPDATE","o":{"s":"BTCUSDT","c":"sb-x","o":"TRAILING_STOP_MARKET","x":"TRADE","X":"FILLED","i":2}}`
	fill, ok := parseOrderUpdate([]byte(frame))
	require.True(t, ok)
	assert.Equal(t, models.KindTrailing, fill.OrderType)
}

type fakeListenKeyClient struct {
	created atomic.Int32
}

func (f *fakeListenKeyClient) CreateListenKey(context.Context) (string, error) {
	f.created.Add(1)
	return "test-key", nil
}

func (f *fakeListenKeyClient) KeepAliveListenKey(context.Context) error { return nil }

// Сервер рвёт каждое соединение сразу после рукопожатия: клиент крутит
// циклы переподключения. Горутина продления ключа обязана гаснуть вместе
// со своим соединением, иначе каждый цикл оставляет по висящей горутине.
func TestRunReconnectDoesNotLeakKeepalive(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = c.Close()
	}))
	defer srv.Close()

	client := &fakeListenKeyClient{}
	s := NewStream(client, false)
	s.wsBase = "ws" + strings.TrimPrefix(srv.URL, "http") + "/"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan models.FillNotification, 1)

	before := runtime.NumGoroutine()
	go s.Run(ctx, out)

	// несколько полных циклов переподключения
	time.Sleep(4200 * time.Millisecond)
	during := runtime.NumGoroutine()
	cycles := int(client.created.Load())

	cancel()
	for range out {
	}

	require.GreaterOrEqual(t, cycles, 3, "reconnect cycles did not happen")
	// живут только сам Run и продление ключа текущего соединения,
	// по горутине на каждый прошедший цикл оставаться не должно
	assert.LessOrEqual(t, during, before+4,
		"goroutines before=%d during=%d cycles=%d", before, during, cycles)
}

func TestParseOrderUpdateIgnoresOtherEvents(t *testing.T) {
	for _, frame := range []string{
		`{"e":"ACCOUNT_UPDATE","a":{}}`,
		`{"e":"MARGIN_CALL"}`,
		`{"e":"listenKeyExpired"}`,
		`not json`,
		``,
	} {
		_, ok := parseOrderUpdate([]byte(frame))
		assert.False(t, ok, frame)
	}
}
