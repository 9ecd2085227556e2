package executor

import (
	"context"

	"github.com/opentracing/opentracing-go"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/wallets"
	"signal_bot/pkg/logger"
)

// Router раскладывает один сигнал по всем кошелькам. Кошельки
// независимы: каждый исполняет в своей горутине, осечка одного
// не трогает остальных.
type Router struct {
	source  wallets.Source
	manager *Manager
}

func NewRouter(source wallets.Source, manager *Manager) *Router {
	return &Router{
		source:  source,
		manager: manager,
	}
}

func (r *Router) OnMessage(ctx context.Context, msg *models.ParsedMessage) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "executor.OnMessage")
	defer span.Finish()

	switch {
	case msg.Trade != nil:
		span.SetTag("pair", msg.Trade.Pair)
		span.SetTag("kind", "trade")
	case msg.Close != nil:
		span.SetTag("pair", msg.Close.Pair)
		span.SetTag("kind", "close")
	default:
		return
	}

	list, err := r.source.List(ctx)
	if err != nil {
		logger.Error("router: wallets: %v", err)
		return
	}
	if len(list) == 0 {
		logger.Warn("router: no wallets to execute on")
		return
	}

	for _, w := range list {
		s := r.manager.SessionFor(ctx, w)
		go s.Execute(ctx, msg)
	}
}
