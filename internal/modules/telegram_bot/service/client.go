package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/parser"
	"signal_bot/pkg/logger"
)

// StatusSource — сводка для команды /status.
type StatusSource interface {
	Status() string
}

// Telegram слушает канал с сигналами и шлёт уведомления оператору.
type Telegram struct {
	bot *tgbot.BotAPI
	cfg *config.Config

	signals chan<- *models.ParsedMessage
	status  StatusSource

	cancel context.CancelFunc
}

func NewTelegram(cfg *config.Config, signals chan *models.ParsedMessage) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:     b,
		cfg:     cfg,
		signals: signals,
	}, nil
}

// SetStatusSource цепляет менеджера после сборки графа.
func (t *Telegram) SetStatusSource(s StatusSource) { t.status = s }

// Send шлёт в операторский чат. ChatID == 0 — уведомления выключены.
func (t *Telegram) Send(ctx context.Context, msg string) {
	if t.cfg.Telegram.ChatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.cfg.Telegram.ChatID, msg)); err != nil {
		logger.Warn("telegram: send: %v", err)
	}
}

func (t *Telegram) SendF(ctx context.Context, format string, args ...any) {
	t.Send(ctx, fmt.Sprintf(format, args...))
}

// Start запускает цикл long polling.
func (t *Telegram) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		logger.Info("telegram: listening channel %d", t.cfg.Telegram.ChannelID)
		for {
			select {
			case <-runCtx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(runCtx, upd)
			}
		}
	}()
}

func (t *Telegram) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.bot.StopReceivingUpdates()
}

func (t *Telegram) handleUpdate(ctx context.Context, upd tgbot.Update) {
	// посты из сигнального канала
	if post := upd.ChannelPost; post != nil {
		if post.Chat == nil || post.Chat.ID != t.cfg.Telegram.ChannelID {
			return
		}
		t.handlePost(ctx, post.Text)
		return
	}

	// команды оператора в личке/чате
	if msg := upd.Message; msg != nil && msg.IsCommand() {
		t.handleCommand(ctx, msg)
	}
}

func (t *Telegram) handlePost(ctx context.Context, text string) {
	parsed := parser.Parse(text)
	if parsed == nil {
		return
	}

	select {
	case t.signals <- parsed:
	default:
		// очередь забита — сигнал устареет быстрее, чем дойдёт до биржи
		logger.Error("telegram: signal queue full, dropping")
		t.SendF(ctx, "⚠️ Очередь сигналов переполнена, сигнал пропущен")
	}
}

func (t *Telegram) handleCommand(ctx context.Context, msg *tgbot.Message) {
	switch msg.Command() {
	case "status":
		text := "Статус недоступен"
		if t.status != nil {
			text = t.status.Status()
		}
		if _, err := t.bot.Send(tgbot.NewMessage(msg.Chat.ID, text)); err != nil {
			logger.Warn("telegram: status reply: %v", err)
		}
	case "ping":
		if _, err := t.bot.Send(tgbot.NewMessage(msg.Chat.ID, "pong 🏓")); err != nil {
			logger.Warn("telegram: ping reply: %v", err)
		}
	}
}
