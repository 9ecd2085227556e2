package helper

import (
	"strings"

	"github.com/google/uuid"

	"signal_bot/internal/models"
)

const clientOrderIDPrefix = "sb-"

// NewClientOrderID — свой идентификатор для каждого ордера лестницы.
// По нему монитор потом сопоставляет уведомление об исполнении с ногой,
// цены для этого не годятся (биржа их переформатирует).
func NewClientOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	// у биржи лимит 36 символов на clientOrderId
	return clientOrderIDPrefix + raw[:24]
}

func OppositeSide(side string) string {
	if side == models.SideBuy {
		return models.SideSell
	}
	return models.SideBuy
}
