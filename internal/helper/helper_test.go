package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"signal_bot/internal/models"
)

func TestOppositeSide(t *testing.T) {
	assert.Equal(t, models.SideSell, OppositeSide(models.SideBuy))
	assert.Equal(t, models.SideBuy, OppositeSide(models.SideSell))
}

func TestNewClientOrderID(t *testing.T) {
	id := NewClientOrderID()
	assert.True(t, strings.HasPrefix(id, "sb-"))
	// лимит биржи — 36 символов
	assert.Len(t, id, 27)
	assert.NotEqual(t, id, NewClientOrderID())
}
