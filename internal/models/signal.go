package models

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeSignal — разобранный сигнал из канала. После парсинга не меняется.
type TradeSignal struct {
	Pair      string
	Direction Direction
	Entry     [2]float64 // [низ, верх] диапазона входа
	Targets   []float64  // цели в порядке сигнала
	StopLoss  float64
}

// Side — сторона входного ордера.
func (s TradeSignal) Side() string {
	if s.Direction == DirectionLong {
		return SideBuy
	}
	return SideSell
}

// CloseSide — сторона закрывающих ордеров (SL/TP/трейлинг).
func (s TradeSignal) CloseSide() string {
	if s.Direction == DirectionLong {
		return SideSell
	}
	return SideBuy
}

// CloseSignal — ручное закрытие позиции. Размер не несёт:
// фактический объём берём из живой позиции на бирже.
type CloseSignal struct {
	Pair      string
	Direction Direction // опционально, может быть пустым
}

// ParsedMessage — результат парсера: ровно одно из полей не nil.
type ParsedMessage struct {
	Trade *TradeSignal
	Close *CloseSignal
}
