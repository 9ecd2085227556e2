package models

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

type OrderKind string

const (
	KindEntry      OrderKind = "MARKET"
	KindStopLoss   OrderKind = "STOP_MARKET"
	KindTakeProfit OrderKind = "TAKE_PROFIT"
	KindTrailing   OrderKind = "TRAILING_STOP_MARKET"
)

// SymbolFilters — сетка биржи по паре. Строки отдаём как есть:
// точность считается по позиции значащего разряда, а не по хвостовым нулям.
type SymbolFilters struct {
	Symbol   string
	StepSize string // LOT_SIZE.stepSize, напр. "0.00100000"
	TickSize string // PRICE_FILTER.tickSize
}

// TakeProfitLeg — одна цель лестницы.
type TakeProfitLeg struct {
	Price    float64
	Quantity float64
}

// TrailingLeg накрывает последнюю цель и забирает весь остаток округления.
type TrailingLeg struct {
	ActivationPrice float64
	Quantity        float64
	CallbackRate    float64 // процент отката, из конфига, не из сигнала
}

// OrderLadder — полный набор ордеров одной позиции.
// Инвариант: сумма объёмов TakeProfits + Trailing.Quantity == EntryQty.
type OrderLadder struct {
	Symbol      string
	Side        string
	CloseSide   string
	EntryQty    float64
	StopPrice   float64
	TakeProfits []TakeProfitLeg
	Trailing    TrailingLeg
}

// OrderSpec — заявка на биржу; поля заполняются по типу ордера.
type OrderSpec struct {
	Symbol          string
	Side            string
	Type            OrderKind
	Quantity        float64
	Price           float64
	StopPrice       float64
	ActivationPrice float64
	CallbackRate    float64
	ClosePosition   bool
	ReduceOnly      bool
	TimeInForce     string
	ClientOrderID   string
}

type OrderAck struct {
	OrderID       int64
	ClientOrderID string
}

// PlacedOrder — связка для монитора: по clientOrderId из уведомления
// находим, какая нога лестницы исполнилась. Создаётся при выставлении,
// дальше только читается.
type PlacedOrder struct {
	ClientOrderID string
	Kind          OrderKind
	OrigPrice     float64
	Quantity      float64
}

type OpenOrder struct {
	OrderID       int64
	ClientOrderID string
	Symbol        string
	Type          string
	Side          string
}

// Position — открытая позиция на бирже. Знак PositionAmt задаёт сторону.
type Position struct {
	Symbol      string
	PositionAmt float64
	EntryPrice  float64
	Leverage    int
}

type LeverageBracket struct {
	Bracket         int
	InitialLeverage int
	NotionalCap     float64
}
