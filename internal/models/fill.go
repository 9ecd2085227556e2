package models

// FillNotification — событие user-data стрима по ордеру кошелька.
type FillNotification struct {
	Symbol        string
	OrderType     OrderKind // исходный тип ордера (originalOrderType)
	OrderID       int64
	ClientOrderID string
	Status        string // NEW / FILLED / CANCELED / ...
	ExecutionType string // TRADE / CANCELED / ...
}

// Filled — ордер полностью исполнился сделкой.
func (f FillNotification) Filled() bool {
	return f.ExecutionType == "TRADE" && f.Status == "FILLED"
}
