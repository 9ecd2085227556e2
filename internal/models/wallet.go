package models

// Wallet — ключи и риск-параметры одного аккаунта.
// Один сигнал исполняется независимо на каждом кошельке.
type Wallet struct {
	APIKey    string
	APISecret string
	Balance   float64 // сколько quote-валюты задействуем под вход
	Leverage  int
}
