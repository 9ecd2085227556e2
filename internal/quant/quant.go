package quant

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PrecisionOf возвращает число знаков после запятой для шага сетки.
// Считаем по позиции значащего разряда: "0.00010000" -> 4, "0.001" -> 3,
// "1.00" -> 0. Подсчёт нулей в строке здесь не годится — значение могло
// пройти через float и потерять/приобрести хвост.
func PrecisionOf(filter string) (int32, error) {
	d, err := decimal.NewFromString(filter)
	if err != nil {
		return 0, fmt.Errorf("PrecisionOf parse %q: %w", filter, err)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("PrecisionOf: step %q must be positive", filter)
	}

	var p int32
	for !d.IsInteger() {
		d = d.Shift(1)
		p++
	}
	return p, nil
}

// Floor режет вниз до prec знаков. Для количеств — никогда не вверх,
// иначе можно вылезти за доступный баланс.
func Floor(v float64, prec int32) float64 {
	return decimal.NewFromFloat(v).RoundDown(prec).InexactFloat64()
}

// Round округляет до ближайшего узла сетки. Для цен.
func Round(v float64, prec int32) float64 {
	return decimal.NewFromFloat(v).Round(prec).InexactFloat64()
}
