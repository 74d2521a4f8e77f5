package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatCOP renders pesos with thousands separators, rounded to cents for display only.
func FormatCOP(amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return money.NewFromFloat(value, money.COP).Display()
}

func FormatUSD(amount float64) string {
	return money.NewFromFloat(amount, money.USD).Display()
}
