package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ToMoney presents a COP amount in both currencies. COP passes through unrounded;
// USD is rounded half away from zero to cents.
func ToMoney(amount decimal.Decimal, rate Rate) (Money, error) {
	if !rate.Value.IsPositive() {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidRate, rate.Value)
	}
	usd, _ := amount.Div(rate.Value).Round(2).Float64()
	return Money{COP: amount, USD: usd}, nil
}

// Converter binds a rate so view code can convert many amounts without
// re-checking it.
type Converter struct {
	rate Rate
}

func NewConverter(rate Rate) (Converter, error) {
	if !rate.Value.IsPositive() {
		return Converter{}, fmt.Errorf("%w: %s", ErrInvalidRate, rate.Value)
	}
	return Converter{rate: rate}, nil
}

func (c Converter) Rate() Rate {
	return c.rate
}

func (c Converter) Money(amount decimal.Decimal) Money {
	out, _ := ToMoney(amount, c.rate)
	return out
}
