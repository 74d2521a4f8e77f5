package salary

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config is the yearly salary configuration. Percentages are expressed on a 0-100 scale.
type Config struct {
	Year                 int             `json:"year"`
	BaseWage             decimal.Decimal `json:"baseWage"`
	TransportSubsidy     decimal.Decimal `json:"transportSubsidy"`
	LegalMonthlyHours    int             `json:"legalMonthlyHours"`
	VATPercent           decimal.Decimal `json:"vatPercent"`
	ProfitMarginPercent  decimal.Decimal `json:"profitMarginPercent"`
	EmployerBurdenFactor decimal.Decimal `json:"employerBurdenFactor"`
}

func (c Config) Validate() error {
	if c.Year <= 0 {
		return fmt.Errorf("%w: year must be positive, got %d", ErrConfiguration, c.Year)
	}
	if !c.BaseWage.IsPositive() {
		return fmt.Errorf("%w: base wage must be positive, got %s", ErrConfiguration, c.BaseWage)
	}
	if c.LegalMonthlyHours <= 0 {
		return fmt.Errorf("%w: legal monthly hours must be positive, got %d", ErrConfiguration, c.LegalMonthlyHours)
	}
	for _, field := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"transport subsidy", c.TransportSubsidy},
		{"vat percent", c.VATPercent},
		{"profit margin percent", c.ProfitMarginPercent},
		{"employer burden factor", c.EmployerBurdenFactor},
	} {
		if field.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s", ErrConfiguration, field.name, field.value)
		}
	}
	return nil
}

func (c Config) hours() decimal.Decimal {
	return decimal.NewFromInt(int64(c.LegalMonthlyHours))
}

// ReferenceConfig is the 2025 configuration used to seed empty stores and as CLI defaults.
func ReferenceConfig() Config {
	return Config{
		Year:                 2025,
		BaseWage:             decimal.NewFromInt(1_423_500),
		TransportSubsidy:     decimal.NewFromInt(200_000),
		LegalMonthlyHours:    192,
		VATPercent:           decimal.NewFromInt(19),
		ProfitMarginPercent:  decimal.NewFromInt(30),
		EmployerBurdenFactor: decimal.NewFromInt(50),
	}
}
