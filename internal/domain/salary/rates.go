package salary

import "github.com/shopspring/decimal"

// Statutory rates. Contribution and premium rates are fractions, not percentages.
var (
	hundred = decimal.NewFromInt(100)

	HealthContributionRate  = decimal.RequireFromString("0.04")
	PensionContributionRate = decimal.RequireFromString("0.04")
	SolidarityFundRate      = decimal.RequireFromString("0.01")

	// Solidarity fund applies above this many base wages; the subsidy band in the
	// calculator path is up to TransportWageBand base wages.
	SolidarityWageThreshold = decimal.NewFromInt(4)
	TransportWageBand       = decimal.NewFromInt(2)

	DayOvertimePremium       = decimal.RequireFromString("0.25")
	NightDifferentialPremium = decimal.RequireFromString("0.35")
	NightOvertimePremium     = decimal.RequireFromString("0.75")
	HolidayPremium           = decimal.RequireFromString("0.75")
)

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

func withPremium(rate, premium decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(1).Add(premium))
}
