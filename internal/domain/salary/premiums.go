package salary

import "github.com/shopspring/decimal"

type PremiumRates struct {
	Ordinary          decimal.Decimal `json:"ordinary"`
	DayOvertime       decimal.Decimal `json:"dayOvertime"`
	NightDifferential decimal.Decimal `json:"nightDifferential"`
	NightOvertime     decimal.Decimal `json:"nightOvertime"`
	Holiday           decimal.Decimal `json:"holiday"`
}

type OvertimeHours struct {
	DayOvertime       decimal.Decimal `json:"dayOvertime"`
	NightOvertime     decimal.Decimal `json:"nightOvertime"`
	NightDifferential decimal.Decimal `json:"nightDifferential"`
	Holiday           decimal.Decimal `json:"holiday"`
}

// ComputePremiums applies the statutory surcharges to an hourly rate. Catalog and quote
// callers pass HourlyBreakdown.TotalPerHour, so premiums include margin and VAT.
func ComputePremiums(baseHourlyRate decimal.Decimal) PremiumRates {
	return PremiumRates{
		Ordinary:          baseHourlyRate,
		DayOvertime:       withPremium(baseHourlyRate, DayOvertimePremium),
		NightDifferential: withPremium(baseHourlyRate, NightDifferentialPremium),
		NightOvertime:     withPremium(baseHourlyRate, NightOvertimePremium),
		Holiday:           withPremium(baseHourlyRate, HolidayPremium),
	}
}

func (o OvertimeHours) Validate() error {
	for _, v := range []decimal.Decimal{o.DayOvertime, o.NightOvertime, o.NightDifferential, o.Holiday} {
		if v.IsNegative() {
			return invalidInput("overtime hours must not be negative, got %s", v)
		}
	}
	return nil
}

func (o OvertimeHours) Total() decimal.Decimal {
	return o.DayOvertime.Add(o.NightOvertime).Add(o.NightDifferential).Add(o.Holiday)
}
