package salary

import "github.com/shopspring/decimal"

// HourlyBreakdown projects the non-deduction monthly amounts onto one legal hour.
type HourlyBreakdown struct {
	Role               Role            `json:"role"`
	LegalMonthlyHours  int             `json:"legalMonthlyHours"`
	RoleBaseSalary     decimal.Decimal `json:"roleBaseSalary"`
	TransportSubsidy   decimal.Decimal `json:"transportSubsidy"`
	GrossSalary        decimal.Decimal `json:"grossSalary"`
	NetSalary          decimal.Decimal `json:"netSalary"`
	EmployerBurdenCost decimal.Decimal `json:"employerBurdenCost"`
	TotalLaborCost     decimal.Decimal `json:"totalLaborCost"`
	ProfitValue        decimal.Decimal `json:"profitValue"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	VATValue           decimal.Decimal `json:"vatValue"`
	TotalPerHour       decimal.Decimal `json:"totalPerHour"`
}

func ComputeHourly(cfg Config, monthly MonthlyBreakdown) (HourlyBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return HourlyBreakdown{}, err
	}
	hours := cfg.hours()
	perHour := func(v decimal.Decimal) decimal.Decimal { return v.Div(hours) }

	return HourlyBreakdown{
		Role:               monthly.Role,
		LegalMonthlyHours:  cfg.LegalMonthlyHours,
		RoleBaseSalary:     perHour(monthly.RoleBaseSalary),
		TransportSubsidy:   perHour(monthly.TransportSubsidyApplied),
		GrossSalary:        perHour(monthly.GrossSalary),
		NetSalary:          perHour(monthly.NetSalary),
		EmployerBurdenCost: perHour(monthly.EmployerBurdenCost),
		TotalLaborCost:     perHour(monthly.TotalLaborCost),
		ProfitValue:        perHour(monthly.ProfitValue),
		Subtotal:           perHour(monthly.Subtotal),
		VATValue:           perHour(monthly.VATValue),
		TotalPerHour:       perHour(monthly.TotalMonthly),
	}, nil
}
