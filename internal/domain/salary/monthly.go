package salary

import "github.com/shopspring/decimal"

type MonthlyBreakdown struct {
	Role                        Role            `json:"role"`
	Multiplier                  decimal.Decimal `json:"multiplier"`
	RoleBaseSalary              decimal.Decimal `json:"roleBaseSalary"`
	TransportSubsidyApplied     decimal.Decimal `json:"transportSubsidyApplied"`
	GrossSalary                 decimal.Decimal `json:"grossSalary"`
	EmployeeHealthContribution  decimal.Decimal `json:"employeeHealthContribution"`
	EmployeePensionContribution decimal.Decimal `json:"employeePensionContribution"`
	SolidarityFundContribution  decimal.Decimal `json:"solidarityFundContribution"`
	NetSalary                   decimal.Decimal `json:"netSalary"`
	EmployerBurdenCost          decimal.Decimal `json:"employerBurdenCost"`
	TotalLaborCost              decimal.Decimal `json:"totalLaborCost"`
	ProfitValue                 decimal.Decimal `json:"profitValue"`
	Subtotal                    decimal.Decimal `json:"subtotal"`
	VATValue                    decimal.Decimal `json:"vatValue"`
	TotalMonthly                decimal.Decimal `json:"totalMonthly"`
}

type FullBreakdown struct {
	Config  Config           `json:"config"`
	Monthly MonthlyBreakdown `json:"monthly"`
	Hourly  HourlyBreakdown  `json:"hourly"`
}

// ComputeMonthly derives the catalog cost of a role for one month. The multiplier is
// applied once, to the base wage; every later step reuses earlier values.
func ComputeMonthly(cfg Config, role string, overrides Multipliers) (MonthlyBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return MonthlyBreakdown{}, err
	}
	parsed, err := ParseRole(role)
	if err != nil {
		return MonthlyBreakdown{}, err
	}
	multiplier, err := ResolveMultiplier(parsed, overrides)
	if err != nil {
		return MonthlyBreakdown{}, err
	}

	var m MonthlyBreakdown
	m.Role = parsed
	m.Multiplier = multiplier
	m.RoleBaseSalary = cfg.BaseWage.Mul(multiplier)
	m.TransportSubsidyApplied = decimal.Zero
	if parsed.TransportEligible() {
		m.TransportSubsidyApplied = cfg.TransportSubsidy
	}
	m.GrossSalary = m.RoleBaseSalary.Add(m.TransportSubsidyApplied)

	m.EmployeeHealthContribution = m.RoleBaseSalary.Mul(HealthContributionRate)
	m.EmployeePensionContribution = m.RoleBaseSalary.Mul(PensionContributionRate)
	m.SolidarityFundContribution = decimal.Zero
	if m.RoleBaseSalary.GreaterThan(cfg.BaseWage.Mul(SolidarityWageThreshold)) {
		m.SolidarityFundContribution = m.RoleBaseSalary.Mul(SolidarityFundRate)
	}
	m.NetSalary = m.RoleBaseSalary.Sub(m.EmployeeHealthContribution.Add(m.EmployeePensionContribution).Add(m.SolidarityFundContribution))

	m.EmployerBurdenCost = percentOf(m.RoleBaseSalary, cfg.EmployerBurdenFactor)
	m.TotalLaborCost = m.RoleBaseSalary.Add(m.EmployerBurdenCost)
	m.ProfitValue = percentOf(m.RoleBaseSalary, cfg.ProfitMarginPercent)
	m.Subtotal = m.TotalLaborCost.Add(m.ProfitValue).Add(m.TransportSubsidyApplied)
	m.VATValue = percentOf(m.Subtotal, cfg.VATPercent)
	m.TotalMonthly = m.Subtotal.Add(m.VATValue)
	return m, nil
}

func ComputeFull(cfg Config, role string, overrides Multipliers) (FullBreakdown, error) {
	monthly, err := ComputeMonthly(cfg, role, overrides)
	if err != nil {
		return FullBreakdown{}, err
	}
	hourly, err := ComputeHourly(cfg, monthly)
	if err != nil {
		return FullBreakdown{}, err
	}
	return FullBreakdown{Config: cfg, Monthly: monthly, Hourly: hourly}, nil
}

// ComputeTable computes the full breakdown of every role in canonical order.
func ComputeTable(cfg Config, overrides Multipliers) ([]FullBreakdown, error) {
	out := make([]FullBreakdown, 0, len(Roles()))
	for _, role := range Roles() {
		full, err := ComputeFull(cfg, string(role), overrides)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}
