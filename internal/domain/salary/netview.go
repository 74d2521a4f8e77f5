package salary

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PremiumPay struct {
	DayOvertime       decimal.Decimal `json:"dayOvertime"`
	NightOvertime     decimal.Decimal `json:"nightOvertime"`
	NightDifferential decimal.Decimal `json:"nightDifferential"`
	Holiday           decimal.Decimal `json:"holiday"`
}

func (p PremiumPay) Total() decimal.Decimal {
	return p.DayOvertime.Add(p.NightOvertime).Add(p.NightDifferential).Add(p.Holiday)
}

type EmployeeView struct {
	HourlyRate                  decimal.Decimal `json:"hourlyRate"`
	PeriodBaseSalary            decimal.Decimal `json:"periodBaseSalary"`
	PremiumPay                  PremiumPay      `json:"premiumPay"`
	TotalPremiumPay             decimal.Decimal `json:"totalPremiumPay"`
	TransportSubsidy            decimal.Decimal `json:"transportSubsidy"`
	GrossPay                    decimal.Decimal `json:"grossPay"`
	ContributionBase            decimal.Decimal `json:"contributionBase"`
	EmployeeHealthContribution  decimal.Decimal `json:"employeeHealthContribution"`
	EmployeePensionContribution decimal.Decimal `json:"employeePensionContribution"`
	SolidarityFundContribution  decimal.Decimal `json:"solidarityFundContribution"`
	TotalDeductions             decimal.Decimal `json:"totalDeductions"`
	NetPay                      decimal.Decimal `json:"netPay"`
}

type EmployerView struct {
	PeriodBaseSalary  decimal.Decimal `json:"periodBaseSalary"`
	EmployerBurden    decimal.Decimal `json:"employerBurden"`
	LaborCost         decimal.Decimal `json:"laborCost"`
	Profit            decimal.Decimal `json:"profit"`
	TotalPremiumPay   decimal.Decimal `json:"totalPremiumPay"`
	TransportSubsidy  decimal.Decimal `json:"transportSubsidy"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	VAT               decimal.Decimal `json:"vat"`
	TotalEmployerCost decimal.Decimal `json:"totalEmployerCost"`
}

type NetViews struct {
	Employee EmployeeView `json:"employee"`
	Employer EmployerView `json:"employer"`
}

// ComputeNetViews is the what-if calculator over a user supplied monthly salary.
// Subsidy eligibility here is wage-band based, unlike the role rule of ComputeMonthly.
func ComputeNetViews(cfg Config, grossMonthlyInputSalary, hoursToBill decimal.Decimal, overtime OvertimeHours) (NetViews, error) {
	if err := cfg.Validate(); err != nil {
		return NetViews{}, err
	}
	if grossMonthlyInputSalary.IsNegative() {
		return NetViews{}, invalidInput("gross monthly salary must not be negative, got %s", grossMonthlyInputSalary)
	}
	if hoursToBill.IsNegative() {
		return NetViews{}, invalidInput("hours to bill must not be negative, got %s", hoursToBill)
	}
	if err := overtime.Validate(); err != nil {
		return NetViews{}, err
	}

	hourlyRate := grossMonthlyInputSalary.Div(cfg.hours())
	periodBase := hourlyRate.Mul(hoursToBill)

	premiums := PremiumPay{
		DayOvertime:       overtime.DayOvertime.Mul(withPremium(hourlyRate, DayOvertimePremium)),
		NightOvertime:     overtime.NightOvertime.Mul(withPremium(hourlyRate, NightOvertimePremium)),
		NightDifferential: overtime.NightDifferential.Mul(withPremium(hourlyRate, NightDifferentialPremium)),
		Holiday:           overtime.Holiday.Mul(withPremium(hourlyRate, HolidayPremium)),
	}
	totalPremium := premiums.Total()

	subsidy := decimal.Zero
	if grossMonthlyInputSalary.LessThanOrEqual(cfg.BaseWage.Mul(TransportWageBand)) {
		subsidy = cfg.TransportSubsidy
	}

	var employee EmployeeView
	employee.HourlyRate = hourlyRate
	employee.PeriodBaseSalary = periodBase
	employee.PremiumPay = premiums
	employee.TotalPremiumPay = totalPremium
	employee.TransportSubsidy = subsidy
	employee.GrossPay = periodBase.Add(totalPremium).Add(subsidy)
	employee.ContributionBase = periodBase.Add(totalPremium)
	employee.EmployeeHealthContribution = employee.ContributionBase.Mul(HealthContributionRate)
	employee.EmployeePensionContribution = employee.ContributionBase.Mul(PensionContributionRate)
	employee.SolidarityFundContribution = decimal.Zero
	if grossMonthlyInputSalary.GreaterThan(cfg.BaseWage.Mul(SolidarityWageThreshold)) {
		employee.SolidarityFundContribution = employee.ContributionBase.Mul(SolidarityFundRate)
	}
	employee.TotalDeductions = employee.EmployeeHealthContribution.
		Add(employee.EmployeePensionContribution).
		Add(employee.SolidarityFundContribution)
	employee.NetPay = employee.GrossPay.Sub(employee.TotalDeductions)

	var employer EmployerView
	employer.PeriodBaseSalary = periodBase
	employer.EmployerBurden = percentOf(periodBase, cfg.EmployerBurdenFactor)
	employer.LaborCost = periodBase.Add(employer.EmployerBurden)
	employer.Profit = percentOf(periodBase, cfg.ProfitMarginPercent)
	employer.TotalPremiumPay = totalPremium
	employer.TransportSubsidy = subsidy
	employer.Subtotal = employer.LaborCost.Add(employer.Profit).Add(totalPremium).Add(subsidy)
	employer.VAT = percentOf(employer.Subtotal, cfg.VATPercent)
	employer.TotalEmployerCost = employer.Subtotal.Add(employer.VAT)

	return NetViews{Employee: employee, Employer: employer}, nil
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}
