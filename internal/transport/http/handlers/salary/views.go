package salaryhandler

import (
	"github.com/shopspring/decimal"

	"portal/internal/domain/currency"
	"portal/internal/domain/salary"
)

type configView struct {
	Year                 int             `json:"year"`
	BaseWage             currency.Money  `json:"baseWage"`
	TransportSubsidy     currency.Money  `json:"transportSubsidy"`
	LegalMonthlyHours    int             `json:"legalMonthlyHours"`
	VATPercent           decimal.Decimal `json:"vatPercent"`
	ProfitMarginPercent  decimal.Decimal `json:"profitMarginPercent"`
	EmployerBurdenFactor decimal.Decimal `json:"employerBurdenFactor"`
}

type monthlyView struct {
	Role                        salary.Role     `json:"role"`
	Multiplier                  decimal.Decimal `json:"multiplier"`
	RoleBaseSalary              currency.Money  `json:"roleBaseSalary"`
	TransportSubsidyApplied     currency.Money  `json:"transportSubsidyApplied"`
	GrossSalary                 currency.Money  `json:"grossSalary"`
	EmployeeHealthContribution  currency.Money  `json:"employeeHealthContribution"`
	EmployeePensionContribution currency.Money  `json:"employeePensionContribution"`
	SolidarityFundContribution  currency.Money  `json:"solidarityFundContribution"`
	NetSalary                   currency.Money  `json:"netSalary"`
	EmployerBurdenCost          currency.Money  `json:"employerBurdenCost"`
	TotalLaborCost              currency.Money  `json:"totalLaborCost"`
	ProfitValue                 currency.Money  `json:"profitValue"`
	Subtotal                    currency.Money  `json:"subtotal"`
	VATValue                    currency.Money  `json:"vatValue"`
	TotalMonthly                currency.Money  `json:"totalMonthly"`
}

type hourlyView struct {
	Role               salary.Role    `json:"role"`
	LegalMonthlyHours  int            `json:"legalMonthlyHours"`
	RoleBaseSalary     currency.Money `json:"roleBaseSalary"`
	TransportSubsidy   currency.Money `json:"transportSubsidy"`
	GrossSalary        currency.Money `json:"grossSalary"`
	NetSalary          currency.Money `json:"netSalary"`
	EmployerBurdenCost currency.Money `json:"employerBurdenCost"`
	TotalLaborCost     currency.Money `json:"totalLaborCost"`
	ProfitValue        currency.Money `json:"profitValue"`
	Subtotal           currency.Money `json:"subtotal"`
	VATValue           currency.Money `json:"vatValue"`
	TotalPerHour       currency.Money `json:"totalPerHour"`
}

type premiumsView struct {
	Ordinary          currency.Money `json:"ordinary"`
	DayOvertime       currency.Money `json:"dayOvertime"`
	NightDifferential currency.Money `json:"nightDifferential"`
	NightOvertime     currency.Money `json:"nightOvertime"`
	Holiday           currency.Money `json:"holiday"`
}

type roleView struct {
	Monthly  monthlyView  `json:"monthly"`
	Hourly   hourlyView   `json:"hourly"`
	Premiums premiumsView `json:"premiums"`
}

type roleDetailView struct {
	Config       configView    `json:"config"`
	ExchangeRate currency.Rate `json:"exchangeRate"`
	roleView
}

type tableView struct {
	Config       configView    `json:"config"`
	ExchangeRate currency.Rate `json:"exchangeRate"`
	Roles        []roleView    `json:"roles"`
}

type employeeView struct {
	HourlyRate                  currency.Money `json:"hourlyRate"`
	PeriodBaseSalary            currency.Money `json:"periodBaseSalary"`
	PremiumPay                  premiumPayView `json:"premiumPay"`
	TotalPremiumPay             currency.Money `json:"totalPremiumPay"`
	TransportSubsidy            currency.Money `json:"transportSubsidy"`
	GrossPay                    currency.Money `json:"grossPay"`
	ContributionBase            currency.Money `json:"contributionBase"`
	EmployeeHealthContribution  currency.Money `json:"employeeHealthContribution"`
	EmployeePensionContribution currency.Money `json:"employeePensionContribution"`
	SolidarityFundContribution  currency.Money `json:"solidarityFundContribution"`
	TotalDeductions             currency.Money `json:"totalDeductions"`
	NetPay                      currency.Money `json:"netPay"`
}

type premiumPayView struct {
	DayOvertime       currency.Money `json:"dayOvertime"`
	NightOvertime     currency.Money `json:"nightOvertime"`
	NightDifferential currency.Money `json:"nightDifferential"`
	Holiday           currency.Money `json:"holiday"`
}

type employerView struct {
	PeriodBaseSalary  currency.Money `json:"periodBaseSalary"`
	EmployerBurden    currency.Money `json:"employerBurden"`
	LaborCost         currency.Money `json:"laborCost"`
	Profit            currency.Money `json:"profit"`
	TotalPremiumPay   currency.Money `json:"totalPremiumPay"`
	TransportSubsidy  currency.Money `json:"transportSubsidy"`
	Subtotal          currency.Money `json:"subtotal"`
	VAT               currency.Money `json:"vat"`
	TotalEmployerCost currency.Money `json:"totalEmployerCost"`
}

type calculatorView struct {
	Config       configView    `json:"config"`
	ExchangeRate currency.Rate `json:"exchangeRate"`
	Employee     employeeView  `json:"employee"`
	Employer     employerView  `json:"employer"`
}

func newConfigView(cfg salary.Config, conv currency.Converter) configView {
	return configView{
		Year:                 cfg.Year,
		BaseWage:             conv.Money(cfg.BaseWage),
		TransportSubsidy:     conv.Money(cfg.TransportSubsidy),
		LegalMonthlyHours:    cfg.LegalMonthlyHours,
		VATPercent:           cfg.VATPercent,
		ProfitMarginPercent:  cfg.ProfitMarginPercent,
		EmployerBurdenFactor: cfg.EmployerBurdenFactor,
	}
}

func newRoleView(full salary.FullBreakdown, conv currency.Converter) roleView {
	m, h := full.Monthly, full.Hourly
	p := salary.ComputePremiums(h.TotalPerHour)
	return roleView{
		Monthly: monthlyView{
			Role:                        m.Role,
			Multiplier:                  m.Multiplier,
			RoleBaseSalary:              conv.Money(m.RoleBaseSalary),
			TransportSubsidyApplied:     conv.Money(m.TransportSubsidyApplied),
			GrossSalary:                 conv.Money(m.GrossSalary),
			EmployeeHealthContribution:  conv.Money(m.EmployeeHealthContribution),
			EmployeePensionContribution: conv.Money(m.EmployeePensionContribution),
			SolidarityFundContribution:  conv.Money(m.SolidarityFundContribution),
			NetSalary:                   conv.Money(m.NetSalary),
			EmployerBurdenCost:          conv.Money(m.EmployerBurdenCost),
			TotalLaborCost:              conv.Money(m.TotalLaborCost),
			ProfitValue:                 conv.Money(m.ProfitValue),
			Subtotal:                    conv.Money(m.Subtotal),
			VATValue:                    conv.Money(m.VATValue),
			TotalMonthly:                conv.Money(m.TotalMonthly),
		},
		Hourly: hourlyView{
			Role:               h.Role,
			LegalMonthlyHours:  h.LegalMonthlyHours,
			RoleBaseSalary:     conv.Money(h.RoleBaseSalary),
			TransportSubsidy:   conv.Money(h.TransportSubsidy),
			GrossSalary:        conv.Money(h.GrossSalary),
			NetSalary:          conv.Money(h.NetSalary),
			EmployerBurdenCost: conv.Money(h.EmployerBurdenCost),
			TotalLaborCost:     conv.Money(h.TotalLaborCost),
			ProfitValue:        conv.Money(h.ProfitValue),
			Subtotal:           conv.Money(h.Subtotal),
			VATValue:           conv.Money(h.VATValue),
			TotalPerHour:       conv.Money(h.TotalPerHour),
		},
		Premiums: premiumsView{
			Ordinary:          conv.Money(p.Ordinary),
			DayOvertime:       conv.Money(p.DayOvertime),
			NightDifferential: conv.Money(p.NightDifferential),
			NightOvertime:     conv.Money(p.NightOvertime),
			Holiday:           conv.Money(p.Holiday),
		},
	}
}

func newCalculatorView(cfg salary.Config, views salary.NetViews, conv currency.Converter) calculatorView {
	e, r := views.Employee, views.Employer
	return calculatorView{
		Config:       newConfigView(cfg, conv),
		ExchangeRate: conv.Rate(),
		Employee: employeeView{
			HourlyRate:       conv.Money(e.HourlyRate),
			PeriodBaseSalary: conv.Money(e.PeriodBaseSalary),
			PremiumPay: premiumPayView{
				DayOvertime:       conv.Money(e.PremiumPay.DayOvertime),
				NightOvertime:     conv.Money(e.PremiumPay.NightOvertime),
				NightDifferential: conv.Money(e.PremiumPay.NightDifferential),
				Holiday:           conv.Money(e.PremiumPay.Holiday),
			},
			TotalPremiumPay:             conv.Money(e.TotalPremiumPay),
			TransportSubsidy:            conv.Money(e.TransportSubsidy),
			GrossPay:                    conv.Money(e.GrossPay),
			ContributionBase:            conv.Money(e.ContributionBase),
			EmployeeHealthContribution:  conv.Money(e.EmployeeHealthContribution),
			EmployeePensionContribution: conv.Money(e.EmployeePensionContribution),
			SolidarityFundContribution:  conv.Money(e.SolidarityFundContribution),
			TotalDeductions:             conv.Money(e.TotalDeductions),
			NetPay:                      conv.Money(e.NetPay),
		},
		Employer: employerView{
			PeriodBaseSalary:  conv.Money(r.PeriodBaseSalary),
			EmployerBurden:    conv.Money(r.EmployerBurden),
			LaborCost:         conv.Money(r.LaborCost),
			Profit:            conv.Money(r.Profit),
			TotalPremiumPay:   conv.Money(r.TotalPremiumPay),
			TransportSubsidy:  conv.Money(r.TransportSubsidy),
			Subtotal:          conv.Money(r.Subtotal),
			VAT:               conv.Money(r.VAT),
			TotalEmployerCost: conv.Money(r.TotalEmployerCost),
		},
	}
}
