package salaryhandler

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"portal/internal/domain/currency"
	"portal/internal/domain/salary"
)

var tableColumns = []struct {
	header string
	width  float64
	value  func(salary.FullBreakdown) decimal.Decimal
}{
	{"Multiplier", 12, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.Multiplier }},
	{"Role base salary", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.RoleBaseSalary }},
	{"Transport subsidy", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.TransportSubsidyApplied }},
	{"Gross salary", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.GrossSalary }},
	{"Health (employee)", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.EmployeeHealthContribution }},
	{"Pension (employee)", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.EmployeePensionContribution }},
	{"Solidarity fund", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.SolidarityFundContribution }},
	{"Net salary", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.NetSalary }},
	{"Employer burden", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.EmployerBurdenCost }},
	{"Total labor cost", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.TotalLaborCost }},
	{"Profit", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.ProfitValue }},
	{"Subtotal", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.Subtotal }},
	{"VAT", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.VATValue }},
	{"Total monthly", 18, func(f salary.FullBreakdown) decimal.Decimal { return f.Monthly.TotalMonthly }},
	{"Total per hour", 16, func(f salary.FullBreakdown) decimal.Decimal { return f.Hourly.TotalPerHour }},
}

// BuildTableWorkbook writes one row per role. Amounts are stored unrounded; the cell
// style only affects display. A USD column is added when conv is non-nil.
func BuildTableWorkbook(table []salary.FullBreakdown, conv *currency.Converter) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Salaries"
	if len(table) > 0 {
		sheet = fmt.Sprintf("Salaries %d", table[0].Config.Year)
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	amountFormat := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return nil, err
	}

	headers := []string{"Role"}
	for _, col := range tableColumns {
		headers = append(headers, col.header)
	}
	if conv != nil {
		headers = append(headers, "Total per hour (USD)")
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 16); err != nil {
		return nil, err
	}

	for r, full := range table {
		row := r + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, cell, string(full.Monthly.Role)); err != nil {
			return nil, err
		}
		for c, col := range tableColumns {
			cell, _ := excelize.CoordinatesToCellName(c+2, row)
			value, _ := col.value(full).Float64()
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
		if conv != nil {
			cell, _ := excelize.CoordinatesToCellName(len(tableColumns)+2, row)
			if err := f.SetCellValue(sheet, cell, conv.Money(full.Hourly.TotalPerHour).USD); err != nil {
				return nil, err
			}
		}
	}

	for c, col := range tableColumns {
		name, _ := excelize.ColumnNumberToName(c + 2)
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, err
		}
	}
	if len(table) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), len(table)+1)
		if err := f.SetCellStyle(sheet, "B2", lastCell, amountStyle); err != nil {
			return nil, err
		}
	}

	if len(table) > 0 {
		noteRow := len(table) + 3
		cfg := table[0].Config
		note := fmt.Sprintf("Base wage %s, transport subsidy %s, %d legal hours", currency.FormatCOP(cfg.BaseWage), currency.FormatCOP(cfg.TransportSubsidy), cfg.LegalMonthlyHours)
		if conv != nil {
			note += fmt.Sprintf(", 1 USD = %s COP (%s)", conv.Rate().Value.StringFixed(2), conv.Rate().Source)
		}
		cell, _ := excelize.CoordinatesToCellName(1, noteRow)
		if err := f.SetCellValue(sheet, cell, note); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
