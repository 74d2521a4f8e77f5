package quotes

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"portal/internal/domain/currency"
)

var lineColumns = []struct {
	title string
	width float64
	align string
}{
	{"Role", 38, "L"},
	{"Hours", 18, "R"},
	{"Overtime", 22, "R"},
	{"Rate / hour", 40, "R"},
	{"Amount", 62, "R"},
}

// RenderPDF lays out a quote. USD equivalents are printed when conv is non-nil.
func RenderPDF(q Quote, conv *currency.Converter) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Quote")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Client: %s", q.ClientName)))
	pdf.Ln(6)
	if q.ClientEmail != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Email: %s", q.ClientEmail))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Reference: %s", q.ID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Date: %s   Salary year: %d", q.CreatedAt.Format("2006-01-02"), q.Year))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range lineColumns {
		pdf.CellFormat(col.width, 8, col.title, "B", 0, col.align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range q.Lines {
		values := []string{
			tr(string(line.Role)),
			line.Hours.String(),
			line.Overtime.Total().String(),
			currency.FormatCOP(line.HourlyRate),
			currency.FormatCOP(line.Amount),
		}
		for i, col := range lineColumns {
			pdf.CellFormat(col.width, 7, values[i], "", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(118, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(62, 8, currency.FormatCOP(q.Total), "T", 0, "R", false, 0, "")
	pdf.Ln(-1)
	if conv != nil {
		usd := conv.Money(q.Total).USD
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(118, 7, fmt.Sprintf("USD equivalent (1 USD = %s COP)", conv.Rate().Value.StringFixed(2)), "", 0, "L", false, 0, "")
		pdf.CellFormat(62, 7, currency.FormatUSD(usd), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if q.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, tr(q.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
