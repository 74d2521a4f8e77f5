package quotes

import (
	"time"

	"github.com/shopspring/decimal"

	"portal/internal/domain/salary"
)

type Line struct {
	Role       salary.Role          `json:"role"`
	Hours      decimal.Decimal      `json:"hours"`
	Overtime   salary.OvertimeHours `json:"overtime"`
	HourlyRate decimal.Decimal      `json:"hourlyRate"`
	Premiums   salary.PremiumRates  `json:"premiums"`
	Amount     decimal.Decimal      `json:"amount"`
}

type Quote struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"clientName"`
	ClientEmail string          `json:"clientEmail,omitempty"`
	Year        int             `json:"year"`
	Lines       []Line          `json:"lines"`
	Notes       string          `json:"notes,omitempty"`
	Total       decimal.Decimal `json:"total"`
	CreatedBy   string          `json:"createdBy"`
	PDFPath     string          `json:"-"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type LineInput struct {
	Role     string
	Hours    decimal.Decimal
	Overtime salary.OvertimeHours
}

type CreateInput struct {
	ClientName  string
	ClientEmail string
	Year        int
	Notes       string
	Lines       []LineInput
}
