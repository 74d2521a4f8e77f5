package quotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"portal/internal/domain/salary"
)

// Pricer resolves the full breakdown for a role; salary.Service implements it.
type Pricer interface {
	Full(ctx context.Context, year int, role string) (salary.FullBreakdown, error)
}

func validateInput(in CreateInput) error {
	if strings.TrimSpace(in.ClientName) == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidQuote)
	}
	if in.Year < 0 {
		return fmt.Errorf("%w: year must not be negative", ErrInvalidQuote)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidQuote)
	}
	for i, line := range in.Lines {
		if !line.Hours.IsPositive() {
			return fmt.Errorf("%w: line %d hours must be positive", ErrInvalidQuote, i+1)
		}
		if err := line.Overtime.Validate(); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidQuote, i+1, err)
		}
	}
	return nil
}

// PriceLine bills ordinary hours at the fully-loaded hourly rate and each overtime
// category at its premium rate.
func PriceLine(full salary.FullBreakdown, in LineInput) Line {
	premiums := salary.ComputePremiums(full.Hourly.TotalPerHour)
	amount := in.Hours.Mul(premiums.Ordinary).
		Add(in.Overtime.DayOvertime.Mul(premiums.DayOvertime)).
		Add(in.Overtime.NightOvertime.Mul(premiums.NightOvertime)).
		Add(in.Overtime.NightDifferential.Mul(premiums.NightDifferential)).
		Add(in.Overtime.Holiday.Mul(premiums.Holiday))
	return Line{
		Role:       full.Monthly.Role,
		Hours:      in.Hours,
		Overtime:   in.Overtime,
		HourlyRate: full.Hourly.TotalPerHour,
		Premiums:   premiums,
		Amount:     amount,
	}
}

func price(ctx context.Context, pricer Pricer, in CreateInput) (int, []Line, decimal.Decimal, error) {
	lines := make([]Line, 0, len(in.Lines))
	total := decimal.Zero
	year := in.Year
	for _, lineIn := range in.Lines {
		full, err := pricer.Full(ctx, year, lineIn.Role)
		if err != nil {
			return 0, nil, decimal.Zero, err
		}
		// Pin the resolved year so every line uses the same config.
		year = full.Config.Year
		line := PriceLine(full, lineIn)
		total = total.Add(line.Amount)
		lines = append(lines, line)
	}
	return year, lines, total, nil
}
