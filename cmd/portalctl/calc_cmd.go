package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"portal/internal/domain/salary"
)

// configFlags overrides fields of the reference configuration.
type configFlags struct {
	year      int
	baseWage  string
	transport string
	hours     int
	vat       string
	margin    string
	burden    string
}

func (f *configFlags) bind(cmd *cobra.Command) {
	ref := salary.ReferenceConfig()
	cmd.Flags().IntVar(&f.year, "year", ref.Year, "Configuration year")
	cmd.Flags().StringVar(&f.baseWage, "base-wage", ref.BaseWage.String(), "Monthly minimum wage (COP)")
	cmd.Flags().StringVar(&f.transport, "transport", ref.TransportSubsidy.String(), "Monthly transport subsidy (COP)")
	cmd.Flags().IntVar(&f.hours, "legal-hours", ref.LegalMonthlyHours, "Legal monthly hours")
	cmd.Flags().StringVar(&f.vat, "vat", ref.VATPercent.String(), "VAT percent")
	cmd.Flags().StringVar(&f.margin, "margin", ref.ProfitMarginPercent.String(), "Profit margin percent")
	cmd.Flags().StringVar(&f.burden, "burden", ref.EmployerBurdenFactor.String(), "Employer burden percent")
}

func (f *configFlags) config() (salary.Config, error) {
	cfg := salary.Config{Year: f.year, LegalMonthlyHours: f.hours}
	for _, field := range []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"base-wage", f.baseWage, &cfg.BaseWage},
		{"transport", f.transport, &cfg.TransportSubsidy},
		{"vat", f.vat, &cfg.VATPercent},
		{"margin", f.margin, &cfg.ProfitMarginPercent},
		{"burden", f.burden, &cfg.EmployerBurdenFactor},
	} {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return salary.Config{}, fmt.Errorf("invalid --%s %q: %w", field.flag, field.raw, err)
		}
		*field.dst = value
	}
	return cfg, cfg.Validate()
}

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the cost engine offline",
	}
	cmd.AddCommand(newCalcMonthlyCmd(), newCalcTableCmd(), newCalcNetViewCmd())
	return cmd
}

func newCalcMonthlyCmd() *cobra.Command {
	var (
		flags configFlags
		role  string
	)

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Monthly and hourly breakdown for one role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			start := time.Now()
			full, err := salary.ComputeFull(cfg, role, nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "calc monthly",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     full,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&role, "role", "", "Role name (required)")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newCalcTableCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Breakdowns for every role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			start := time.Now()
			rows, err := salary.ComputeTable(cfg, nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "calc table",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     rows,
			})
		},
	}

	flags.bind(cmd)
	return cmd
}

func newCalcNetViewCmd() *cobra.Command {
	var (
		flags    configFlags
		gross    string
		hours    string
		overtime [4]string
	)

	cmd := &cobra.Command{
		Use:   "netview",
		Short: "Employee and employer views for a gross salary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			values := make([]decimal.Decimal, 0, 6)
			for _, raw := range append([]string{gross, hours}, overtime[:]...) {
				value, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				values = append(values, value)
			}

			start := time.Now()
			views, err := salary.ComputeNetViews(cfg, values[0], values[1], salary.OvertimeHours{
				DayOvertime:       values[2],
				NightOvertime:     values[3],
				NightDifferential: values[4],
				Holiday:           values[5],
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "calc netview",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     views,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&gross, "salary", "", "Gross monthly salary (required)")
	cmd.Flags().StringVar(&hours, "hours", "0", "Hours to bill")
	cmd.Flags().StringVar(&overtime[0], "day-overtime", "0", "Daytime overtime hours")
	cmd.Flags().StringVar(&overtime[1], "night-overtime", "0", "Night overtime hours")
	cmd.Flags().StringVar(&overtime[2], "night-differential", "0", "Night differential hours")
	cmd.Flags().StringVar(&overtime[3], "holiday", "0", "Holiday hours")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}
