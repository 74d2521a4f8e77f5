package salary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHourlyDividesByLegalHours(t *testing.T) {
	cfg := testConfig()
	hours := decimal.NewFromInt(int64(cfg.LegalMonthlyHours))

	for _, role := range Roles() {
		t.Run(string(role), func(t *testing.T) {
			monthly, err := ComputeMonthly(cfg, string(role), nil)
			require.NoError(t, err)
			hourly, err := ComputeHourly(cfg, monthly)
			require.NoError(t, err)

			assert.True(t, monthly.TotalMonthly.Div(hours).Equal(hourly.TotalPerHour))
			assert.True(t, monthly.RoleBaseSalary.Div(hours).Equal(hourly.RoleBaseSalary))
			assert.True(t, monthly.Subtotal.Div(hours).Equal(hourly.Subtotal))
			assert.Equal(t, role, hourly.Role)
			assert.Equal(t, 192, hourly.LegalMonthlyHours)
		})
	}
}

func TestComputeHourlyAuxiliarValues(t *testing.T) {
	full, err := ComputeFull(testConfig(), "auxiliar", nil)
	require.NoError(t, err)

	assertDecimal(t, "7414.0625", full.Hourly.RoleBaseSalary, "roleBaseSalary")
	assertDecimal(t, "3707.03125", full.Hourly.EmployerBurdenCost, "employerBurdenCost")
	assertDecimal(t, "17120.5052083333333333", full.Hourly.TotalPerHour, "totalPerHour")
	assert.Equal(t, testConfig(), full.Config)
}

func TestComputeHourlyUsesGivenMonthly(t *testing.T) {
	cfg := testConfig()
	monthly, err := ComputeMonthly(cfg, "Master", nil)
	require.NoError(t, err)
	monthly.TotalMonthly = decimal.NewFromInt(192)

	hourly, err := ComputeHourly(cfg, monthly)
	require.NoError(t, err)
	assertDecimal(t, "1", hourly.TotalPerHour, "totalPerHour")
}

func TestComputeHourlyRejectsZeroHours(t *testing.T) {
	cfg := testConfig()
	monthly, err := ComputeMonthly(cfg, "Auxiliar", nil)
	require.NoError(t, err)

	cfg.LegalMonthlyHours = 0
	_, err = ComputeHourly(cfg, monthly)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestComputeTableCoversEveryRole(t *testing.T) {
	table, err := ComputeTable(testConfig(), nil)
	require.NoError(t, err)
	require.Len(t, table, len(Roles()))
	for i, role := range Roles() {
		assert.Equal(t, role, table[i].Monthly.Role)
	}
	assertDecimal(t, "9964500", table[5].Monthly.RoleBaseSalary, "master roleBaseSalary")
}

func TestComputePremiums(t *testing.T) {
	rates := []string{"0", "1", "7414.0625", "17120.5052083333333333", "-10"}
	for _, raw := range rates {
		t.Run(raw, func(t *testing.T) {
			r := dec(t, raw)
			p := ComputePremiums(r)
			assert.True(t, p.Ordinary.Equal(r))
			assert.True(t, p.DayOvertime.Equal(r.Mul(dec(t, "1.25"))))
			assert.True(t, p.NightDifferential.Equal(r.Mul(dec(t, "1.35"))))
			assert.True(t, p.NightOvertime.Equal(r.Mul(dec(t, "1.75"))))
			assert.True(t, p.Holiday.Equal(r.Mul(dec(t, "1.75"))))
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"Auxiliar", RoleAuxiliar},
		{" técnico ", RoleTecnico},
		{"Tecnico", RoleTecnico},
		{"TECNOLOGO", RoleTecnologo},
		{"profesional", RoleProfesional},
		{"Especialista", RoleEspecialista},
		{"master", RoleMaster},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []string{"", "Gerente", "Aux"} {
		_, err := ParseRole(bad)
		require.ErrorIs(t, err, ErrInvalidRole, bad)
	}
}
