package main

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcMonthlyUsesReferenceConfig(t *testing.T) {
	out, err := runCLI(t, "calc", "monthly", "--role", "auxiliar")
	require.NoError(t, err, out)

	var parsed struct {
		Command string `json:"command"`
		Result  struct {
			Monthly struct {
				Role         string          `json:"role"`
				TotalMonthly decimal.Decimal `json:"totalMonthly"`
			} `json:"monthly"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "calc monthly", parsed.Command)
	assert.Equal(t, "Auxiliar", parsed.Result.Monthly.Role)
	assert.True(t, decimal.NewFromInt(3_287_137).Equal(parsed.Result.Monthly.TotalMonthly), parsed.Result.Monthly.TotalMonthly.String())
}

func TestCalcTableListsEveryRole(t *testing.T) {
	out, err := runCLI(t, "calc", "table", "--year", "2026")
	require.NoError(t, err, out)

	var parsed struct {
		Result []json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.Result, 6)
}

func TestCalcNetView(t *testing.T) {
	out, err := runCLI(t, "calc", "netview", "--salary", "2000000", "--hours", "192")
	require.NoError(t, err, out)

	var parsed struct {
		Result struct {
			Employee struct {
				NetPay decimal.Decimal `json:"netPay"`
			} `json:"employee"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.True(t, decimal.NewFromInt(2_040_000).Equal(parsed.Result.Employee.NetPay.Round(2)), parsed.Result.Employee.NetPay.String())
}

func TestCalcRejectsBadFlags(t *testing.T) {
	_, err := runCLI(t, "calc", "monthly", "--role", "auxiliar", "--base-wage", "abc")
	assert.ErrorContains(t, err, "--base-wage")

	_, err = runCLI(t, "calc", "monthly", "--role", "gerente")
	assert.Error(t, err)

	_, err = runCLI(t, "calc", "table", "--legal-hours", "0")
	assert.Error(t, err)
}
