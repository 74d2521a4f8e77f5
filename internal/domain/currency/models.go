package currency

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const (
	CodeUSD = "USD"
	CodeCOP = "COP"

	SourceFallback = "fallback"
)

// Rate is the number of COP one USD buys at FetchedAt.
type Rate struct {
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	Value     decimal.Decimal `json:"value"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

func (r Rate) Age(now time.Time) time.Duration {
	return now.Sub(r.FetchedAt)
}

// Money is a COP amount presented with its USD equivalent. COP keeps every digit and
// is written as a bare JSON number; USD is already rounded to cents.
type Money struct {
	COP decimal.Decimal `json:"cop"`
	USD float64         `json:"usd"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		COP json.Number `json:"cop"`
		USD float64     `json:"usd"`
	}{COP: json.Number(m.COP.String()), USD: m.USD})
}
