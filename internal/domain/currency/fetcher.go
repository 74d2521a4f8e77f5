package currency

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

const defaultFetchTimeout = 5 * time.Second

type Fetcher interface {
	Fetch(ctx context.Context) (Rate, error)
}

// HTTPFetcher reads a USD-based rates document of the form {"rates":{"COP":n}}.
type HTTPFetcher struct {
	URL     string
	Timeout time.Duration
	client  *fasthttp.Client
	now     func() time.Time
}

func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPFetcher{
		URL:     url,
		Timeout: timeout,
		client: &fasthttp.Client{
			Name:                "portal-fx",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 90 * time.Second,
		},
		now: time.Now,
	}
}

type ratesResponse struct {
	Result string                     `json:"result"`
	Base   string                     `json:"base_code"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (Rate, error) {
	timeout := f.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return Rate{}, context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := f.client.DoTimeout(req, resp, timeout); err != nil {
		return Rate{}, fmt.Errorf("fetch exchange rate: %w", err)
	}
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return Rate{}, fmt.Errorf("fetch exchange rate: unexpected status %d", status)
	}

	var payload ratesResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return Rate{}, fmt.Errorf("decode exchange rate: %w", err)
	}
	value, ok := payload.Rates[CodeCOP]
	if !ok {
		return Rate{}, fmt.Errorf("%w: response has no %s rate", ErrInvalidRate, CodeCOP)
	}
	if !value.IsPositive() {
		return Rate{}, fmt.Errorf("%w: %s", ErrInvalidRate, value)
	}
	return Rate{Base: CodeUSD, Quote: CodeCOP, Value: value, Source: f.URL, FetchedAt: f.now().UTC()}, nil
}
