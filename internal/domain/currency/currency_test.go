package currency

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRates struct {
	rates   []Rate
	saveErr error
}

func (m *memoryRates) Latest(context.Context) (Rate, error) {
	if len(m.rates) == 0 {
		return Rate{}, ErrRateNotFound
	}
	return m.rates[len(m.rates)-1], nil
}

func (m *memoryRates) Save(_ context.Context, rate Rate) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rates = append(m.rates, rate)
	return nil
}

type stubFetcher struct {
	rate  Rate
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context) (Rate, error) {
	s.calls++
	return s.rate, s.err
}

type refreshCounter struct{ ok, failed int }

func (r *refreshCounter) RecordRateRefresh(err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func rate(value string, fetchedAt time.Time) Rate {
	return Rate{Base: CodeUSD, Quote: CodeCOP, Value: decimal.RequireFromString(value), Source: "test", FetchedAt: fetchedAt}
}

func TestToMoney(t *testing.T) {
	money, err := ToMoney(decimal.NewFromInt(3_287_137), rate("4000", now))
	require.NoError(t, err)
	assert.True(t, money.COP.Equal(decimal.NewFromInt(3_287_137)))
	assert.Equal(t, 821.78, money.USD)

	money, err = ToMoney(decimal.RequireFromString("7414.0625"), rate("4100.5", now))
	require.NoError(t, err)
	assert.Equal(t, "7414.0625", money.COP.String())
	assert.Equal(t, 1.81, money.USD)

	hourly := decimal.RequireFromString("17118.4049479166666667")
	money, err = ToMoney(hourly, rate("4000", now))
	require.NoError(t, err)
	raw, err := json.Marshal(money)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cop":17118.4049479166666667,"usd":4.28}`, string(raw))
	assert.Contains(t, string(raw), "17118.4049479166666667")

	var decoded Money
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.COP.Equal(hourly))

	_, err = ToMoney(decimal.NewFromInt(1), rate("0", now))
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewConverter(rate("-1", now))
	require.ErrorIs(t, err, ErrInvalidRate)
}

func TestServiceServesFreshCachedRate(t *testing.T) {
	store := &memoryRates{rates: []Rate{rate("4000", now.Add(-time.Hour))}}
	fetcher := &stubFetcher{rate: rate("4100", now)}
	svc := NewService(store, fetcher, 12*time.Hour, WithClock(func() time.Time { return now }))

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4000)))
	assert.Zero(t, fetcher.calls)
}

func TestServiceRefreshesStaleRate(t *testing.T) {
	store := &memoryRates{rates: []Rate{rate("4000", now.Add(-24*time.Hour))}}
	fetcher := &stubFetcher{rate: rate("4100", now)}
	recorder := &refreshCounter{}
	svc := NewService(store, fetcher, 12*time.Hour, WithClock(func() time.Time { return now }), WithRecorder(recorder))

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4100)))
	assert.Len(t, store.rates, 2)
	assert.Equal(t, 1, recorder.ok)

	_, err = svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
}

func TestServiceServesStaleRateWhenFetchFails(t *testing.T) {
	store := &memoryRates{rates: []Rate{rate("4000", now.Add(-24*time.Hour))}}
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	recorder := &refreshCounter{}
	svc := NewService(store, fetcher, 12*time.Hour, WithClock(func() time.Time { return now }), WithRecorder(recorder))

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4000)))
	assert.Equal(t, "test", got.Source)
	assert.True(t, got.FetchedAt.Equal(now.Add(-24*time.Hour)))
	assert.Equal(t, 1, recorder.failed)
}

func TestServiceBacksOffAfterFailedFetch(t *testing.T) {
	clock := now
	store := &memoryRates{rates: []Rate{rate("4000", now.Add(-24*time.Hour))}}
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	svc := NewService(store, fetcher, 12*time.Hour,
		WithClock(func() time.Time { return clock }),
		WithRetryBackoff(time.Minute),
	)

	for range 3 {
		got, err := svc.Current(context.Background())
		require.NoError(t, err)
		assert.True(t, got.Value.Equal(decimal.NewFromInt(4000)))
	}
	assert.Equal(t, 1, fetcher.calls)

	clock = now.Add(2 * time.Minute)
	fetcher.err = nil
	fetcher.rate = rate("4100", clock)
	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4100)))
	assert.Equal(t, 2, fetcher.calls)
}

func TestServiceFallbackDuringBackoffSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	svc := NewService(&memoryRates{}, fetcher, time.Hour,
		WithClock(func() time.Time { return now }),
		WithFallback(decimal.NewFromInt(4200)),
	)

	for range 2 {
		got, err := svc.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, SourceFallback, got.Source)
	}
	assert.Equal(t, 1, fetcher.calls)

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestServiceFallsBackToConfiguredRate(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	svc := NewService(&memoryRates{}, fetcher, time.Hour,
		WithClock(func() time.Time { return now }),
		WithFallback(decimal.NewFromInt(4200)),
	)

	got, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, got.Source)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4200)))
}

func TestServiceUnavailableWithoutFallback(t *testing.T) {
	svc := NewService(&memoryRates{}, &stubFetcher{err: errors.New("upstream down")}, time.Hour)

	_, err := svc.Current(context.Background())
	require.ErrorIs(t, err, ErrRateUnavailable)

	_, err = svc.Converter(context.Background())
	require.ErrorIs(t, err, ErrRateUnavailable)
	require.ErrorIs(t, err, ErrRefreshBackoff)
}

func TestServiceKeepsFetchedRateWhenSaveFails(t *testing.T) {
	store := &memoryRates{saveErr: errors.New("db down")}
	recorder := &refreshCounter{}
	svc := NewService(store, &stubFetcher{rate: rate("4100", now)}, time.Hour, WithRecorder(recorder))

	got, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(4100)))
	assert.Equal(t, 1, recorder.failed)
}

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			fmt.Fprint(w, `{"result":"success","base_code":"USD","rates":{"USD":1,"COP":4125.37}}`)
		case "/missing":
			fmt.Fprint(w, `{"result":"success","rates":{"EUR":0.91}}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	got, err := NewHTTPFetcher(server.URL+"/ok", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Value.Equal(decimal.RequireFromString("4125.37")))
	assert.Equal(t, CodeUSD, got.Base)
	assert.Equal(t, CodeCOP, got.Quote)

	_, err = NewHTTPFetcher(server.URL+"/missing", time.Second).Fetch(context.Background())
	require.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewHTTPFetcher(server.URL+"/broken", time.Second).Fetch(context.Background())
	require.Error(t, err)
}

func TestFormatCOP(t *testing.T) {
	formatted := FormatCOP(decimal.NewFromInt(3_287_137))
	assert.Contains(t, formatted, "$")
	assert.Contains(t, formatted, "287")
	assert.NotContains(t, formatted, "3287137")
}

func TestFormatUSD(t *testing.T) {
	assert.Contains(t, FormatUSD(1234.5), "1,234.50")
}
