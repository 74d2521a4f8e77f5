package currency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"portal/internal/platform/logger"
)

// DefaultRetryBackoff is how long Current waits after a failed fetch before trying again.
const DefaultRetryBackoff = time.Minute

type RefreshRecorder interface {
	RecordRateRefresh(err error)
}

type Service struct {
	store    RateStore
	fetcher  Fetcher
	ttl      time.Duration
	fallback decimal.Decimal
	recorder RefreshRecorder
	now      func() time.Time
	backoff  time.Duration

	mu         sync.Mutex
	cached     *Rate
	retryAfter time.Time
}

type Option func(*Service)

func WithFallback(value decimal.Decimal) Option {
	return func(s *Service) {
		s.fallback = value
	}
}

func WithRecorder(recorder RefreshRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

func WithRetryBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.backoff = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store RateStore, fetcher Fetcher, ttl time.Duration, opts ...Option) *Service {
	s := &Service{store: store, fetcher: fetcher, ttl: ttl, now: time.Now, backoff: DefaultRetryBackoff}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns a fresh rate when one is cached, otherwise fetches a new one.
// A failed fetch degrades to the last known rate, then to the configured fallback;
// both are returned with a nil error, so callers inspect Source and FetchedAt to tell
// them apart. After a failure no fetch is attempted until the retry backoff elapses.
func (s *Service) Current(ctx context.Context) (Rate, error) {
	cached, cachedErr := s.latest(ctx)
	now := s.now()
	if cachedErr == nil && cached.Age(now) < s.ttl {
		return cached, nil
	}

	var err error
	if until, waiting := s.backingOff(now); waiting {
		err = fmt.Errorf("%w: next attempt at %s", ErrRefreshBackoff, until.Format(time.RFC3339))
	} else {
		fresh, fetchErr := s.Refresh(ctx)
		if fetchErr == nil {
			return fresh, nil
		}
		err = fetchErr
		s.deferRetry(now)
	}

	log := logger.Ctx(ctx)
	backoff := errors.Is(err, ErrRefreshBackoff)
	if cachedErr == nil {
		if !backoff {
			log.Warn().Err(err).Time("fetchedAt", cached.FetchedAt).Msg("exchange rate refresh failed, serving stale rate")
		}
		return cached, nil
	}
	if s.fallback.IsPositive() {
		if !backoff {
			log.Warn().Err(err).Str("rate", s.fallback.String()).Msg("exchange rate refresh failed, serving fallback rate")
		}
		return Rate{Base: CodeUSD, Quote: CodeCOP, Value: s.fallback, Source: SourceFallback, FetchedAt: now.UTC()}, nil
	}
	return Rate{}, errors.Join(ErrRateUnavailable, err)
}

func (s *Service) backingOff(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryAfter, now.Before(s.retryAfter)
}

func (s *Service) deferRetry(now time.Time) {
	s.mu.Lock()
	s.retryAfter = now.Add(s.backoff)
	s.mu.Unlock()
}

// Refresh fetches a rate and persists it. A persistence failure is logged and the
// fetched rate is still served from memory.
func (s *Service) Refresh(ctx context.Context) (Rate, error) {
	if s.fetcher == nil {
		return Rate{}, ErrRateUnavailable
	}
	rate, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.record(err)
		return Rate{}, err
	}
	var saveErr error
	if s.store != nil {
		if saveErr = s.store.Save(ctx, rate); saveErr != nil {
			logger.Ctx(ctx).Warn().Err(saveErr).Msg("exchange rate save failed")
		}
	}
	s.record(saveErr)
	s.mu.Lock()
	s.cached = &rate
	s.retryAfter = time.Time{}
	s.mu.Unlock()
	return rate, nil
}

func (s *Service) Converter(ctx context.Context) (Converter, error) {
	rate, err := s.Current(ctx)
	if err != nil {
		return Converter{}, err
	}
	return NewConverter(rate)
}

func (s *Service) latest(ctx context.Context) (Rate, error) {
	s.mu.Lock()
	cached := s.cached
	s.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}
	if s.store == nil {
		return Rate{}, ErrRateNotFound
	}
	rate, err := s.store.Latest(ctx)
	if err != nil {
		if !errors.Is(err, ErrRateNotFound) {
			logger.Ctx(ctx).Warn().Err(err).Msg("exchange rate lookup failed")
		}
		return Rate{}, err
	}
	s.mu.Lock()
	s.cached = &rate
	s.mu.Unlock()
	return rate, nil
}

func (s *Service) record(err error) {
	if s.recorder != nil {
		s.recorder.RecordRateRefresh(err)
	}
}
