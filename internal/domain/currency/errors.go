package currency

import "errors"

var (
	ErrInvalidRate     = errors.New("invalid exchange rate")
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	ErrRateNotFound    = errors.New("exchange rate not found")
	ErrRefreshBackoff  = errors.New("exchange rate refresh backing off")
)
