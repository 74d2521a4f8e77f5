package currency

import "context"

type RateStore interface {
	Latest(ctx context.Context) (Rate, error)
	Save(ctx context.Context, rate Rate) error
}
