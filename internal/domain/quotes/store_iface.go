package quotes

import "context"

type QuoteStore interface {
	Create(ctx context.Context, q Quote) error
	Get(ctx context.Context, id string) (Quote, error)
	List(ctx context.Context, limit, offset int) ([]Quote, error)
	SetPDFPath(ctx context.Context, id, path string) error
}
