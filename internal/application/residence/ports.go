package residence

import "context"

// TxRunner runs fn inside one database transaction
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CacheInvalidator drops cached report data after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}
