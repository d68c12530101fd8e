package finance

import "context"

// CacheInvalidator drops cached report data after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}
