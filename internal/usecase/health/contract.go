package health

import "context"

// StorePinger checks key-value store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker reports search index readiness.
type IndexChecker interface {
	Ready() bool
	IndexSize() int
}
