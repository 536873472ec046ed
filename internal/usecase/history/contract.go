package history

import (
	"context"

	domhist "github.com/cigarmaestro/searchd/internal/domain/history"
)

// Store defines the persistence contract for search history.
type Store interface {
	Load(ctx context.Context) ([]domhist.Entry, error)
	Save(ctx context.Context, entries []domhist.Entry) error
	Clear(ctx context.Context) error
}
