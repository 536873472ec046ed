// Package history persists search history through the key-value store.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cigarmaestro/searchd/internal/db"
	domhist "github.com/cigarmaestro/searchd/internal/domain/history"
)

// store is the consumer interface for history persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}

// Store persists the history list as one JSON value under a single key.
type Store struct {
	store store
	key   string
}

// New creates a history store. keyPrefix namespaces the storage key.
func New(s store, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "searchd"
	}
	return &Store{store: s, key: keyPrefix + ":search:history"}
}

// Load reads the persisted history. A missing key yields an empty history,
// not an error. Corrupt data is an error; callers decide how forgiving to
// be.
func (s *Store) Load(ctx context.Context) ([]domhist.Entry, error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("history GET %s: %w", s.key, err)
	}

	var entries []domhist.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("history decode %s: %w", s.key, err)
	}
	return entries, nil
}

// Save writes the full history list.
func (s *Store) Save(ctx context.Context, entries []domhist.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history encode: %w", err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("history SET %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the persisted history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key); err != nil {
		return fmt.Errorf("history DEL %s: %w", s.key, err)
	}
	return nil
}
