// Package catalog loads category record files from a data directory and
// feeds them to the search indexer.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cigarmaestro/searchd/internal/domain"
)

// Service reads catalog JSON files and triggers index rebuilds. Each
// source name maps to {dataDir}/{name}.json holding an array of records.
type Service struct {
	dataDir  string
	sources  []string
	optional []string
	indexer  Indexer
	logger   *zap.Logger
}

// New creates a catalog service. sources are required at load time,
// optional sources are skipped with a warning when missing or malformed.
func New(dataDir string, sources, optional []string, indexer Indexer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		dataDir:  dataDir,
		sources:  sources,
		optional: optional,
		indexer:  indexer,
		logger:   logger,
	}
}

// Load reads every configured source and rebuilds the index. A missing or
// malformed required source is an error and leaves the current index
// untouched.
func (s *Service) Load(ctx context.Context) error {
	data := make(map[string][]map[string]any, len(s.sources)+len(s.optional))

	for _, name := range s.sources {
		records, err := s.readSource(name)
		if err != nil {
			return fmt.Errorf("%w: source %q: %s", domain.ErrInvalidCatalog, name, err)
		}
		data[name] = records
	}

	for _, name := range s.optional {
		records, err := s.readSource(name)
		if err != nil {
			s.logger.Warn("skipping optional catalog source",
				zap.String("source", name),
				zap.Error(err),
			)
			continue
		}
		data[name] = records
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.indexer.BuildIndex(data)

	total := 0
	for _, records := range data {
		total += len(records)
	}
	s.logger.Info("catalog loaded",
		zap.Int("categories", len(data)),
		zap.Int("records", total),
	)
	return nil
}

// Refresh reloads the catalog every interval until ctx is canceled.
// Reload failures are logged and the previous index keeps serving.
func (s *Service) Refresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.logger.Error("catalog refresh failed", zap.Error(err))
			}
		}
	}
}

func (s *Service) readSource(name string) ([]map[string]any, error) {
	path := filepath.Join(s.dataDir, name+".json")
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
