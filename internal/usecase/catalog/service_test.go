package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/cigarmaestro/searchd/internal/domain"
)

// --- Mocks ---

type mockIndexer struct {
	calls int
	data  map[string][]map[string]any
}

func (m *mockIndexer) BuildIndex(data map[string][]map[string]any) {
	m.calls++
	m.data = data
}

// --- Helpers ---

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
}

// --- Tests ---

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "cigars", `[{"name": "Cohiba Behike", "wrapper": "Maduro"}]`)
	writeSource(t, dir, "pairings", `[{"spirit": "Rum"}, {"spirit": "Whisky"}]`)

	idx := &mockIndexer{}
	svc := New(dir, []string{"cigars"}, []string{"pairings"}, idx, zap.NewNop())

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.calls != 1 {
		t.Fatalf("expected 1 rebuild, got %d", idx.calls)
	}
	if len(idx.data["cigars"]) != 1 || len(idx.data["pairings"]) != 2 {
		t.Errorf("unexpected data: %+v", idx.data)
	}
}

func TestLoad_MissingRequiredSource(t *testing.T) {
	idx := &mockIndexer{}
	svc := New(t.TempDir(), []string{"cigars"}, nil, idx, zap.NewNop())

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing required source")
	}
	if idx.calls != 0 {
		t.Errorf("index must not rebuild on failure, got %d calls", idx.calls)
	}
}

func TestLoad_MalformedRequiredSource(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "cigars", `{"not": "an array"}`)

	svc := New(dir, []string{"cigars"}, nil, &mockIndexer{}, zap.NewNop())
	err := svc.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed required source")
	}
	if !errors.Is(err, domain.ErrInvalidCatalog) {
		t.Errorf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestLoad_SkipsBrokenOptionalSource(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "cigars", `[{"name": "Padron 1964"}]`)
	writeSource(t, dir, "education", `not json`)

	idx := &mockIndexer{}
	svc := New(dir, []string{"cigars"}, []string{"education", "pairings"}, idx, zap.NewNop())

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.calls != 1 {
		t.Fatalf("expected 1 rebuild, got %d", idx.calls)
	}
	if _, ok := idx.data["education"]; ok {
		t.Error("malformed optional source must be skipped")
	}
	if _, ok := idx.data["pairings"]; ok {
		t.Error("missing optional source must be skipped")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "cigars", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := &mockIndexer{}
	svc := New(dir, []string{"cigars"}, nil, idx, zap.NewNop())
	if err := svc.Load(ctx); err == nil {
		t.Fatal("expected context error")
	}
	if idx.calls != 0 {
		t.Errorf("index must not rebuild after cancellation, got %d calls", idx.calls)
	}
}
