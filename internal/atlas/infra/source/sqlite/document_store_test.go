package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
	"WorldMap/internal/atlas/infra/source"
)

func openTemp(t *testing.T) *DocumentStore {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "atlas.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDocumentStore_未发布时不可用(t *testing.T) {
	s := openTemp(t)
	_, err := s.Fetch(context.Background(), app.DatasetMap)
	if !errors.Is(err, domain.ErrDatasetUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestDocumentStore_发布后覆盖(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	if err := s.Publish(ctx, app.DatasetMap, "1", []byte(`{"version":"1","data":{}}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := s.Publish(ctx, app.DatasetMap, "2", []byte(`{"version":"2","data":{}}`)); err != nil {
		t.Fatalf("Publish again: %v", err)
	}

	m, err := source.NewRepo(s).LoadMapInfo(ctx)
	if err != nil {
		t.Fatalf("LoadMapInfo: %v", err)
	}
	if m.Version != "2" {
		t.Fatalf("version=%q", m.Version)
	}
}

func TestOpen_路径为空(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
}
