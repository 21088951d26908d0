package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"
)

// Store 从本地目录读取 map.json / settlement.json。
type Store struct {
	paths map[app.DatasetName]string
}

func NewStore(mapPath, settlementPath string) *Store {
	return &Store{paths: map[app.DatasetName]string{
		app.DatasetMap:        mapPath,
		app.DatasetSettlement: settlementPath,
	}}
}

// Paths 返回被读取的文件，供文件监听使用。
func (s *Store) Paths() []string {
	return []string{s.paths[app.DatasetMap], s.paths[app.DatasetSettlement]}
}

func (s *Store) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, source.Unavailable(name, err)
	}
	p, ok := s.paths[name]
	if !ok || p == "" {
		return nil, source.Unavailable(name, fmt.Errorf("no path configured for %q", name))
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, source.Unavailable(name, err)
	}
	return data, nil
}

// Publish 先写临时文件再 rename，读方不会看到写了一半的文件。
func (s *Store) Publish(ctx context.Context, name app.DatasetName, version string, payload []byte) error {
	p, ok := s.paths[name]
	if !ok || p == "" {
		return source.Unavailable(name, fmt.Errorf("no path configured for %q", name))
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return source.Unavailable(name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*")
	if err != nil {
		return source.Unavailable(name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return source.Unavailable(name, err)
	}
	if err = tmp.Close(); err != nil {
		return source.Unavailable(name, err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return source.Unavailable(name, err)
	}
	return nil
}
