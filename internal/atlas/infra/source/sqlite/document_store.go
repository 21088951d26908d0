// Package sqlite 用单文件 SQLite 保存原始数据文档，适合单机部署。
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS atlas_document (
  name TEXT PRIMARY KEY,
  version TEXT NOT NULL DEFAULT '',
  payload TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type DocumentStore struct {
	db *sql.DB
}

// Open 打开（必要时创建）数据库文件并建表。
func Open(ctx context.Context, path string) (*DocumentStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// 单写者
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DocumentStore{db: db}, nil
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}

func (s *DocumentStore) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM atlas_document WHERE name = ?`, string(name)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, source.Unavailable(name, errors.New("document not published"))
	}
	if err != nil {
		return nil, source.Unavailable(name, err)
	}
	return []byte(payload), nil
}

func (s *DocumentStore) Publish(ctx context.Context, name app.DatasetName, version string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO atlas_document(name, version, payload, updated_at)
		 VALUES(?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   version=excluded.version,
		   payload=excluded.payload,
		   updated_at=CURRENT_TIMESTAMP`,
		string(name), version, string(payload),
	)
	if err != nil {
		return source.Unavailable(name, err)
	}
	return nil
}
