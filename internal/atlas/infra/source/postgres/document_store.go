// Package postgres 把数据文档存为 jsonb，通过 pgx 连接池访问。
package postgres

import (
	"context"
	"errors"
	"fmt"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"
	"WorldMap/internal/shared/serverconfig"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS atlas_document (
  name       TEXT PRIMARY KEY,
  version    TEXT NOT NULL DEFAULT '',
  payload    JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	selectPayload = `SELECT payload::text FROM atlas_document WHERE name = $1`
	upsertPayload = `INSERT INTO atlas_document (name, version, payload, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (name) DO UPDATE SET version = EXCLUDED.version, payload = EXCLUDED.payload, updated_at = now()`
)

// querier 是 *pgxpool.Pool 中用到的部分。
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type DocumentStore struct {
	q querier
}

func NewDocumentStore(q querier) *DocumentStore {
	return &DocumentStore{q: q}
}

// Open 建连接池、ping 并建表，调用方负责 pool.Close。
func Open(ctx context.Context, cfg serverconfig.PostgresConfig) (*DocumentStore, *pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, nil, errors.New("postgres dsn is empty")
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConn > 0 {
		pc.MaxConns = cfg.MaxConn
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	s := NewDocumentStore(pool)
	if err = s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return s, pool, nil
}

func (s *DocumentStore) Migrate(ctx context.Context) error {
	_, err := s.q.Exec(ctx, schema)
	return err
}

func (s *DocumentStore) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	var payload string
	err := s.q.QueryRow(ctx, selectPayload, string(name)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, source.Unavailable(name, errors.New("document not published"))
	}
	if err != nil {
		return nil, source.Unavailable(name, err)
	}
	return []byte(payload), nil
}

func (s *DocumentStore) Publish(ctx context.Context, name app.DatasetName, version string, payload []byte) error {
	if _, err := s.q.Exec(ctx, upsertPayload, string(name), version, string(payload)); err != nil {
		return source.Unavailable(name, err)
	}
	return nil
}
