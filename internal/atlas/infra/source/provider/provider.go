// Package provider 按配置选择数据源。
package provider

import (
	"context"
	"fmt"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"
	"WorldMap/internal/atlas/infra/source/file"
	"WorldMap/internal/atlas/infra/source/mongodb"
	"WorldMap/internal/atlas/infra/source/mysql"
	"WorldMap/internal/atlas/infra/source/postgres"
	"WorldMap/internal/atlas/infra/source/sqlite"
	"WorldMap/internal/shared/infrastructure/db"
	"WorldMap/internal/shared/infrastructure/mongo"
	"WorldMap/internal/shared/logs"
	"WorldMap/internal/shared/serverconfig"

	"go.uber.org/zap"
)

type Dataset struct {
	Repo      app.DatasetRepo
	Publisher app.DatasetPublisher
	// WatchPaths 只有 file 数据源非空。
	WatchPaths []string
	closeFn    func(ctx context.Context) error
}

func (d *Dataset) Close(ctx context.Context) error {
	if d == nil || d.closeFn == nil {
		return nil
	}
	return d.closeFn(ctx)
}

func Open(ctx context.Context, cfg serverconfig.Config) (*Dataset, error) {
	switch cfg.Atlas.Source {
	case "", serverconfig.SourceFile:
		store := file.NewStore(cfg.Atlas.MapFile, cfg.Atlas.SettlementFile)
		return &Dataset{
			Repo:       source.NewRepo(store),
			Publisher:  store,
			WatchPaths: store.Paths(),
		}, nil

	case serverconfig.SourceMongoDB:
		client, database, err := mongo.Open(ctx, cfg.MongoDB, logs.Logger())
		if err != nil {
			return nil, fmt.Errorf("open mongodb: %w", err)
		}
		store := mongodb.NewDocumentStore(database)
		return &Dataset{
			Repo:      source.NewRepo(store),
			Publisher: store,
			closeFn:   client.Disconnect,
		}, nil

	case serverconfig.SourceMySQL:
		gormDB, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		store := mysql.NewDocumentStore(gormDB)
		if err = store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate atlas_document: %w", err)
		}
		return &Dataset{
			Repo:      source.NewRepo(store),
			Publisher: store,
			closeFn: func(context.Context) error {
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case serverconfig.SourcePostgres:
		store, pool, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return &Dataset{
			Repo:      source.NewRepo(store),
			Publisher: store,
			closeFn: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case serverconfig.SourceSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Dataset{
			Repo:      source.NewRepo(store),
			Publisher: store,
			closeFn: func(context.Context) error {
				return store.Close()
			},
		}, nil

	default:
		logs.Error("unknown atlas source", zap.String("source", cfg.Atlas.Source))
		return nil, fmt.Errorf("unknown atlas source %q", cfg.Atlas.Source)
	}
}
