package mongo

import (
	"context"
	"errors"
	"net/url"
	"time"

	"WorldMap/internal/shared/serverconfig"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const appName = "worldmap"

var (
	ErrEmptyURI      = errors.New("mongodb uri is empty")
	ErrEmptyDatabase = errors.New("mongodb database is empty")
)

// Open 连接并 ping，返回 client 与配置中的 database。
func Open(ctx context.Context, cfg serverconfig.MongoDBConfig, l *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, ErrEmptyURI
	}
	if cfg.Database == "" {
		return nil, nil, ErrEmptyDatabase
	}
	if l == nil {
		l = zap.NewNop()
	}

	timeout := time.Duration(cfg.ConnectTimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err = client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	l.Info("open mongodb success",
		zap.String("uri", redactURI(cfg.URI)),
		zap.String("database", cfg.Database),
	)
	return client, client.Database(cfg.Database), nil
}

// redactURI 去掉连接串里的密码再打日志。
func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}
