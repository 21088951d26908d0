package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"WorldMap/internal/shared/logs"
	"WorldMap/internal/shared/serverconfig"
)

func TestRun_通知通道不可用时返回错误(t *testing.T) {
	if err := logs.Init("atlas-test", serverconfig.LogConfig{Level: "warn"}); err != nil {
		t.Fatalf("logs.Init: %v", err)
	}
	var conf serverconfig.Config
	conf.Atlas.Source = serverconfig.SourceSQLite
	conf.SQLite.Path = filepath.Join(t.TempDir(), "atlas.db")
	// 1 号端口没有 redis，Ping 会失败
	conf.Redis.Addr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := run(ctx, conf)
	if err == nil || !strings.Contains(err.Error(), "open reload bus") {
		t.Fatalf("期望 open reload bus 错误, got=%v", err)
	}
}
