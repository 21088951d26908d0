package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"
	"WorldMap/internal/atlas/infra/source/sqlite"
	"WorldMap/internal/shared/security"
)

const (
	sampleMap        = "../../data/map.json"
	sampleSettlement = "../../data/settlement.json"
)

func TestCoord_双向换算(t *testing.T) {
	var out bytes.Buffer
	if err := runCoord([]string{"10", "20"}, &out); err != nil {
		t.Fatalf("coord: %v", err)
	}
	if got := out.String(); got != "-340 330\n" {
		t.Fatalf("to map = %q", got)
	}

	out.Reset()
	if err := runCoord([]string{"--to-world", "--", "-340", "330"}, &out); err != nil {
		t.Fatalf("coord --to-world: %v", err)
	}
	if got := out.String(); got != "10 20\n" {
		t.Fatalf("to world = %q", got)
	}

	if err := runCoord([]string{"1"}, &out); err == nil {
		t.Fatalf("参数不足应报错")
	}
}

func TestNormalize_YAML输出(t *testing.T) {
	var out bytes.Buffer
	err := runNormalize([]string{"--map", sampleMap, "--settlement", sampleSettlement, "-f", "yaml"}, &out)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "mapVersion: 1.0.0") || !strings.Contains(s, "objects:") {
		t.Fatalf("unexpected yaml:\n%s", s)
	}
	if strings.Contains(s, "{") {
		t.Fatalf("应为块风格输出:\n%s", s)
	}
}

func TestNormalize_未知格式(t *testing.T) {
	err := runNormalize([]string{"--map", sampleMap, "--settlement", sampleSettlement, "-f", "xml"}, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidate_Strict有问题时失败(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.json")
	settlementPath := filepath.Join(dir, "settlement.json")
	writeFile(t, mapPath, `{"version":"1","data":{"metadata":{"width":1,"height":1},
"mapObjects":[{"id":"a","coord":{"areaStartX":0,"areaStartY":0,"areaEndX":2,"areaEndY":2},"title":"A","level":0,"importance":0}],
"mapConnections":[{"startPoint":"a","endPoint":"ghost","level":0}]}}`)
	writeFile(t, settlementPath, `{"version":"1","data":{"settlements":[]}}`)

	var out bytes.Buffer
	args := []string{"--map", mapPath, "--settlement", settlementPath}
	if err := runValidate(args, &out); err != nil {
		t.Fatalf("非 strict 不应失败: %v", err)
	}
	if !strings.Contains(out.String(), "unresolved_reference") {
		t.Fatalf("output = %q", out.String())
	}

	err := runValidate(append(args, "--strict"), &bytes.Buffer{})
	if !errors.Is(err, errIssuesFound) {
		t.Fatalf("err = %v, want errIssuesFound", err)
	}
}

func TestValidate_示例数据无问题(t *testing.T) {
	var out bytes.Buffer
	if err := runValidate([]string{"--map", sampleMap, "--settlement", sampleSettlement, "--strict"}, &out); err != nil {
		t.Fatalf("validate: %v\n%s", err, out.String())
	}
	if out.String() != "ok\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestBBCode_指定据点(t *testing.T) {
	var out bytes.Buffer
	if err := runBBCode([]string{"--map", sampleMap, "--settlement", sampleSettlement, "-n", "白石鎮"}, &out); err != nil {
		t.Fatalf("bbcode: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "白石鎮 Whitestone") || strings.Contains(s, "北境南岸") {
		t.Fatalf("unexpected bbcode: %s", s)
	}
}

func TestToken_签发管理员令牌(t *testing.T) {
	t.Setenv("JWT_SECRET", "atlasctl-test")
	var out bytes.Buffer
	if err := runToken([]string{"--uid", "7", "--ttl", "1h"}, &out); err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := security.ParseToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Uid != 7 || claims.Scope != security.ScopeAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestPublish_写入sqlite数据源(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "atlas.db")
	cfgPath := filepath.Join(dir, "conf.yml")
	writeFile(t, cfgPath, "atlas:\n  source: sqlite\nsqlite:\n  path: "+dbPath+"\n")

	var out bytes.Buffer
	err := runPublish([]string{"-c", cfgPath, "--map", sampleMap, "--settlement", sampleSettlement}, &out)
	if err != nil {
		t.Fatalf("publish: %v\n%s", err, out.String())
	}
	if strings.Count(out.String(), "published ") != 2 {
		t.Fatalf("output=%q", out.String())
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()
	svc := app.NewAtlasService(source.NewRepo(store), nil, app.Options{})
	snap, err := svc.Reload(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(snap.Objects) != 4 || len(snap.Settlements) != 2 {
		t.Fatalf("objects=%d settlements=%d", len(snap.Objects), len(snap.Settlements))
	}
}

func TestPublish_据点文件损坏时不发布(t *testing.T) {
	for _, bad := range []string{
		`{`,
		`{"version":"1","data":{"settlements":[{"mapObjectId":"whitestone","description":1}]}}`,
	} {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "atlas.db")
		cfgPath := filepath.Join(dir, "conf.yml")
		settlementPath := filepath.Join(dir, "settlement.json")
		writeFile(t, cfgPath, "atlas:\n  source: sqlite\nsqlite:\n  path: "+dbPath+"\n")
		writeFile(t, settlementPath, bad)

		var out bytes.Buffer
		err := runPublish([]string{"-c", cfgPath, "--map", sampleMap, "--settlement", settlementPath}, &out)
		if !errors.Is(err, app.ErrDatasetRejected) {
			t.Fatalf("settlement=%q 期望 ErrDatasetRejected, got=%v", bad, err)
		}
		if out.Len() != 0 {
			t.Fatalf("不应有发布输出, got=%q", out.String())
		}
		if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
			t.Fatalf("不应创建数据源, stat err=%v", err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
