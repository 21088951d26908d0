package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Name    string        `mapstructure:"name"`
	Timeout time.Duration `mapstructure:"timeout"`
	Tags    []string      `mapstructure:"tags"`
}

func TestRead_解码钩子(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "conf.yml")
	body := "name: atlas\ntimeout: 1500ms\ntags: a,b,c\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var s sample
	if err := Read(p, &s); err != nil {
		t.Fatalf("Read err=%v", err)
	}
	if s.Name != "atlas" || s.Timeout != 1500*time.Millisecond {
		t.Fatalf("got=%+v", s)
	}
	if len(s.Tags) != 3 || s.Tags[2] != "c" {
		t.Fatalf("tags=%v", s.Tags)
	}
}

func TestRead_文件不存在(t *testing.T) {
	var s sample
	if err := Read(filepath.Join(t.TempDir(), "nope.yml"), &s); err == nil {
		t.Fatalf("期望返回错误")
	}
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := filepath.Join(root, "configs", "conf.yml")
	if err := os.WriteFile(want, []byte("name: x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deep := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got := findConfigUpward(deep, defaultConfigRelPath); got != want {
		t.Fatalf("got=%s want=%s", got, want)
	}
}
