package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"WorldMap/internal/shared/serverconfig"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent(`{"origin":"h/1","mapVersion":"1.2.0","datasets":["map","settlement"],"at":"2026-01-02T03:04:05Z"}`)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.Origin != "h/1" || ev.MapVersion != "1.2.0" || len(ev.Datasets) != 2 {
		t.Fatalf("ev=%+v", ev)
	}
	if !ev.At.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("at=%v", ev.At)
	}

	for _, bad := range []string{"", "not json", `{"mapVersion":"1"}`} {
		if _, err := DecodeEvent(bad); err == nil {
			t.Fatalf("%q 应解析失败", bad)
		}
	}
}

func TestOrigin(t *testing.T) {
	if o := Origin(); !strings.Contains(o, "/") {
		t.Fatalf("origin=%q", o)
	}
}

func TestOpen_未配置地址(t *testing.T) {
	if _, err := Open(context.Background(), serverconfig.RedisConfig{}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
