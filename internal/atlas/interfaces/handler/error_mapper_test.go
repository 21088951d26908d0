package handler

import (
	"context"
	"errors"
	"testing"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
	"WorldMap/internal/shared/transport"
	"WorldMap/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleError_业务码映射(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"对象不存在", domain.ErrObjectNotFound.WithData("id", "x"), transport.NotFound},
		{"据点不存在", domain.ErrSettlementNotFound, transport.NotFound},
		{"参数错误", app.ErrInvalidArgument.WithData("reason", "坐标非法"), transport.InvalidParam},
		{"严格校验", app.ErrDatasetRejected.WithReason(app.ReasonStrictValidation), transport.DataRejected},
		{"数据源不可用", app.ErrUnavailable.WithReason(app.ReasonMapLoadFail).WithCause(errors.New("io")), transport.DataUnavailable},
		{"未知错误", errors.New("boom"), transport.SystemError},
	}
	for _, tc := range cases {
		code, msg := HandleError(context.Background(), logx.Nop(), "test", tc.err)
		if code != tc.code {
			t.Fatalf("%s: code=%d want=%d", tc.name, code, tc.code)
		}
		if msg == "" {
			t.Fatalf("%s: msg 不应为空", tc.name)
		}
	}
}

func TestHandleError_日志分级(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))
	ctx := transport.NewContext(context.Background(), "http", "GET /x")

	HandleError(ctx, l, "biz", domain.ErrObjectNotFound)
	HandleError(ctx, l, "sys", app.ErrUnavailable.WithReason(app.ReasonMapLoadFail).WithCause(errors.New("io")))

	entries := obs.All()
	if len(entries) != 2 {
		t.Fatalf("entries=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("levels=%v %v", entries[0].Level, entries[1].Level)
	}
	if al := transport.FromContext(ctx); al == nil || al.ErrorReason != app.ReasonMapLoadFail.Code {
		t.Fatalf("reason 应写入访问日志上下文, got=%+v", al)
	}
}
