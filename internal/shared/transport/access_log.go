package transport

import (
	"context"
	"time"

	"WorldMap/modules/kit/logx"
	"WorldMap/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 记录一次 HTTP 请求或 WS 消息的处理结果，结束时写一条日志。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	// DataVersion 是响应所用的地图快照版本，0 表示未读取快照。
	DataVersion uint64

	action string
	start  time.Time
}

type accessLogKey struct{}

// NewContext 挂上 AccessLog 并确保有 trace_id，span 标识入口（http / ws）。
func NewContext(parent context.Context, span, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx := tracex.EnsureTraceID(parent)
	if span != "" {
		ctx = tracex.WithSpanID(ctx, span)
	}
	if action == "" {
		action = "unknown"
	}
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		BizCode: SystemError,
		action:  action,
		start:   time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.ErrorReason = reason
	}
}

func SetDataVersion(ctx context.Context, v uint64) {
	if al := FromContext(ctx); al != nil {
		al.DataVersion = v
	}
}

// WriteAccessLog 按业务码决定级别输出，见 logx.ReportAccess。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}

	result := "success"
	if al.BizCode != OK {
		result = "failure"
	}
	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.start)),
		zap.String("result", result),
	}
	if al.DataVersion != 0 {
		fields = append(fields, zap.Uint64("data_version", al.DataVersion))
	}
	if al.BizCode != OK && al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	logx.ReportAccess(ctx, log, al.action, int(al.BizCode), fields...)
}
