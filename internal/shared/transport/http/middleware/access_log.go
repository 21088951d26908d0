package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"WorldMap/internal/shared/transport"
	"WorldMap/modules/kit/logx"
	"WorldMap/modules/kit/tracex"

	"github.com/gin-gonic/gin"
)

// TraceHeader 请求带上时沿用，响应总会带回。
const TraceHeader = "X-Trace-Id"

// jsonTap 只缓存 JSON 响应体，用来读出业务码。
type jsonTap struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *jsonTap) isJSON() bool {
	return strings.HasPrefix(w.Header().Get("Content-Type"), "application/json")
}

func (w *jsonTap) Write(p []byte) (int, error) {
	if w.isJSON() {
		w.buf.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

func (w *jsonTap) WriteString(s string) (int, error) {
	if w.isJSON() {
		w.buf.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条访问日志。
// 业务码取 JSON 响应的 code；文本响应按 HTTP 状态推断。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Request.Method + " " + routeOf(c)

		parent := c.Request.Context()
		if tid := c.GetHeader(TraceHeader); tracex.ValidID(tid) {
			parent = tracex.WithTraceID(parent, tid)
		}
		ctx := transport.NewContext(parent, "http", action)
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, tid)
		}

		tap := &jsonTap{ResponseWriter: c.Writer}
		if !c.IsWebsocket() {
			c.Writer = tap
		}

		c.Next()

		transport.SetBizCode(ctx, transport.BizCode(bizCodeOf(tap.buf.Bytes(), c.Writer.Status())))
		transport.WriteAccessLog(ctx, log)
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return c.Request.URL.Path
}

func bizCodeOf(body []byte, status int) int {
	var payload struct {
		Code *int `json:"code"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && payload.Code != nil {
		return *payload.Code
	}
	if status >= http.StatusBadRequest {
		return transport.SystemError
	}
	return transport.OK
}
