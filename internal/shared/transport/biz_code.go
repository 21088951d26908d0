package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 响应体中的业务码，与 HTTP 状态码含义对齐。
const (
	OK              = 0
	InvalidParam    = 400
	Unauthorized    = 401
	NotFound        = 404
	DataRejected    = 422
	SystemError     = 500
	DataUnavailable = 503
)

// Response 是 HTTP/WS 统一响应信封。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func Success(data any) Response {
	return Response{Code: OK, Msg: "ok", Data: data}
}

func Fail(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}
