package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 只放系统/技术类错误码，便于告警与排障
// - 业务域错误码（例如 ATLAS_OBJECT_NOT_FOUND）由各业务自行定义
const (
	// CodeInternal 表示服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（数据源/DB/文件系统等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeInvalidArgument 表示请求参数错误。
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// 系统类哨兵错误，通过 WithData/WithCause 派生新对象，不要直接修改。
var (
	ErrInternal        = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable     = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout         = NewSys(CodeTimeout, "请求超时")
	ErrInvalidArgument = NewBiz(CodeInvalidArgument, "请求参数错误")
)
