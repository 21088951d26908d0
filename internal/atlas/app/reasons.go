package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	// 数据加载相关的技术 reason，用于日志与排障。
	ReasonMapLoadFail        = NewReason("MAP_LOAD_FAIL", "地图数据加载失败")
	ReasonSettlementLoadFail = NewReason("SETTLEMENT_LOAD_FAIL", "据点数据加载失败")
	ReasonStrictValidation   = NewReason("STRICT_VALIDATION", "严格校验模式下存在数据问题")
	ReasonRenderFail         = NewReason("BBCODE_RENDER_FAIL", "BBCode 渲染失败")
)
