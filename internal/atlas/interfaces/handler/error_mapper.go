package handler

import (
	"context"
	"errors"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
	"WorldMap/internal/shared/transport"
	"WorldMap/modules/kit/errx"
	"WorldMap/modules/kit/logx"
)

func mapBizErrToClientCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrObjectNotFound), errors.Is(err, domain.ErrSettlementNotFound):
		return transport.NotFound
	case errors.Is(err, app.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidPoint):
		return transport.InvalidParam
	case errors.Is(err, app.ErrDatasetRejected), errors.Is(err, domain.ErrInvalidDataset):
		return transport.DataRejected
	default:
		return transport.InvalidParam
	}
}

func mapTechErrToClientCode(err error) int {
	switch {
	case errors.Is(err, app.ErrUnavailable):
		return transport.DataUnavailable
	default:
		return transport.SystemError
	}
}

func bizMessage(err error, code int) string {
	var e *errx.Error
	if errors.As(err, &e) && e.Msg() != "" {
		return e.Msg()
	}
	switch code {
	case transport.NotFound:
		return "不存在"
	case transport.DataRejected:
		return "数据校验未通过"
	default:
		return "参数有误"
	}
}

// HandleError 把错误转换成业务码与对外文案，并在接口层统一打印一次日志。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string) {
	reason := app.GetErrorReasonCode(err)
	if reason != "" {
		transport.SetErrorReason(ctx, reason)
	}

	if app.IsBizError(err) {
		code := mapBizErrToClientCode(err)
		msg := bizMessage(err, code)
		logx.ReportBiz(ctx, log, logx.NewBizLog(action, reason, err.Error()))
		return code, msg
	}

	logx.ReportSysError(ctx, log, logx.NewSysLog(action, err))
	code := mapTechErrToClientCode(err)
	if code == transport.DataUnavailable {
		return code, "地图数据暂不可用"
	}
	return code, "系统繁忙，请稍后重试"
}
