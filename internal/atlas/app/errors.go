package app

import (
	"errors"

	"WorldMap/modules/kit/errx"
)

// Code 表示应用层错误码。
type Code = errx.Code

const (
	CodeDatasetRejected Code = "ATLAS_DATASET_REJECTED"
	// 复用 kit 的系统码
	CodeInternalServer Code = errx.CodeInternal
	CodeUnavailable    Code = errx.CodeUnavailable
)

type Error = errx.Error

// 哨兵错误：禁止直接修改 data/cause，通过 WithData/WithCause 派生。
var (
	ErrDatasetRejected = errx.NewBiz(CodeDatasetRejected, "地图数据校验未通过")
	ErrInvalidArgument = errx.ErrInvalidArgument
	ErrInternalServer  = errx.ErrInternal
	ErrUnavailable     = errx.ErrUnavailable
)

// GetErrorReasonCode 沿错误链取 reason。
func GetErrorReasonCode(err error) string {
	var rp interface{ Reason() string }
	if !errors.As(err, &rp) {
		return ""
	}
	return rp.Reason()
}

// IsBizError 判断是否为业务拒绝（不需要带栈打印）。
func IsBizError(err error) bool {
	var e *errx.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.IsBiz()
}
