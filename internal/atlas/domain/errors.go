package domain

import "WorldMap/modules/kit/errx"

// Code 表示领域错误码。
//
// 约定：
// - 领域层只关心“是什么错”（code）和上下文（data）
// - cause 只用于溯源，不参与对外语义
type Code = errx.Code

const (
	CodeObjectNotFound     Code = "ATLAS_OBJECT_NOT_FOUND"
	CodeSettlementNotFound Code = "ATLAS_SETTLEMENT_NOT_FOUND"
	CodeInvalidPoint       Code = "ATLAS_INVALID_POINT"
	CodeInvalidObject      Code = "ATLAS_INVALID_OBJECT"
	CodeInvalidDataset     Code = "ATLAS_INVALID_DATASET"
	// CodeDatasetUnavailable 复用 kit 的系统码。
	CodeDatasetUnavailable Code = errx.CodeUnavailable
)

type Error = errx.Error

var (
	ErrObjectNotFound     = errx.NewBiz(CodeObjectNotFound, "")
	ErrSettlementNotFound = errx.NewBiz(CodeSettlementNotFound, "")
	ErrInvalidPoint       = errx.NewBiz(CodeInvalidPoint, "")
	ErrInvalidObject      = errx.NewBiz(CodeInvalidObject, "")
	ErrInvalidDataset     = errx.NewBiz(CodeInvalidDataset, "")
	ErrDatasetUnavailable = errx.ErrUnavailable
)
