package app

import (
	"context"

	"WorldMap/internal/atlas/domain"
	"WorldMap/modules/kit/logx"
)

type Logger = logx.Logger

// DatasetRepo 提供 map.json 与 settlement.json 两份只读数据。
type DatasetRepo interface {
	LoadMapInfo(ctx context.Context) (*domain.MapInfo, error)
	LoadSettlementInfo(ctx context.Context) (*domain.SettlementInfo, error)
}

// DatasetName 是数据文档名。
type DatasetName string

const (
	DatasetMap        DatasetName = "map"
	DatasetSettlement DatasetName = "settlement"
)

// DatasetPublisher 把原始文档写入数据源（mongodb/mysql 使用）。
type DatasetPublisher interface {
	Publish(ctx context.Context, name DatasetName, version string, payload []byte) error
}
