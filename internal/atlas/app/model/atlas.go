package model

import (
	"time"

	"WorldMap/internal/atlas/domain"
)

// MapLayers 是按 level 分组后的地图图层。Zoom 为 nil 表示未按缩放过滤。
type MapLayers struct {
	Version     uint64
	MapVersion  string
	Zoom        *int
	Metadata    domain.MapMetadata
	Objects     []domain.LevelGroup[domain.NormalizedObject]
	Connections []domain.LevelGroup[domain.ResolvedConnection]
}

// LocateResult 是一次点击定位的结果。
type LocateResult struct {
	At    domain.LatLng `json:"at"`
	World domain.Point  `json:"world"`
	Hits  []domain.Hit  `json:"hits"`
}

// CoordResult 是世界坐标到地图坐标的换算结果。
type CoordResult struct {
	World domain.Point  `json:"world"`
	Map   domain.LatLng `json:"map"`
}

// SnapshotInfo 描述当前快照的概况，reload 接口与 ws 推送共用。
type SnapshotInfo struct {
	Version     uint64         `json:"version" mapstructure:"version"`
	MapVersion  string         `json:"mapVersion" mapstructure:"mapVersion"`
	LoadedAt    time.Time      `json:"loadedAt" mapstructure:"loadedAt"`
	Objects     int            `json:"objects" mapstructure:"objects"`
	Connections int            `json:"connections" mapstructure:"connections"`
	Settlements int            `json:"settlements" mapstructure:"settlements"`
	Issues      []domain.Issue `json:"issues" mapstructure:"issues"`
	Degraded    []string       `json:"degraded,omitempty" mapstructure:"degraded"`
}
