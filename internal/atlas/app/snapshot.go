package app

import (
	"context"
	"time"

	"WorldMap/internal/atlas/domain"

	"go.uber.org/zap"
)

// Snapshot 是一次加载得到的只读视图，发布后不再修改，更新时整体替换。
type Snapshot struct {
	Version     uint64
	LoadedAt    time.Time
	MapVersion  string
	Metadata    domain.MapMetadata
	Objects     []domain.NormalizedObject
	Connections []domain.ResolvedConnection
	// ObjectLayers / ConnectionLayers 按 level 升序。
	ObjectLayers     []domain.LevelGroup[domain.NormalizedObject]
	ConnectionLayers []domain.LevelGroup[domain.ResolvedConnection]
	Settlements      []domain.SettlementView
	Issues           []domain.Issue
	// Degraded 记录本次加载中失败但被容忍的部分，例如 "settlement"。
	Degraded []string

	index domain.ObjectIndex
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Objects:     []domain.NormalizedObject{},
		Connections: []domain.ResolvedConnection{},
		Settlements: []domain.SettlementView{},
		index:       domain.ObjectIndex{},
	}
}

// BuildSnapshot 从原始数据推导出完整快照；settlementInfo 可以为 nil。
// 单个对象转换失败、引用找不到都只记日志，不中断。
func BuildSnapshot(ctx context.Context, mapInfo *domain.MapInfo, settlementInfo *domain.SettlementInfo, log Logger) *Snapshot {
	s := emptySnapshot()
	if mapInfo == nil {
		return s
	}
	l := log.WithContext(ctx)

	s.MapVersion = mapInfo.Version
	s.Metadata = mapInfo.Data.Metadata

	objects, failures := domain.NormalizeAll(mapInfo.Data.MapObjects)
	for _, f := range failures {
		l.Error(f.Object.Title+" 转换失败",
			zap.String("id", f.Object.ID),
			zap.Int("level", f.Object.Level),
			zap.Error(f.Err),
		)
	}
	s.Objects = objects
	s.index = domain.IndexObjects(s.Objects)

	s.Connections = make([]domain.ResolvedConnection, 0, len(mapInfo.Data.MapConnections))
	for i, c := range mapInfo.Data.MapConnections {
		r := domain.Resolve(c, s.index)
		if len(r.Missing) != 0 {
			l.Warn("连线引用的地图对象不存在，已跳过",
				zap.Int("connection", i),
				zap.Strings("missing", r.Missing),
				zap.Int("points", len(r.Path)),
			)
		}
		s.Connections = append(s.Connections, r)
	}

	s.ObjectLayers = domain.GroupByLevel(s.Objects, domain.ObjectLevel)
	s.ConnectionLayers = domain.GroupByLevel(s.Connections, domain.ConnectionLevel)

	if settlementInfo != nil {
		s.Settlements = domain.DeriveSettlements(settlementInfo.Data.Settlements, mapInfo.Data.MapObjects, mapInfo.Data.MapConnections)
	}
	return s
}

// Object 按 id 查找。
func (s *Snapshot) Object(id string) (domain.NormalizedObject, bool) {
	o, ok := s.index[id]
	if !ok {
		return domain.NormalizedObject{}, false
	}
	return *o, true
}

// Settlement 按名称查找（名称已用地图对象标题补全）。
func (s *Snapshot) Settlement(name string) (domain.SettlementView, bool) {
	for _, v := range s.Settlements {
		if v.Name == name {
			return v, true
		}
	}
	return domain.SettlementView{}, false
}
