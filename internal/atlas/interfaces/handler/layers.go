package handler

import (
	"strconv"

	"WorldMap/internal/atlas/app/model"
	"WorldMap/internal/atlas/domain"

	ordered "gitlab.com/c0b/go-ordered-json"
)

// levelBuckets 以 level 为 key 输出分组，保持数值升序（普通 map 会按字符串排序，"10" 排在 "2" 前面）。
func levelBuckets[T any](groups []domain.LevelGroup[T]) *ordered.OrderedMap {
	om := ordered.NewOrderedMap()
	for _, g := range groups {
		om.Set(strconv.Itoa(g.Level), g.Items)
	}
	return om
}

// MapLayersView 是 /api/map 与 ws 推送共用的输出结构。
func MapLayersView(l model.MapLayers) *ordered.OrderedMap {
	om := ordered.NewOrderedMap()
	om.Set("version", l.Version)
	om.Set("mapVersion", l.MapVersion)
	if l.Zoom != nil {
		om.Set("zoom", *l.Zoom)
	}
	om.Set("metadata", l.Metadata)
	om.Set("objects", levelBuckets(l.Objects))
	om.Set("connections", levelBuckets(l.Connections))
	return om
}
