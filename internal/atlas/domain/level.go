package domain

import "sort"

// VisibleZoomSpan：level=L 的图层在 zoom ∈ [L, L+VisibleZoomSpan] 时显示。
const VisibleZoomSpan = 2

// Visible 判断某个 level 在当前 zoom 下是否显示。
func Visible(level, zoom int) bool {
	return zoom >= level && zoom <= level+VisibleZoomSpan
}

// LevelGroup 是同一 level 的条目，保持插入顺序。
type LevelGroup[T any] struct {
	Level int `json:"level"`
	Items []T `json:"items"`
}

// GroupByLevel 按 level 分桶，桶按 level 数值升序排列。
func GroupByLevel[T any](items []T, levelOf func(T) int) []LevelGroup[T] {
	pos := make(map[int]int)
	var groups []LevelGroup[T]
	for _, it := range items {
		lv := levelOf(it)
		i, ok := pos[lv]
		if !ok {
			i = len(groups)
			pos[lv] = i
			groups = append(groups, LevelGroup[T]{Level: lv})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Level < groups[b].Level
	})
	return groups
}

// VisibleGroups 过滤出当前 zoom 下可见的分组。
func VisibleGroups[T any](groups []LevelGroup[T], zoom int) []LevelGroup[T] {
	out := make([]LevelGroup[T], 0, len(groups))
	for _, g := range groups {
		if Visible(g.Level, zoom) {
			out = append(out, g)
		}
	}
	return out
}

func ObjectLevel(o NormalizedObject) int       { return o.Level }
func ConnectionLevel(c ResolvedConnection) int { return c.Level }
