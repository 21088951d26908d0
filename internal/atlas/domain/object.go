package domain

import "math"

// Area 是对象在世界坐标中的包围盒，约定 start <= end（不强制）。
type Area struct {
	AreaStartX float64 `json:"areaStartX"`
	AreaStartY float64 `json:"areaStartY"`
	AreaEndX   float64 `json:"areaEndX"`
	AreaEndY   float64 `json:"areaEndY"`
}

func (a Area) Start() Point { return Point{X: a.AreaStartX, Y: a.AreaStartY} }
func (a Area) End() Point   { return Point{X: a.AreaEndX, Y: a.AreaEndY} }

// Center 是包围盒中心（逐轴向下取整）。
func (a Area) Center() Point {
	return Midpoint(a.Start(), a.End())
}

// Contains 判断世界坐标是否落在包围盒内（含边界）。
func (a Area) Contains(p Point) bool {
	minX, maxX := math.Min(a.AreaStartX, a.AreaEndX), math.Max(a.AreaStartX, a.AreaEndX)
	minY, maxY := math.Min(a.AreaStartY, a.AreaEndY), math.Max(a.AreaStartY, a.AreaEndY)
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

func (a Area) Inverted() bool {
	return a.AreaStartX > a.AreaEndX || a.AreaStartY > a.AreaEndY
}

// MapObject 是地图上带标签的区域或地标，加载后只读。
type MapObject struct {
	ID          string `json:"id"`
	Coord       Area   `json:"coord"`
	AnchorCoord *Point `json:"anchorCoord,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Level       int    `json:"level"`
	Importance  int    `json:"importance"`
}

// Anchor 返回世界坐标下的标签锚点：显式 anchorCoord 优先，否则取包围盒中心。
func (o MapObject) Anchor() Point {
	if o.AnchorCoord != nil {
		return *o.AnchorCoord
	}
	return o.Coord.Center()
}

// NormalizedObject 是补齐了显示几何信息的 MapObject。
type NormalizedObject struct {
	MapObject
	RectBounds Bounds `json:"rectBounds"`
	// AnchorXY 是世界坐标锚点，连线解析使用它。
	AnchorXY Point `json:"anchorXY"`
	// AnchorCoord 覆盖内嵌字段，是地图坐标下的锚点。
	AnchorCoord LatLng `json:"anchorCoord"`
}

// Normalize 计算 rectBounds 与锚点。坐标不是有限数时返回 ErrInvalidObject。
func Normalize(o MapObject) (NormalizedObject, error) {
	start, end := o.Coord.Start(), o.Coord.End()
	if !start.finite() || !end.finite() {
		return NormalizedObject{}, ErrInvalidObject.WithDataMap(map[string]any{
			"id":    o.ID,
			"title": o.Title,
			"field": "coord",
		})
	}
	anchor := o.Anchor()
	if !anchor.finite() {
		return NormalizedObject{}, ErrInvalidObject.WithDataMap(map[string]any{
			"id":    o.ID,
			"title": o.Title,
			"field": "anchorCoord",
		})
	}
	return NormalizedObject{
		MapObject:   o,
		RectBounds:  Bounds{start.MapCoord(), end.MapCoord()},
		AnchorXY:    anchor,
		AnchorCoord: anchor.MapCoord(),
	}, nil
}

// NormalizeFailure 记录批量转换中失败的对象。
type NormalizeFailure struct {
	Object MapObject
	Err    error
}

// NormalizeAll 逐个转换，单个失败不影响其余对象；输出保持输入顺序。
func NormalizeAll(objects []MapObject) ([]NormalizedObject, []NormalizeFailure) {
	out := make([]NormalizedObject, 0, len(objects))
	var failures []NormalizeFailure
	for _, o := range objects {
		n, err := Normalize(o)
		if err != nil {
			failures = append(failures, NormalizeFailure{Object: o, Err: err})
			continue
		}
		out = append(out, n)
	}
	return out, failures
}

// ObjectIndex 按 id 查找已转换对象，重复 id 以先出现者为准。
type ObjectIndex map[string]*NormalizedObject

func IndexObjects(objects []NormalizedObject) ObjectIndex {
	idx := make(ObjectIndex, len(objects))
	for i := range objects {
		id := objects[i].ID
		if id == "" {
			continue
		}
		if _, dup := idx[id]; dup {
			continue
		}
		idx[id] = &objects[i]
	}
	return idx
}

func (idx ObjectIndex) Anchor(id string) (Point, bool) {
	o, ok := idx[id]
	if !ok {
		return Point{}, false
	}
	return o.AnchorXY, true
}
