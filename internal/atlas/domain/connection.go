package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type PointKind uint8

const (
	// PointLiteral 是直接给出的世界坐标。
	PointLiteral PointKind = iota
	// PointReference 引用某个 MapObject 的锚点。
	PointReference
)

// PointRef 是连线端点/途经点：Literal(x,y) 或 Reference(id)，在解码时确定。
type PointRef struct {
	kind PointKind
	xy   Point
	id   string
}

func Literal(x, y float64) PointRef {
	return PointRef{kind: PointLiteral, xy: Point{X: x, Y: y}}
}

func Reference(id string) PointRef {
	return PointRef{kind: PointReference, id: id}
}

func (p PointRef) Kind() PointKind { return p.kind }

// ID 仅对 Reference 有意义。
func (p PointRef) ID() (string, bool) {
	return p.id, p.kind == PointReference
}

// XY 仅对 Literal 有意义。
func (p PointRef) XY() (Point, bool) {
	return p.xy, p.kind == PointLiteral
}

func (p PointRef) String() string {
	if p.kind == PointReference {
		return p.id
	}
	return fmt.Sprintf("[%v,%v]", p.xy.X, p.xy.Y)
}

func (p PointRef) MarshalJSON() ([]byte, error) {
	if p.kind == PointReference {
		return json.Marshal(p.id)
	}
	return json.Marshal([2]float64{p.xy.X, p.xy.Y})
}

func (p *PointRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidPoint.WithData("raw", "")
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return ErrInvalidPoint.WithData("raw", string(data)).WithCause(err)
		}
		*p = Reference(id)
		return nil
	case '[':
		var xy []float64
		if err := json.Unmarshal(data, &xy); err != nil {
			return ErrInvalidPoint.WithData("raw", string(data)).WithCause(err)
		}
		if len(xy) != 2 {
			return ErrInvalidPoint.WithDataMap(map[string]any{"raw": string(data), "len": len(xy)})
		}
		*p = Literal(xy[0], xy[1])
		return nil
	default:
		return ErrInvalidPoint.WithData("raw", string(data))
	}
}

// MapConnection 是两个地点之间的交通连线，可带 AP 消耗。
type MapConnection struct {
	StartPoint PointRef   `json:"startPoint"`
	EndPoint   PointRef   `json:"endPoint"`
	Points     []PointRef `json:"points,omitempty"`
	Level      int        `json:"level"`
	Cost       *int       `json:"cost,omitempty"`
	// IsMinor 的连线不参与据点移动列表。
	IsMinor bool `json:"isMinor,omitempty"`
}

// UnmarshalJSON 要求 startPoint 与 endPoint 都存在且非 null。
func (c *MapConnection) UnmarshalJSON(data []byte) error {
	type plain MapConnection
	var raw struct {
		plain
		StartPoint *PointRef `json:"startPoint"`
		EndPoint   *PointRef `json:"endPoint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.StartPoint == nil || raw.EndPoint == nil {
		return ErrInvalidPoint.WithData("raw", "missing startPoint or endPoint")
	}
	*c = MapConnection(raw.plain)
	c.StartPoint = *raw.StartPoint
	c.EndPoint = *raw.EndPoint
	return nil
}

// Sequence 返回 [start, ...points, end]。
func (c MapConnection) Sequence() []PointRef {
	seq := make([]PointRef, 0, len(c.Points)+2)
	seq = append(seq, c.StartPoint)
	seq = append(seq, c.Points...)
	return append(seq, c.EndPoint)
}

// AnchorLookup 按 id 查锚点（世界坐标）。
type AnchorLookup interface {
	Anchor(id string) (Point, bool)
}

// ResolvePath 把端点序列展开为折线，找不到的引用直接跳过，返回被跳过的 id。
func ResolvePath(c MapConnection, lookup AnchorLookup) (Polyline, []string) {
	seq := c.Sequence()
	path := make(Polyline, 0, len(seq))
	var missing []string
	for _, ref := range seq {
		if xy, ok := ref.XY(); ok {
			path = append(path, xy)
			continue
		}
		id, _ := ref.ID()
		anchor, ok := lookup.Anchor(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		path = append(path, anchor)
	}
	return path, missing
}

// SpliceMidpoint 在偶数长度折线的两个中间点之间插入向下取整的中点，
// 使费用标签有确定的位置；奇数长度原样返回。
func SpliceMidpoint(path Polyline) Polyline {
	n := len(path)
	if n < 2 || n%2 == 1 {
		return path
	}
	half := n / 2
	out := make(Polyline, 0, n+1)
	out = append(out, path[:half]...)
	out = append(out, Midpoint(path[half-1], path[half]))
	return append(out, path[half:]...)
}

// ResolvedConnection 是可直接渲染的连线。
type ResolvedConnection struct {
	Level   int  `json:"level"`
	Cost    *int `json:"cost,omitempty"`
	IsMinor bool `json:"isMinor,omitempty"`
	// Path 是解析后的折线。
	Path Polyline `json:"points"`
	// CurvePath 是曲线实际使用的点：有费用时可能插入了中点。
	CurvePath Polyline `json:"curvePoints"`
	// LabelIndex 是 CurvePath 中费用标签的位置，无费用时为 -1。
	LabelIndex int `json:"labelIndex"`

	Missing []string      `json:"-"`
	Source  MapConnection `json:"-"`
}

func (r ResolvedConnection) HasCost() bool { return r.Cost != nil }

// LabelPoint 返回费用标签位置。
func (r ResolvedConnection) LabelPoint() (Point, bool) {
	if r.LabelIndex < 0 || r.LabelIndex >= len(r.CurvePath) {
		return Point{}, false
	}
	return r.CurvePath[r.LabelIndex], true
}

// Resolve 展开连线并计算曲线点。
func Resolve(c MapConnection, lookup AnchorLookup) ResolvedConnection {
	path, missing := ResolvePath(c, lookup)
	r := ResolvedConnection{
		Level:      c.Level,
		Cost:       c.Cost,
		IsMinor:    c.IsMinor,
		Path:       path,
		CurvePath:  path,
		LabelIndex: -1,
		Missing:    missing,
		Source:     c,
	}
	if c.Cost != nil {
		r.CurvePath = SpliceMidpoint(path)
		if len(path) > 0 {
			r.LabelIndex = len(path) / 2
		}
	}
	return r
}
