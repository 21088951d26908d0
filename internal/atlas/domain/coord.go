package domain

import (
	"encoding/json"
	"math"
)

// MapOffset 是瓦片尺寸，也是世界原点相对 CRS 原点的偏移。
const MapOffset = 320

// Point 是世界坐标（游戏内像素）。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LatLng 是地图显示坐标，序列化为 [lat, lng]。
type LatLng [2]float64

func (p LatLng) Lat() float64 { return p[0] }
func (p LatLng) Lng() float64 { return p[1] }

// Bounds 是矩形的两个对角（起点、终点）。
type Bounds [2]LatLng

// ToMapCoord 世界坐标 -> 地图坐标：(-y - 320, x + 320)。
func ToMapCoord(x, y float64) LatLng {
	return LatLng{-y - MapOffset, x + MapOffset}
}

// FromMapCoord 是 ToMapCoord 的逆变换。
func FromMapCoord(p LatLng) Point {
	return Point{X: p.Lng() - MapOffset, Y: -p.Lat() - MapOffset}
}

// FromMapCoordFloor 把点击位置换算为整数世界坐标。
func FromMapCoordFloor(p LatLng) Point {
	w := FromMapCoord(p)
	return Point{X: math.Floor(w.X), Y: math.Floor(w.Y)}
}

func (p Point) MapCoord() LatLng {
	return ToMapCoord(p.X, p.Y)
}

// Midpoint 逐轴取平均后向下取整。
func Midpoint(a, b Point) Point {
	return Point{
		X: math.Floor((a.X + b.X) / 2),
		Y: math.Floor((a.Y + b.Y) / 2),
	}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Polyline 序列化为 [[x,y],...]，与曲线渲染端的数据格式一致。
type Polyline []Point

func (l Polyline) MarshalJSON() ([]byte, error) {
	out := make([][2]float64, len(l))
	for i, p := range l {
		out[i] = [2]float64{p.X, p.Y}
	}
	return json.Marshal(out)
}

func (l *Polyline) UnmarshalJSON(data []byte) error {
	var raw [][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Polyline, len(raw))
	for i, p := range raw {
		out[i] = Point{X: p[0], Y: p[1]}
	}
	*l = out
	return nil
}
