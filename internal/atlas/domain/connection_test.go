package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func fixtureIndex(t *testing.T) ObjectIndex {
	t.Helper()
	objs, failures := NormalizeAll([]MapObject{
		{ID: "A", Coord: Area{AreaStartX: 0, AreaStartY: 0, AreaEndX: 100, AreaEndY: 100}},
		{ID: "B", Coord: Area{AreaStartX: 200, AreaStartY: 0, AreaEndX: 300, AreaEndY: 100}},
		{ID: "C", Coord: Area{}, AnchorCoord: &Point{X: 7, Y: 9}},
	})
	if len(failures) != 0 {
		t.Fatalf("fixture failures=%v", failures)
	}
	return IndexObjects(objs)
}

func TestPointRef_解码为显式变体(t *testing.T) {
	var c MapConnection
	raw := `{"startPoint":"A","endPoint":[10,20],"points":["B",[1.5,-2]],"level":1,"cost":3}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal err=%v", err)
	}
	if id, ok := c.StartPoint.ID(); !ok || id != "A" {
		t.Fatalf("startPoint=%v", c.StartPoint)
	}
	if xy, ok := c.EndPoint.XY(); !ok || xy != (Point{10, 20}) {
		t.Fatalf("endPoint=%v", c.EndPoint)
	}
	if c.Points[0].Kind() != PointReference || c.Points[1].Kind() != PointLiteral {
		t.Fatalf("points kinds=%v,%v", c.Points[0].Kind(), c.Points[1].Kind())
	}
	if c.Cost == nil || *c.Cost != 3 {
		t.Fatalf("cost=%v", c.Cost)
	}

	back, err := json.Marshal(c.Points)
	if err != nil || string(back) != `["B",[1.5,-2]]` {
		t.Fatalf("marshal got=%s err=%v", back, err)
	}
}

func TestPointRef_非法输入(t *testing.T) {
	for _, raw := range []string{`12`, `[1]`, `[1,2,3]`, `{"x":1}`, `["a","b"]`} {
		var p PointRef
		err := json.Unmarshal([]byte(raw), &p)
		if err == nil {
			t.Fatalf("期望 %s 解码失败", raw)
		}
		if !errors.Is(err, ErrInvalidPoint) {
			t.Fatalf("期望 ErrInvalidPoint, raw=%s got=%v", raw, err)
		}
	}
}

func TestResolvePath_引用替换为锚点(t *testing.T) {
	idx := fixtureIndex(t)
	c := MapConnection{StartPoint: Reference("A"), EndPoint: Reference("B")}

	path, missing := ResolvePath(c, idx)
	want := Polyline{{50, 50}, {250, 50}}
	if len(path) != len(want) || path[0] != want[0] || path[1] != want[1] {
		t.Fatalf("path=%v want=%v", path, want)
	}
	if len(missing) != 0 {
		t.Fatalf("missing=%v", missing)
	}
}

func TestResolvePath_混合字面量与途经点(t *testing.T) {
	idx := fixtureIndex(t)
	c := MapConnection{
		StartPoint: Reference("C"),
		Points:     []PointRef{Literal(1, 2), Reference("A")},
		EndPoint:   Literal(-5, -6),
	}
	path, _ := ResolvePath(c, idx)
	want := Polyline{{7, 9}, {1, 2}, {50, 50}, {-5, -6}}
	if len(path) != 4 {
		t.Fatalf("path=%v", path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path[%d]=%v want=%v", i, path[i], want[i])
		}
	}
}

func TestResolvePath_找不到的引用被跳过(t *testing.T) {
	idx := fixtureIndex(t)
	c := MapConnection{StartPoint: Reference("A"), Points: []PointRef{Reference("ghost")}, EndPoint: Reference("B")}

	path, missing := ResolvePath(c, idx)
	if len(path) != 2 {
		t.Fatalf("期望长度减一为 2, got=%v", path)
	}
	if len(missing) != 1 || missing[0] != "ghost" {
		t.Fatalf("missing=%v", missing)
	}
}

func TestSpliceMidpoint_奇偶性(t *testing.T) {
	two := SpliceMidpoint(Polyline{{0, 0}, {5, 9}})
	if len(two) != 3 || two[1] != (Point{2, 4}) {
		t.Fatalf("两点路径应插入中点, got=%v", two)
	}

	three := Polyline{{0, 0}, {5, 9}, {10, 10}}
	if got := SpliceMidpoint(three); len(got) != 3 || got[1] != (Point{5, 9}) {
		t.Fatalf("三点路径应保持不变, got=%v", got)
	}

	four := SpliceMidpoint(Polyline{{0, 0}, {2, 2}, {5, 3}, {9, 9}})
	if len(four) != 5 || four[2] != (Point{3, 2}) || four[3] != (Point{5, 3}) {
		t.Fatalf("四点路径应在第 2、3 点之间插入, got=%v", four)
	}

	if got := SpliceMidpoint(nil); len(got) != 0 {
		t.Fatalf("空路径保持为空, got=%v", got)
	}
}

func TestResolve_有费用时计算曲线点与标签位置(t *testing.T) {
	idx := fixtureIndex(t)

	withCost := Resolve(MapConnection{StartPoint: Reference("A"), EndPoint: Reference("B"), Level: 2, Cost: intPtr(4)}, idx)
	if len(withCost.Path) != 2 || len(withCost.CurvePath) != 3 {
		t.Fatalf("path=%v curve=%v", withCost.Path, withCost.CurvePath)
	}
	p, ok := withCost.LabelPoint()
	if !ok || p != (Point{150, 50}) {
		t.Fatalf("label=%v ok=%v", p, ok)
	}

	noCost := Resolve(MapConnection{StartPoint: Reference("A"), EndPoint: Reference("B")}, idx)
	if len(noCost.CurvePath) != 2 || noCost.LabelIndex != -1 {
		t.Fatalf("无费用不应插点, curve=%v label=%d", noCost.CurvePath, noCost.LabelIndex)
	}
	if _, ok := noCost.LabelPoint(); ok {
		t.Fatalf("无费用不应有标签位置")
	}
}
