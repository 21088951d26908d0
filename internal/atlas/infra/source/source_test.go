package source

import (
	"context"
	"errors"
	"testing"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
)

type memStore map[app.DatasetName]string

func (m memStore) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	s, ok := m[name]
	if !ok {
		return nil, Unavailable(name, errors.New("not found"))
	}
	return []byte(s), nil
}

func TestDecodeMapInfo_端点变体(t *testing.T) {
	m, err := DecodeMapInfo([]byte(`{"version":"1","data":{"metadata":{"width":1,"height":2},
		"mapObjects":[{"id":"a","coord":{"areaStartX":0,"areaStartY":0,"areaEndX":2,"areaEndY":2},"title":"A","level":0,"importance":0}],
		"mapConnections":[{"startPoint":"a","endPoint":[5,6],"level":1,"cost":2}]}}`))
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if len(m.Data.MapObjects) != 1 || len(m.Data.MapConnections) != 1 {
		t.Fatalf("got=%+v", m.Data)
	}
	c := m.Data.MapConnections[0]
	if id, ok := c.StartPoint.ID(); !ok || id != "a" {
		t.Fatalf("startPoint 应为引用, got=%v", c.StartPoint)
	}
	if xy, ok := c.EndPoint.XY(); !ok || xy != (domain.Point{X: 5, Y: 6}) {
		t.Fatalf("endPoint 应为字面量, got=%v", c.EndPoint)
	}
	if c.Cost == nil || *c.Cost != 2 {
		t.Fatalf("cost=%v", c.Cost)
	}
}

func TestDecodeMapInfo_缺省列表为空(t *testing.T) {
	m, err := DecodeMapInfo([]byte(`{"version":"1","data":{}}`))
	if err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if m.Data.MapObjects == nil || m.Data.MapConnections == nil {
		t.Fatalf("列表不应为 nil")
	}
}

func TestDecode_非法文档(t *testing.T) {
	cases := []string{``, `   `, `{`, `{"data":{"mapConnections":{}}}`, `{"data":{"metadata":[]}}`}
	for _, in := range cases {
		if _, err := DecodeMapInfo([]byte(in)); !errors.Is(err, domain.ErrInvalidDataset) {
			t.Fatalf("input=%q 期望 ErrInvalidDataset, got=%v", in, err)
		}
	}
	if _, err := DecodeSettlementInfo([]byte(`[]`)); !errors.Is(err, domain.ErrInvalidDataset) {
		t.Fatalf("期望 ErrInvalidDataset, got=%v", err)
	}
}

func TestDecodeMapInfo_跳过坏记录(t *testing.T) {
	m, err := DecodeMapInfo([]byte(`{"version":"1","data":{
		"mapObjects":[
			{"id":"a","coord":{"areaStartX":0,"areaStartY":0,"areaEndX":2,"areaEndY":2},"title":"A","level":0,"importance":0},
			null,
			{"id":"b","coord":{"areaStartX":0,"areaStartY":0,"areaEndX":2,"areaEndY":2},"title":"B","level":1.5,"importance":0}
		],
		"mapConnections":[
			{"startPoint":"a","endPoint":[1,2,3],"level":1},
			{"startPoint":"a","endPoint":[5,6],"level":1},
			{"startPoint":null,"endPoint":"a","level":1},
			{"startPoint":12,"endPoint":"a","level":1},
			{"startPoint":{},"endPoint":"a","level":1},
			{"endPoint":"a","level":1},
			{"startPoint":"a","endPoint":[0,0],"level":2.5},
			null
		]}}`))
	if err != nil {
		t.Fatalf("单条坏记录不应导致整体失败, err=%v", err)
	}
	if len(m.Data.MapObjects) != 1 || m.Data.MapObjects[0].ID != "a" {
		t.Fatalf("objects=%+v", m.Data.MapObjects)
	}
	if len(m.Data.MapConnections) != 1 {
		t.Fatalf("connections=%+v", m.Data.MapConnections)
	}
	if xy, ok := m.Data.MapConnections[0].EndPoint.XY(); !ok || xy != (domain.Point{X: 5, Y: 6}) {
		t.Fatalf("保留的连线不对, got=%v", m.Data.MapConnections[0].EndPoint)
	}

	want := []string{
		"mapObjects[1]", "mapObjects[2]",
		"mapConnections[0]", "mapConnections[2]", "mapConnections[3]", "mapConnections[4]",
		"mapConnections[5]", "mapConnections[6]", "mapConnections[7]",
	}
	if len(m.Rejected) != len(want) {
		t.Fatalf("rejected=%v", m.Rejected)
	}
	for i, is := range m.Rejected {
		if is.Kind != domain.IssueMalformedEntry || is.Subject != want[i] || is.Detail == "" {
			t.Fatalf("rejected[%d]=%+v, want subject=%s", i, is, want[i])
		}
	}
	// 跳过的记录同样出现在校验结果里
	if issues := domain.Validate(*m); len(issues) < len(want) || issues[0].Subject != "mapObjects[1]" {
		t.Fatalf("issues=%v", issues)
	}
}

func TestDecodeSettlementInfo_跳过坏记录(t *testing.T) {
	s, err := DecodeSettlementInfo([]byte(`{"version":"1","data":{"settlements":[
		{"name":"x","description":1},
		{"name":"y","description":"d","metadata":{},"landmarks":[]},
		null]}}`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(s.Data.Settlements) != 1 || s.Data.Settlements[0].Name != "y" {
		t.Fatalf("settlements=%+v", s.Data.Settlements)
	}
	if len(s.Rejected) != 2 || s.Rejected[0].Subject != "settlements[0]" || s.Rejected[1].Subject != "settlements[2]" {
		t.Fatalf("rejected=%v", s.Rejected)
	}
}

func TestRepo_通过存储加载(t *testing.T) {
	r := NewRepo(memStore{
		app.DatasetMap:        `{"version":"2","data":{"mapObjects":[],"mapConnections":[]}}`,
		app.DatasetSettlement: `{"version":"3","data":{"settlements":[{"name":"x","description":"d","metadata":{},"landmarks":[]}]}}`,
	})
	m, err := r.LoadMapInfo(context.Background())
	if err != nil || m.Version != "2" {
		t.Fatalf("map=%+v err=%v", m, err)
	}
	s, err := r.LoadSettlementInfo(context.Background())
	if err != nil || len(s.Data.Settlements) != 1 {
		t.Fatalf("settlement=%+v err=%v", s, err)
	}

	_, err = NewRepo(memStore{}).LoadMapInfo(context.Background())
	if !errors.Is(err, domain.ErrDatasetUnavailable) {
		t.Fatalf("期望 ErrDatasetUnavailable, got=%v", err)
	}
}
