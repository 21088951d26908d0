package domain

import "testing"

func TestDeriveSettlements_名称与移动路线(t *testing.T) {
	objects := []MapObject{
		{ID: "town", Title: "白石镇", Subtitle: "Whitestone"},
		{ID: "port", Title: "港口"},
		{ID: "fort", Title: "要塞"},
	}
	connections := []MapConnection{
		{StartPoint: Reference("town"), EndPoint: Reference("port"), Cost: intPtr(3)},
		{StartPoint: Reference("fort"), EndPoint: Reference("town")},
		{StartPoint: Reference("town"), EndPoint: Reference("fort"), IsMinor: true, Cost: intPtr(1)},
		{StartPoint: Reference("town"), EndPoint: Literal(1, 1)},
		{StartPoint: Reference("town"), EndPoint: Reference("ghost")},
	}
	settlements := []Settlement{
		{MapObjectID: "town", Name: "旧名", Description: "d"},
		{Name: "无关联", SubName: "sub"},
		{MapObjectID: "missing", Name: "找不到"},
	}

	views := DeriveSettlements(settlements, objects, connections)
	if len(views) != 3 {
		t.Fatalf("len=%d", len(views))
	}

	town := views[0]
	if town.Name != "白石镇" || town.SubName != "Whitestone" {
		t.Fatalf("期望使用地图对象名称, got=%q %q", town.Name, town.SubName)
	}
	if len(town.Connections) != 2 {
		t.Fatalf("期望 2 条路线（跳过 minor/字面量/找不到）, got=%v", town.Connections)
	}
	if town.Connections[0] != (SettlementConnection{Name: "港口", APCost: 3}) {
		t.Fatalf("connections[0]=%v", town.Connections[0])
	}
	if town.Connections[1] != (SettlementConnection{Name: "要塞", APCost: 0}) {
		t.Fatalf("connections[1]=%v", town.Connections[1])
	}

	if views[1].Name != "无关联" || views[1].SubName != "sub" || len(views[1].Connections) != 0 {
		t.Fatalf("未关联据点应保持原样, got=%+v", views[1])
	}
	if views[2].Name != "找不到" {
		t.Fatalf("关联对象不存在时保持原名, got=%q", views[2].Name)
	}
}
