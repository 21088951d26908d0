package domain

type SettlementMetadata struct {
	Position   string `json:"position"`
	Country    string `json:"country"`
	Type       string `json:"type"`
	Population string `json:"population"`
}

type SettlementLandmarkAction struct {
	APCost      *int   `json:"apCost,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImgSrc      string `json:"imgSrc,omitempty"`
}

type SettlementLandmark struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	ImgSrc      string                     `json:"imgSrc,omitempty"`
	Actions     []SettlementLandmarkAction `json:"actions,omitempty"`
}

// Settlement 是据点的描述数据，MapObjectID 关联地图对象。
type Settlement struct {
	MapObjectID string               `json:"mapObjectId,omitempty"`
	Name        string               `json:"name,omitempty"`
	SubName     string               `json:"subName,omitempty"`
	Description string               `json:"description"`
	ImgSrc      string               `json:"imgSrc,omitempty"`
	Metadata    SettlementMetadata   `json:"metadata"`
	Landmarks   []SettlementLandmark `json:"landmarks"`
}

// SettlementConnection 是据点的一条移动路线。
type SettlementConnection struct {
	Name    string `json:"name"`
	APCost  int    `json:"apCost"`
	ImgSrc  string `json:"imgSrc,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// SettlementView 是据点 + 推导出的名称与移动路线。
type SettlementView struct {
	Settlement
	Connections []SettlementConnection `json:"connections"`
}

// DeriveSettlements 用地图数据补全据点名称并推导移动路线。
//
// 关联到地图对象的据点：名称取对象 title/subtitle；非 minor 连线中
// 起点或终点引用该对象的，另一端（也必须是可解析的引用）成为一条路线。
func DeriveSettlements(settlements []Settlement, objects []MapObject, connections []MapConnection) []SettlementView {
	byID := make(map[string]*MapObject, len(objects))
	for i := range objects {
		if _, dup := byID[objects[i].ID]; !dup {
			byID[objects[i].ID] = &objects[i]
		}
	}
	major := make([]MapConnection, 0, len(connections))
	for _, c := range connections {
		if !c.IsMinor {
			major = append(major, c)
		}
	}

	out := make([]SettlementView, 0, len(settlements))
	for _, s := range settlements {
		view := SettlementView{Settlement: s, Connections: []SettlementConnection{}}
		if s.MapObjectID == "" {
			out = append(out, view)
			continue
		}
		obj, ok := byID[s.MapObjectID]
		if !ok {
			out = append(out, view)
			continue
		}
		view.Name = obj.Title
		view.SubName = obj.Subtitle
		for _, c := range major {
			other, ok := otherEnd(c, obj.ID)
			if !ok {
				continue
			}
			target, ok := byID[other]
			if !ok {
				continue
			}
			cost := 0
			if c.Cost != nil {
				cost = *c.Cost
			}
			view.Connections = append(view.Connections, SettlementConnection{Name: target.Title, APCost: cost})
		}
		out = append(out, view)
	}
	return out
}

// otherEnd 返回连线另一端的引用 id；起点优先匹配。
func otherEnd(c MapConnection, id string) (string, bool) {
	if start, ok := c.StartPoint.ID(); ok && start == id {
		return c.EndPoint.ID()
	}
	if end, ok := c.EndPoint.ID(); ok && end == id {
		return c.StartPoint.ID()
	}
	return "", false
}
