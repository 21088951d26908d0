package domain

// Hit 是一次点击命中的对象，直接携带 id，不再从渲染句柄上反推。
type Hit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Locate 把地图坐标换算为世界坐标，并返回包围盒包含该点的对象（按输入顺序）。
func Locate(objects []NormalizedObject, at LatLng) (Point, []Hit) {
	world := FromMapCoordFloor(at)
	hits := []Hit{}
	for _, o := range objects {
		if o.Coord.Contains(world) {
			hits = append(hits, Hit{ID: o.ID, Title: o.Title, Level: o.Level})
		}
	}
	return world, hits
}
