package domain

type MapMetadata struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type MapData struct {
	Metadata       MapMetadata     `json:"metadata"`
	MapObjects     []MapObject     `json:"mapObjects"`
	MapConnections []MapConnection `json:"mapConnections"`
}

// MapInfo 对应 map.json。
type MapInfo struct {
	Version  string  `json:"version"`
	Data     MapData `json:"data"`
	// Rejected 是解码时跳过的记录
	Rejected []Issue `json:"-"`
}

type SettlementData struct {
	Settlements []Settlement `json:"settlements"`
}

// SettlementInfo 对应 settlement.json。
type SettlementInfo struct {
	Version  string         `json:"version"`
	Data     SettlementData `json:"data"`
	Rejected []Issue        `json:"-"`
}
