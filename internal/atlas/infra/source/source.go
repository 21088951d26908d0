// Package source 把不同存储中的原始 JSON 文档解码为地图数据。
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
)

// DocumentStore 按文档名取出原始 JSON（map / settlement）。
type DocumentStore interface {
	Fetch(ctx context.Context, name app.DatasetName) ([]byte, error)
}

// Repo 在 DocumentStore 之上实现 app.DatasetRepo。
type Repo struct {
	store DocumentStore
}

func NewRepo(store DocumentStore) *Repo {
	return &Repo{store: store}
}

func (r *Repo) LoadMapInfo(ctx context.Context) (*domain.MapInfo, error) {
	data, err := r.store.Fetch(ctx, app.DatasetMap)
	if err != nil {
		return nil, err
	}
	return DecodeMapInfo(data)
}

func (r *Repo) LoadSettlementInfo(ctx context.Context) (*domain.SettlementInfo, error) {
	data, err := r.store.Fetch(ctx, app.DatasetSettlement)
	if err != nil {
		return nil, err
	}
	return DecodeSettlementInfo(data)
}

// rawMapInfo 只解码外层结构，列表逐条解码。
type rawMapInfo struct {
	Version string `json:"version"`
	Data    struct {
		Metadata       domain.MapMetadata `json:"metadata"`
		MapObjects     []json.RawMessage  `json:"mapObjects"`
		MapConnections []json.RawMessage  `json:"mapConnections"`
	} `json:"data"`
}

type rawSettlementInfo struct {
	Version string `json:"version"`
	Data    struct {
		Settlements []json.RawMessage `json:"settlements"`
	} `json:"data"`
}

// DecodeMapInfo 解码 map.json。外层结构错误时整体失败；
// 单个对象或连线解码失败则跳过，记在 Rejected 里。
func DecodeMapInfo(data []byte) (*domain.MapInfo, error) {
	var raw rawMapInfo
	if err := decode(data, &raw); err != nil {
		return nil, domain.ErrInvalidDataset.WithData("dataset", string(app.DatasetMap)).WithCause(err)
	}
	m := &domain.MapInfo{Version: raw.Version}
	m.Data.Metadata = raw.Data.Metadata
	m.Data.MapObjects = decodeEntries[domain.MapObject](raw.Data.MapObjects, "mapObjects", &m.Rejected)
	m.Data.MapConnections = decodeEntries[domain.MapConnection](raw.Data.MapConnections, "mapConnections", &m.Rejected)
	return m, nil
}

func DecodeSettlementInfo(data []byte) (*domain.SettlementInfo, error) {
	var raw rawSettlementInfo
	if err := decode(data, &raw); err != nil {
		return nil, domain.ErrInvalidDataset.WithData("dataset", string(app.DatasetSettlement)).WithCause(err)
	}
	s := &domain.SettlementInfo{Version: raw.Version}
	s.Data.Settlements = decodeEntries[domain.Settlement](raw.Data.Settlements, "settlements", &s.Rejected)
	return s, nil
}

// decodeEntries 逐条解码，失败的记录（含 null）跳过并追加一条 malformed_entry。
// 返回值不为 nil。
func decodeEntries[T any](raws []json.RawMessage, field string, rejected *[]domain.Issue) []T {
	out := make([]T, 0, len(raws))
	for i, r := range raws {
		var v T
		err := errNullEntry
		if !bytes.Equal(bytes.TrimSpace(r), []byte("null")) {
			err = json.Unmarshal(r, &v)
		}
		if err != nil {
			*rejected = append(*rejected, domain.Issue{
				Kind:    domain.IssueMalformedEntry,
				Subject: fmt.Sprintf("%s[%d]", field, i),
				Detail:  err.Error(),
			})
			continue
		}
		out = append(out, v)
	}
	return out
}

var errNullEntry = errors.New("entry is null")

func decode(data []byte, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty document")
	}
	return json.Unmarshal(data, v)
}

// Unavailable 包装存储层的技术错误。
func Unavailable(name app.DatasetName, err error) error {
	return domain.ErrDatasetUnavailable.WithData("dataset", string(name)).WithCause(err)
}
