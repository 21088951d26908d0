package mysql

import (
	"context"
	"errors"
	"time"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AtlasDocument 每个文档名一行，payload 为原始 JSON。
type AtlasDocument struct {
	Id        int       `gorm:"column:id;type:int UNSIGNED;primaryKey;autoIncrement;not null;" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(32);comment:文档名;uniqueIndex;not null;" json:"name"`
	Version   string    `gorm:"column:version;type:varchar(64);comment:数据版本;not null;default:'';" json:"version"`
	Payload   string    `gorm:"column:payload;type:longtext;comment:原始JSON;not null;" json:"payload"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (m *AtlasDocument) TableName() string {
	return "atlas_document"
}

type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{
		db: db,
	}
}

// Migrate 建表。
func (s *DocumentStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&AtlasDocument{})
}

func (s *DocumentStore) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	var doc AtlasDocument
	err := s.db.WithContext(ctx).Where("name = ?", string(name)).First(&doc).Error
	if err == nil {
		return []byte(doc.Payload), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, source.Unavailable(name, errors.New("document not published"))
	}
	return nil, source.Unavailable(name, err)
}

// Publish 按 name upsert。
func (s *DocumentStore) Publish(ctx context.Context, name app.DatasetName, version string, payload []byte) error {
	doc := AtlasDocument{
		Name:      string(name),
		Version:   version,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"version", "payload", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return source.Unavailable(name, err)
	}
	return nil
}
