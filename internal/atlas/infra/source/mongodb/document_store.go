package mongodb

import (
	"context"
	"errors"
	"time"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/infra/source"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "atlas_docs"

// AtlasDoc 以文档名为主键保存一份原始 JSON。
type AtlasDoc struct {
	Name      string    `bson:"_id"`
	Version   string    `bson:"version"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type DocumentStore struct {
	coll *mongo.Collection
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{
		coll: db.Collection(defaultCollectionName),
	}
}

func (s *DocumentStore) Fetch(ctx context.Context, name app.DatasetName) ([]byte, error) {
	if s == nil || s.coll == nil {
		return nil, source.Unavailable(name, errors.New("mongodb atlas collection is nil"))
	}
	var doc AtlasDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": string(name)}).Decode(&doc)
	if err != nil {
		return nil, source.Unavailable(name, err)
	}
	return []byte(doc.Payload), nil
}

func (s *DocumentStore) Publish(ctx context.Context, name app.DatasetName, version string, payload []byte) error {
	if s == nil || s.coll == nil {
		return source.Unavailable(name, errors.New("mongodb atlas collection is nil"))
	}
	doc := AtlasDoc{
		Name:      string(name),
		Version:   version,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.Name},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return source.Unavailable(name, err)
	}
	return nil
}
