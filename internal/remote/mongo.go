package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Choice    string             `bson:"choice"`
	Time      time.Time          `bson:"time,omitempty"`
	UserAgent string             `bson:"userAgent"`
	Device    string             `bson:"device"`
}

type MongoCollection struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect builds a client for cfg. The driver connects lazily, so an
// unreachable server surfaces later as ErrCallFailed.
func Connect(ctx context.Context, cfg Config) (*MongoCollection, error) {
	if !cfg.Configured {
		return nil, ErrNotConfigured
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	log.Info().Str("database", cfg.Database).Str("collection", cfg.Collection).Msg("remote collection client created")

	return &MongoCollection{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func NewMongoCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{coll: coll}
}

// Add inserts doc through an upsert so the database stamps the time field.
func (m *MongoCollection) Add(ctx context.Context, doc answer.Document) (string, error) {
	id := primitive.NewObjectID()

	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "choice", Value: doc.Choice},
			{Key: "userAgent", Value: doc.UserAgent},
			{Key: "device", Value: string(doc.Device)},
		}},
		{Key: "$currentDate", Value: bson.D{
			{Key: TimeField, Value: true},
		}},
	}

	_, err := m.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: add: %w", ErrCallFailed, err)
	}

	return id.Hex(), nil
}

func (m *MongoCollection) Query(ctx context.Context, orderBy string, dir Direction) ([]answer.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: orderBy, Value: int(dir)}})

	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrCallFailed, err)
	}
	defer cursor.Close(ctx)

	var raw []mongoDocument
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCallFailed, err)
	}

	docs := make([]answer.Document, 0, len(raw))
	for _, r := range raw {
		docs = append(docs, answer.Document{
			ID:        r.ID.Hex(),
			Choice:    r.Choice,
			Time:      r.Time,
			UserAgent: r.UserAgent,
			Device:    answer.Origin(r.Device),
		})
	}

	return docs, nil
}

func (m *MongoCollection) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
