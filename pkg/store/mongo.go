package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cdyellick/ponte/pkg/errors"
)

const chartCollection = "charts"

// MongoStore persists charts in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the given database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pinging mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(chartCollection),
	}, nil
}

// Save persists a chart, assigning an ID if needed.
func (s *MongoStore) Save(ctx context.Context, chart *StoredChart) error {
	now := time.Now().UTC()
	if chart.ID == "" {
		chart.ID = NewID()
		chart.CreatedAt = now
	} else {
		var existing StoredChart
		err := s.coll.FindOne(ctx, bson.M{"_id": chart.ID}).Decode(&existing)
		switch {
		case err == nil:
			chart.CreatedAt = existing.CreatedAt
		case err == mongo.ErrNoDocuments:
			if chart.CreatedAt.IsZero() {
				chart.CreatedAt = now
			}
		default:
			return errors.Wrap(errors.ErrCodeInternal, err, "looking up chart %s", chart.ID)
		}
	}
	chart.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": chart.ID}, chart, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "saving chart %s", chart.ID)
	}
	return nil
}

// Get retrieves a chart by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*StoredChart, error) {
	var chart StoredChart
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chart)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "loading chart %s", id)
	}
	return &chart, nil
}

// List returns all charts ordered by creation time.
func (s *MongoStore) List(ctx context.Context) ([]*StoredChart, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "listing charts")
	}
	defer cursor.Close(ctx)

	var charts []*StoredChart
	if err := cursor.All(ctx, &charts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decoding charts")
	}
	return charts, nil
}

// Delete removes a chart by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "deleting chart %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
