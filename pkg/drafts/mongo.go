package drafts

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/topicsheet/pkg/cache"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "topicsheet"
	DefaultMongoCollection = "drafts"
)

// MongoStore keeps one document per draft. A unique index on (owner, name)
// makes Put an upsert.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri, pings the server and ensures the
// (owner, name) index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, unavailable(err, "connect")
	}

	s := &MongoStore{client: client, coll: client.Database(database).Collection(DefaultMongoCollection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return unavailable(err, "create index")
	}
	return nil
}

func filter(owner, name string) bson.D {
	return bson.D{{Key: "owner", Value: owner}, {Key: "name", Value: name}}
}

func (s *MongoStore) Put(ctx context.Context, d *Draft) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "fields", Value: d.Fields},
		{Key: "updated_at", Value: d.UpdatedAt},
	}}}
	_, err := s.coll.UpdateOne(ctx, filter(d.Owner, d.Name), update, options.Update().SetUpsert(true))
	if err != nil {
		return unavailable(err, "put")
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, owner, name string) (*Draft, error) {
	var d Draft
	err := s.coll.FindOne(ctx, filter(owner, name)).Decode(&d)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err, "get")
	}
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}

func (s *MongoStore) List(ctx context.Context, owner string) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "updated_at", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "owner", Value: owner}}, opts)
	if err != nil {
		return nil, unavailable(err, "list")
	}
	list := []Summary{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, unavailable(err, "list")
	}
	for i := range list {
		list[i].UpdatedAt = list[i].UpdatedAt.UTC()
	}
	return list, nil
}

func (s *MongoStore) Delete(ctx context.Context, owner, name string) error {
	if _, err := s.coll.DeleteOne(ctx, filter(owner, name)); err != nil {
		return unavailable(err, "delete")
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
