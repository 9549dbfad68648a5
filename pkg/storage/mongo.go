package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

// Collection is the MongoDB collection holding tree documents.
const Collection = "trees"

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI      string
	Database string
	Logger   *log.Logger
}

// MongoStore keeps one document per tree, keyed by tree name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *log.Logger
}

// NewMongoStore connects to MongoDB and pings the primary, retrying transient
// failures.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.Database == "" {
		opts.Database = "kintree"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := NewMongoStoreFromClient(client, opts.Database)
	if opts.Logger != nil {
		s.logger = opts.Logger
	}
	s.logger.Debug("mongo store ready", "database", opts.Database, "collection", Collection)
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(Collection),
		logger: log.Default(),
	}
}

func (s *MongoStore) Load(ctx context.Context, name string) (*family.Tree, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tree %s: %w", name, err)
	}
	t, err := graph.ToTree(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("tree %s: %w", name, err)
	}
	return t, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, t *family.Tree) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, newRecord(name, t), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save tree %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete tree %s: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"people":     bson.M{"$size": bson.M{"$ifNull": bson.A{"$document.people", bson.A{}}}},
			"updated_at": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	var out []Info
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
