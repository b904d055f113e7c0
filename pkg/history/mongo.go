package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabase   = "repopulse"
	snapshotsColl     = "snapshots"
	mongoConnectLimit = 10 * time.Second
)

// MongoStore archives snapshots in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
// An empty database name falls back to "repopulse".
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectLimit)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(snapshotsColl),
	}, nil
}

// Record archives a snapshot.
func (s *MongoStore) Record(ctx context.Context, snap Snapshot) error {
	_, err := s.collection.InsertOne(ctx, snap)
	return err
}

// Recent returns up to limit snapshots for owner/repo, newest first.
func (s *MongoStore) Recent(ctx context.Context, owner, repo string, limit int) ([]Snapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.M{"owner": owner, "repo": repo}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snaps []Snapshot
	if err := cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
