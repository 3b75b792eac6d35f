package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lukasmeier/depscope/pkg/errors"
	"github.com/lukasmeier/depscope/pkg/graph"
)

// Default database and collection names for graph documents.
const (
	DefaultDatabase   = "depscope"
	DefaultCollection = "graphs"
)

// graphDoc is the MongoDB document shape for a stored graph. Index maps are
// rebuilt on load, not persisted.
type graphDoc struct {
	GraphID      string       `bson:"graph_id"`
	Nodes        []graph.Node `bson:"nodes"`
	Edges        []graph.Edge `bson:"edges"`
	CircularDeps [][]string   `bson:"circular_deps,omitempty"`
}

// MongoStore reads graph documents from a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection.
// Empty database/collection names fall back to the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb at %s", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb at %s", uri)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Load fetches the graph document with the given graph_id and rebuilds its
// derived indexes.
func (s *MongoStore) Load(ctx context.Context, id string) (*graph.Graph, error) {
	var doc graphDoc
	err := s.coll.FindOne(ctx, bson.M{"graph_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load graph %q", id)
	}

	return graph.New(doc.Nodes, doc.Edges, doc.CircularDeps), nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements GraphStore.
var _ GraphStore = (*MongoStore)(nil)
