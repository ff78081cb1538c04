package writer

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/go-scripts/coursecrawl/pkg/common"
)

// DefaultMongoDatabase is used when neither a flag nor the URI names one.
const DefaultMongoDatabase = "test"

// ConnectMongo opens a client for uri and checks the server answers.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return client, nil
}

// MongoDatabase picks the database name: explicit, else the URI path, else
// DefaultMongoDatabase.
func MongoDatabase(explicit, uri string) string {
	if explicit != "" {
		return explicit
	}
	if cs, err := connstring.Parse(uri); err == nil && cs.Database != "" {
		return cs.Database
	}
	return DefaultMongoDatabase
}

// MongoWriter inserts each record as its own document. Nothing is upserted
// or deduplicated.
type MongoWriter struct {
	coll *mongo.Collection
	own  *mongo.Client
}

// NewMongoWriter writes to collection name of database db. If own is true,
// Close disconnects the client.
func NewMongoWriter(client *mongo.Client, db, name string, own bool) *MongoWriter {
	w := &MongoWriter{coll: client.Database(db).Collection(name)}
	if own {
		w.own = client
	}
	return w
}

// Write inserts rec as a new document.
func (w *MongoWriter) Write(ctx context.Context, rec common.DetailRecord) error {
	if _, err := w.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("inserting into %s: %w", w.coll.Name(), err)
	}
	return nil
}

// Close disconnects the client if the writer owns it.
func (w *MongoWriter) Close(ctx context.Context) error {
	if w.own == nil {
		return nil
	}
	return w.own.Disconnect(ctx)
}
