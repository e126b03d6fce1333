// Package mongo implements store.Store on MongoDB using mongo-go-driver v2.
// Collection names and indexes are managed centrally in ensureIndexes.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	colUsers    = "users"
	colSessions = "sessions"
	colPosts    = "posts"
)

const connectTimeout = 10 * time.Second

// Store provides MongoDB-backed persistence.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, verifies the connection, and ensures indexes.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo: ensure indexes failed: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// ensureIndexes creates the unique and supporting indexes the application
// relies on. The unique slug index is what closes the slug probe-then-insert
// race; the TTL index reaps expired sessions server-side.
func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col  string
		keys bson.D
		opts *options.IndexOptionsBuilder
	}

	indexes := []idx{
		{colUsers, bson.D{{Key: "email", Value: 1}}, options.Index().SetUnique(true)},

		{colSessions, bson.D{{Key: "expires_at", Value: 1}}, options.Index().SetExpireAfterSeconds(0)},

		{colPosts, bson.D{{Key: "slug", Value: 1}}, options.Index().SetUnique(true)},
		{colPosts, bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}, nil},
		{colPosts, bson.D{{Key: "created_at", Value: -1}}, nil},
	}

	for _, i := range indexes {
		m := mongo.IndexModel{Keys: i.keys}
		if i.opts != nil {
			m.Options = i.opts
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, m); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
