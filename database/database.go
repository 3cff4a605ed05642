package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	AdminsCollection = "admins"
	UsersCollection  = "users"
	BlogsCollection  = "blogs"
	UploadsBucket    = "uploads"
)

const (
	connectAttempts = 3
	retryDelay      = 2 * time.Second
)

// Store holds the Mongo client and the database the service works in.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB and pings it, retrying a few times before giving up.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client, err := dial(ctx, uri)
		if err == nil {
			log.Info().Str("database", dbName).Msg("connected to MongoDB")
			return &Store{Client: client, DB: client.Database(dbName)}, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("MongoDB connection attempt failed")

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("connect to MongoDB: %w", lastErr)
}

func dial(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.Client.Disconnect(ctx); err != nil {
		return err
	}
	log.Info().Msg("disconnected from MongoDB")
	return nil
}

func (s *Store) Admins() *mongo.Collection { return s.DB.Collection(AdminsCollection) }
func (s *Store) Users() *mongo.Collection  { return s.DB.Collection(UsersCollection) }
func (s *Store) Blogs() *mongo.Collection  { return s.DB.Collection(BlogsCollection) }

// UploadBucket opens the GridFS bucket images are stored in when the gridfs
// upload backend is selected.
func (s *Store) UploadBucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(s.DB, options.GridFSBucket().SetName(UploadsBucket))
}

// EnsureIndexes creates the unique email indexes and the listing index. It is
// safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	email := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}
	for _, name := range []string{AdminsCollection, UsersCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, email); err != nil {
			return fmt.Errorf("create %s email index: %w", name, err)
		}
	}

	createdAt := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}
	if _, err := db.Collection(BlogsCollection).Indexes().CreateOne(ctx, createdAt); err != nil {
		return fmt.Errorf("create blogs createdAt index: %w", err)
	}
	return nil
}
