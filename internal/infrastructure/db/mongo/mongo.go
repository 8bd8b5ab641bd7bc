package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "script-library"
	connectTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
	// defaultTimeout bounds every repository call.
	defaultTimeout = 10 * time.Second
)

type Config struct {
	URI      string
	Database string
	// Timeout bounds server selection and the initial ping. Default 10s.
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return connectTimeout
	}
	return c.Timeout
}

// Backend is an open MongoDB connection scoped to the library's database.
type Backend struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects and pings the primary. The connection is closed again if
// the ping fails.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	timeout := cfg.timeout()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	b := &Backend{client: client, db: client.Database(cfg.Database)}
	if err := b.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return b, nil
}

func (b *Backend) Database() *mongo.Database {
	return b.db
}

func (b *Backend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on.
func (b *Backend) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	if err := NewUserRepository(b.db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	return nil
}
