// Package mongo stores books in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// Options configure a Connector.
type Options struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration // how long to keep retrying the first ping
}

// Connector opens client sessions against a MongoDB deployment.
type Connector struct {
	opts Options
}

// NewConnector creates a connector.
func NewConnector(opts Options) *Connector {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	return &Connector{opts: opts}
}

// Connect creates a client and pings the primary, retrying with
// exponential backoff until ConnectTimeout elapses.
func (c *Connector) Connect(ctx context.Context) (domain.Session, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.opts.ConnectTimeout
	ping := func() error {
		return client.Ping(ctx, readpref.Primary())
	}
	notify := func(err error, wait time.Duration) {
		zap.S().Warnf("Mongo not reachable yet, retrying in %s: %v", wait, err)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(policy, ctx), notify); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	zap.S().Infof("Connected to mongo, database %s, collection %s", c.opts.Database, c.opts.Collection)
	coll := client.Database(c.opts.Database).Collection(c.opts.Collection)
	return &Session{client: client, store: &Store{coll: coll}}, nil
}

// Session owns a client.
type Session struct {
	client *mongo.Client
	store  *Store
}

// Books implements domain.Session.
func (s *Session) Books() domain.BookStore { return s.store }

// Close disconnects the client.
func (s *Session) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
