// Package mongo implements the repositories using MongoDB. Multi-document
// operations run in session transactions, so the server must be a replica set.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/repository"
)

// Client is a client that connects to MongoDB and reads or saves ClubSphere data.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(ctx context.Context, uri, database string, timeout time.Duration) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logger.Info("MongoDB connected", "database", database)
	return &Client{client: client, db: db}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}
	return nil
}

// NewStore builds the mongo-backed repositories. Closing the store closes c.
func NewStore(c *Client) *repository.Store {
	return repository.NewStore(
		&userRepository{c},
		&clubRepository{c},
		&membershipRequestRepository{c},
		&eventRepository{c},
		c.Close,
	)
}

// withTransaction runs fn in a session transaction and returns its error.
func (c *Client) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
