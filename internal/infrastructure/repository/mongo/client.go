package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

const (
	tournamentsCollection = "tournaments"
	usersCollection       = "users"
	paymentsCollection    = "payments"

	connectTimeout = 10 * time.Second
)

// Connect opens the client, verifies the deployment with a ping and
// ensures the indexes every repository relies on. The returned close
// function disconnects the client.
func Connect(ctx context.Context, uri, database string, logger *logging.Logger) (*mongo.Database, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}

	logger.Info("connected to mongo", "database", database)
	return db, client.Disconnect, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(tournamentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "schedule", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("tournament indexes: %w", err)
	}

	_, err = db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "referral_code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	_, err = db.Collection(paymentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "utr", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "confirmed_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("payment indexes: %w", err)
	}
	return nil
}
