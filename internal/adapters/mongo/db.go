package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	patientsCollection = "patients"
	auditCollection    = "audit_events"
)

// Connect opens and validates the document-store client.
func Connect(ctx context.Context, mongoURL, database string) (*driver.Database, error) {
	slog.Default().InfoContext(ctx, "mongo connect started",
		"module", "mongo",
		"layer", "adapter",
		"operation", "connect",
		"outcome", "start",
	)
	client, err := driver.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	slog.Default().InfoContext(ctx, "mongo connect completed",
		"module", "mongo",
		"layer", "adapter",
		"operation", "connect",
		"outcome", "success",
	)
	return client.Database(database), nil
}

// EnsureIndexes creates the patient-collection indexes at startup: the
// unique index on the clinical id is the authoritative duplicate guard, the
// rest serve list and dashboard queries.
func EnsureIndexes(ctx context.Context, db *driver.Database) error {
	patients := db.Collection(patientsCollection)
	_, err := patients.Indexes().CreateMany(ctx, []driver.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "age", Value: 1}}},
		{Keys: bson.D{{Key: "stroke", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure patient indexes: %w", err)
	}

	audit := db.Collection(auditCollection)
	if _, err := audit.Indexes().CreateOne(ctx, driver.IndexModel{
		Keys: bson.D{{Key: "occurred_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("ensure audit indexes: %w", err)
	}
	return nil
}
