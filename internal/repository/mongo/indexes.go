package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubsphere-backend/internal/domain"
)

// Below are names and indexes information of collections that store
// ClubSphere data.
var (
	ColUsers = "users"
	idxUsers = []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, {
		Keys: bson.D{{Key: "role", Value: 1}},
	}}

	ColClubs = "clubs"
	idxClubs = []mongo.IndexModel{{
		Keys: bson.D{{Key: "members", Value: 1}},
	}, {
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}}

	// At most one pending request may exist per (user, club).
	ColRequests = "membership_requests"
	idxRequests = []mongo.IndexModel{{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "club_id", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("pending_user_club").
			SetPartialFilterExpression(bson.D{{Key: "status", Value: string(domain.MembershipRequestStatusPending)}}),
	}, {
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "created_at", Value: -1},
		},
	}}

	ColEvents = "events"
	idxEvents = []mongo.IndexModel{{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	}}
)

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for col, idx := range map[string][]mongo.IndexModel{
		ColUsers:    idxUsers,
		ColClubs:    idxClubs,
		ColRequests: idxRequests,
		ColEvents:   idxEvents,
	} {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes of %s: %w", col, err)
		}
	}
	return nil
}
