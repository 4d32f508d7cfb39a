package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"clubsphere-backend/internal/domain"
)

// pendingFilter matches the request only while it is still pending.
func pendingFilter(id string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: string(domain.MembershipRequestStatusPending)},
	}
}

func decisionUpdate(to domain.MembershipRequestStatus, adminID string, at time.Time) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(to)},
		{Key: "reviewed_by", Value: adminID},
		{Key: "reviewed_at", Value: at.UTC()},
	}}}
}

// addMemberPipeline adds userID to the members set and recomputes
// member_count from it in the same update.
func addMemberPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "members", Value: bson.D{{Key: "$setUnion", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$members", bson.A{}}}},
				bson.A{userID},
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "member_count", Value: bson.D{{Key: "$size", Value: "$members"}}},
		}}},
	}
}

// clubMatched fails the approval when the club document is gone, so the
// transaction aborts instead of leaving an approved request without a member.
func clubMatched(res *mongo.UpdateResult) error {
	if res == nil || res.MatchedCount == 0 {
		return domain.ErrClubNotFound
	}
	return nil
}

func requestsFilter(status domain.MembershipRequestStatus, clubID string) bson.D {
	filter := bson.D{{Key: "status", Value: string(status)}}
	if clubID != "" {
		filter = append(filter, bson.E{Key: "club_id", Value: clubID})
	}
	return filter
}

func pendingCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: string(domain.MembershipRequestStatusPending)}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$club_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}
