package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
)

// userDocument stores the lowercased email next to the user so the unique
// index is case-insensitive.
type userDocument struct {
	domain.User `bson:",inline"`
	EmailKey    string `bson:"email_key"`
}

type userRepository struct{ *Client }

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = domain.UserRoleMember
	}

	doc := userDocument{User: *u, EmailKey: strings.ToLower(u.Email)}
	if _, err := r.db.Collection(ColUsers).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email_key", Value: strings.ToLower(email)}})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.D) (*domain.User, error) {
	var doc userDocument
	err := r.db.Collection(ColUsers).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &doc.User, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	cursor, err := r.db.Collection(ColUsers).Find(
		ctx,
		bson.D{{Key: "role", Value: string(role)}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: %w", role, err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]domain.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.User
	}
	return users, nil
}

type clubRepository struct{ *Client }

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.SetMembers(nil)

	if _, err := r.db.Collection(ColClubs).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("create club %s: %w", c.Name, err)
	}
	return nil
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	var c domain.Club
	err := r.db.Collection(ColClubs).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrClubNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find club %s: %w", id, err)
	}
	c.SetMembers(c.Members)
	return &c, nil
}

func (r *clubRepository) List(ctx context.Context) ([]domain.Club, error) {
	return r.find(ctx, bson.D{})
}

func (r *clubRepository) ListByMember(ctx context.Context, userID string) ([]domain.Club, error) {
	return r.find(ctx, bson.D{{Key: "members", Value: userID}})
}

func (r *clubRepository) find(ctx context.Context, filter bson.D) ([]domain.Club, error) {
	cursor, err := r.db.Collection(ColClubs).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	clubs := []domain.Club{}
	if err := cursor.All(ctx, &clubs); err != nil {
		return nil, fmt.Errorf("decode clubs: %w", err)
	}
	for i := range clubs {
		clubs[i].SetMembers(clubs[i].Members)
	}
	return clubs, nil
}

type membershipRequestRepository struct{ *Client }

func (r *membershipRequestRepository) Create(ctx context.Context, req *domain.MembershipRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = domain.MembershipRequestStatusPending

	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var club domain.Club
		err := r.db.Collection(ColClubs).FindOne(sc, bson.D{{Key: "_id", Value: req.ClubID}}).Decode(&club)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrClubNotFound
		}
		if err != nil {
			return fmt.Errorf("find club %s: %w", req.ClubID, err)
		}
		if club.HasMember(req.UserID) {
			return domain.ErrAlreadyMember
		}

		if _, err := r.db.Collection(ColRequests).InsertOne(sc, req); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicatePending
			}
			return fmt.Errorf("create membership request: %w", err)
		}
		return nil
	})
}

func (r *membershipRequestRepository) GetByID(ctx context.Context, id string) (*domain.MembershipRequest, error) {
	var req domain.MembershipRequest
	err := r.db.Collection(ColRequests).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find membership request %s: %w", id, err)
	}
	return &req, nil
}

func (r *membershipRequestRepository) ListByStatus(
	ctx context.Context,
	status domain.MembershipRequestStatus,
	clubID string,
) ([]domain.MembershipRequest, error) {
	return r.find(ctx, requestsFilter(status, clubID))
}

func (r *membershipRequestRepository) ListByUser(ctx context.Context, userID string) ([]domain.MembershipRequest, error) {
	return r.find(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *membershipRequestRepository) find(ctx context.Context, filter bson.D) ([]domain.MembershipRequest, error) {
	cursor, err := r.db.Collection(ColRequests).Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list membership requests: %w", err)
	}

	reqs := []domain.MembershipRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("decode membership requests: %w", err)
	}
	return reqs, nil
}

func (r *membershipRequestRepository) Approve(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	var approved *domain.MembershipRequest
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		req, err := r.decide(sc, id, domain.MembershipRequestStatusApproved, adminID, at)
		if err != nil {
			return err
		}

		res, err := r.db.Collection(ColClubs).UpdateOne(
			sc,
			bson.D{{Key: "_id", Value: req.ClubID}},
			addMemberPipeline(req.UserID),
		)
		if err != nil {
			return fmt.Errorf("add member %s to %s: %w", req.UserID, req.ClubID, err)
		}
		if err := clubMatched(res); err != nil {
			return err
		}
		logger.DatabaseResult("APPROVE", res.ModifiedCount, nil, "request_id", id, "club_id", req.ClubID)

		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (r *membershipRequestRepository) Reject(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	return r.decide(ctx, id, domain.MembershipRequestStatusRejected, adminID, at)
}

func (r *membershipRequestRepository) decide(
	ctx context.Context,
	id string,
	to domain.MembershipRequestStatus,
	adminID string,
	at time.Time,
) (*domain.MembershipRequest, error) {
	var req domain.MembershipRequest
	err := r.db.Collection(ColRequests).FindOneAndUpdate(
		ctx,
		pendingFilter(id),
		decisionUpdate(to, adminID, at),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("decide membership request %s: %w", id, err)
	}
	return &req, nil
}

func (r *membershipRequestRepository) CountPendingByClub(ctx context.Context) (map[string]int, error) {
	cursor, err := r.db.Collection(ColRequests).Aggregate(ctx, pendingCountPipeline())
	if err != nil {
		return nil, fmt.Errorf("count pending membership requests: %w", err)
	}

	var rows []struct {
		ClubID string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode pending counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ClubID] = row.Count
	}
	return counts, nil
}

type eventRepository struct{ *Client }

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.Collection(ColEvents).InsertOne(ctx, e); err != nil {
		return fmt.Errorf("create event %s: %w", e.Title, err)
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	cursor, err := r.db.Collection(ColEvents).Find(
		ctx,
		bson.D{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := []domain.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
