// Package memory implements the repositories on an in-memory database.
// Every mutating operation runs in a single write transaction, which makes
// check-then-insert sequences atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/rs/xid"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository"
)

// DB is an in-memory database holding every ClubSphere table.
type DB struct {
	db *memdb.MemDB
}

// memberRecord is a row of the club membership table.
type memberRecord struct {
	ClubID   string
	UserID   string
	JoinedAt time.Time
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}
	return &DB{db: memDB}, nil
}

// NewStore returns repositories backed by a fresh in-memory database.
func NewStore() (*repository.Store, error) {
	d, err := New()
	if err != nil {
		return nil, err
	}
	return repository.NewStore(
		&userRepository{d},
		&clubRepository{d},
		&membershipRequestRepository{d},
		&eventRepository{d},
		nil,
	), nil
}

func newID() string {
	return xid.New().String()
}

type userRepository struct{ *DB }

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tblUsers, "email", u.Email)
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	if u.ID == "" {
		u.ID = newID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = domain.UserRoleMember
	}
	stored := *u
	if err := txn.Insert(tblUsers, &stored); err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	txn.Commit()
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.findUser("id", id)
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findUser("email", email)
}

func (r *userRepository) findUser(index, value string) (*domain.User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblUsers, index, value)
	if err != nil {
		return nil, fmt.Errorf("find user by %s %s: %w", index, value, err)
	}
	if raw == nil {
		return nil, domain.ErrUserNotFound
	}
	u := *raw.(*domain.User)
	return &u, nil
}

func (r *userRepository) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblUsers, "role", string(role))
	if err != nil {
		return nil, fmt.Errorf("list users by role %s: %w", role, err)
	}

	var users []domain.User
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		users = append(users, *raw.(*domain.User))
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

type clubRepository struct{ *DB }

func (r *clubRepository) Create(_ context.Context, c *domain.Club) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.SetMembers(nil)

	stored := *c
	stored.Members = nil
	if err := txn.Insert(tblClubs, &stored); err != nil {
		return fmt.Errorf("create club %s: %w", c.Name, err)
	}
	txn.Commit()
	return nil
}

func (r *clubRepository) GetByID(_ context.Context, id string) (*domain.Club, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblClubs, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find club %s: %w", id, err)
	}
	if raw == nil {
		return nil, domain.ErrClubNotFound
	}
	c, err := withMembers(txn, raw.(*domain.Club))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clubRepository) List(_ context.Context) ([]domain.Club, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblClubs, "id")
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	clubs := []domain.Club{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		c, err := withMembers(txn, raw.(*domain.Club))
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	sort.SliceStable(clubs, func(i, j int) bool { return clubs[i].CreatedAt.After(clubs[j].CreatedAt) })
	return clubs, nil
}

func (r *clubRepository) ListByMember(_ context.Context, userID string) ([]domain.Club, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblMembers, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("list clubs of %s: %w", userID, err)
	}

	var records []*memberRecord
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		records = append(records, raw.(*memberRecord))
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].JoinedAt.After(records[j].JoinedAt) })

	clubs := []domain.Club{}
	for _, rec := range records {
		raw, err := txn.First(tblClubs, "id", rec.ClubID)
		if err != nil {
			return nil, fmt.Errorf("find club %s: %w", rec.ClubID, err)
		}
		if raw == nil {
			continue
		}
		c, err := withMembers(txn, raw.(*domain.Club))
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, c)
	}
	return clubs, nil
}

// withMembers returns a copy of c with its membership set read from the
// member table.
func withMembers(txn *memdb.Txn, c *domain.Club) (domain.Club, error) {
	club := *c
	iter, err := txn.Get(tblMembers, "club_id", c.ID)
	if err != nil {
		return domain.Club{}, fmt.Errorf("list members of %s: %w", c.ID, err)
	}

	var records []*memberRecord
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		records = append(records, raw.(*memberRecord))
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].JoinedAt.Before(records[j].JoinedAt) })

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.UserID
	}
	club.SetMembers(ids)
	return club, nil
}

type membershipRequestRepository struct{ *DB }

func (r *membershipRequestRepository) Create(_ context.Context, req *domain.MembershipRequest) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	club, err := txn.First(tblClubs, "id", req.ClubID)
	if err != nil {
		return fmt.Errorf("find club %s: %w", req.ClubID, err)
	}
	if club == nil {
		return domain.ErrClubNotFound
	}

	member, err := txn.First(tblMembers, "id", req.ClubID, req.UserID)
	if err != nil {
		return fmt.Errorf("find member %s of %s: %w", req.UserID, req.ClubID, err)
	}
	if member != nil {
		return domain.ErrAlreadyMember
	}

	pending, err := txn.First(
		tblRequests,
		"user_id_club_id_status",
		req.UserID,
		req.ClubID,
		string(domain.MembershipRequestStatusPending),
	)
	if err != nil {
		return fmt.Errorf("find pending request of %s for %s: %w", req.UserID, req.ClubID, err)
	}
	if pending != nil {
		return domain.ErrDuplicatePending
	}

	if req.ID == "" {
		req.ID = newID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = domain.MembershipRequestStatusPending
	if err := txn.Insert(tblRequests, req.DeepCopy()); err != nil {
		return fmt.Errorf("create membership request: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *membershipRequestRepository) GetByID(_ context.Context, id string) (*domain.MembershipRequest, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblRequests, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find membership request %s: %w", id, err)
	}
	if raw == nil {
		return nil, domain.ErrRequestNotFound
	}
	return raw.(*domain.MembershipRequest).DeepCopy(), nil
}

func (r *membershipRequestRepository) ListByStatus(
	_ context.Context,
	status domain.MembershipRequestStatus,
	clubID string,
) ([]domain.MembershipRequest, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	var iter memdb.ResultIterator
	var err error
	if clubID == "" {
		iter, err = txn.Get(tblRequests, "status", string(status))
	} else {
		iter, err = txn.Get(tblRequests, "club_id_status", clubID, string(status))
	}
	if err != nil {
		return nil, fmt.Errorf("list %s membership requests: %w", status, err)
	}
	return collectRequests(iter), nil
}

func (r *membershipRequestRepository) ListByUser(_ context.Context, userID string) ([]domain.MembershipRequest, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblRequests, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("list membership requests of %s: %w", userID, err)
	}
	return collectRequests(iter), nil
}

// collectRequests copies the iterated requests, newest first.
func collectRequests(iter memdb.ResultIterator) []domain.MembershipRequest {
	reqs := []domain.MembershipRequest{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		reqs = append(reqs, *raw.(*domain.MembershipRequest).DeepCopy())
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs
}

func (r *membershipRequestRepository) Approve(_ context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	req, err := decide(txn, id, domain.MembershipRequestStatusApproved, adminID, at)
	if err != nil {
		return nil, err
	}

	club, err := txn.First(tblClubs, "id", req.ClubID)
	if err != nil {
		return nil, fmt.Errorf("find club %s: %w", req.ClubID, err)
	}
	if club == nil {
		return nil, domain.ErrClubNotFound
	}

	existing, err := txn.First(tblMembers, "id", req.ClubID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("find member %s of %s: %w", req.UserID, req.ClubID, err)
	}
	if existing == nil {
		rec := &memberRecord{ClubID: req.ClubID, UserID: req.UserID, JoinedAt: at.UTC()}
		if err := txn.Insert(tblMembers, rec); err != nil {
			return nil, fmt.Errorf("add member %s to %s: %w", req.UserID, req.ClubID, err)
		}
	}

	txn.Commit()
	return req, nil
}

func (r *membershipRequestRepository) Reject(_ context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	txn := r.db.Txn(true)
	defer txn.Abort()

	req, err := decide(txn, id, domain.MembershipRequestStatusRejected, adminID, at)
	if err != nil {
		return nil, err
	}
	txn.Commit()
	return req, nil
}

// decide applies a decision to a stored request inside txn and returns a copy
// of the updated request.
func decide(
	txn *memdb.Txn,
	id string,
	to domain.MembershipRequestStatus,
	adminID string,
	at time.Time,
) (*domain.MembershipRequest, error) {
	raw, err := txn.First(tblRequests, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find membership request %s: %w", id, err)
	}
	if raw == nil {
		return nil, domain.ErrRequestNotFound
	}

	req := raw.(*domain.MembershipRequest).DeepCopy()
	if err := req.Decide(to, adminID, at); err != nil {
		return nil, err
	}
	if err := txn.Insert(tblRequests, req); err != nil {
		return nil, fmt.Errorf("update membership request %s: %w", id, err)
	}
	return req.DeepCopy(), nil
}

func (r *membershipRequestRepository) CountPendingByClub(_ context.Context) (map[string]int, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblRequests, "status", string(domain.MembershipRequestStatusPending))
	if err != nil {
		return nil, fmt.Errorf("count pending membership requests: %w", err)
	}

	counts := make(map[string]int)
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		counts[raw.(*domain.MembershipRequest).ClubID]++
	}
	return counts, nil
}

type eventRepository struct{ *DB }

func (r *eventRepository) Create(_ context.Context, e *domain.Event) error {
	txn := r.db.Txn(true)
	defer txn.Abort()

	if e.ID == "" {
		e.ID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	stored := *e
	if err := txn.Insert(tblEvents, &stored); err != nil {
		return fmt.Errorf("create event %s: %w", e.Title, err)
	}
	txn.Commit()
	return nil
}

func (r *eventRepository) List(_ context.Context) ([]domain.Event, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblEvents, "id")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := []domain.Event{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		events = append(events, *raw.(*domain.Event))
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}
