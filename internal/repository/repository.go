package repository

import (
	"context"
	"time"

	"clubsphere-backend/internal/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrEmailTaken if the email is registered.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

// ClubRepository returns clubs with Members and MemberCount populated from
// the membership set.
type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) error
	GetByID(ctx context.Context, id string) (*domain.Club, error)
	List(ctx context.Context) ([]domain.Club, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Club, error)
}

type MembershipRequestRepository interface {
	// Create stores a pending request. It fails with domain.ErrClubNotFound,
	// domain.ErrAlreadyMember or domain.ErrDuplicatePending; the checks and
	// the insert are one atomic operation.
	Create(ctx context.Context, req *domain.MembershipRequest) error
	GetByID(ctx context.Context, id string) (*domain.MembershipRequest, error)
	// ListByStatus lists requests with the given status. An empty clubID
	// lists every club.
	ListByStatus(ctx context.Context, status domain.MembershipRequestStatus, clubID string) ([]domain.MembershipRequest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.MembershipRequest, error)
	// Approve marks a pending request approved and adds the membership in
	// one atomic operation. An existing membership is left as is. A missing
	// or non-pending request yields domain.ErrRequestNotFound.
	Approve(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error)
	// Reject marks a pending request rejected. Same not-found rule as Approve.
	Reject(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error)
	// CountPendingByClub returns the number of pending requests per club id.
	CountPendingByClub(ctx context.Context) (map[string]int, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)
}

// Store groups the repositories of one storage backend.
type Store struct {
	UserRepository
	ClubRepository
	MembershipRequestRepository
	EventRepository

	close func() error
}

func NewStore(
	users UserRepository,
	clubs ClubRepository,
	requests MembershipRequestRepository,
	events EventRepository,
	closeFn func() error,
) *Store {
	return &Store{
		UserRepository:              users,
		ClubRepository:              clubs,
		MembershipRequestRepository: requests,
		EventRepository:             events,
		close:                       closeFn,
	}
}

// Close releases the backend's resources.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
