package service

import (
	"context"

	"clubsphere-backend/internal/domain"
)

type AuthService interface {
	// Register creates a member account, or an admin account for a
	// bootstrap admin email, and returns it with an access token.
	Register(ctx context.Context, userName, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

// ClubService serves clubs as seen by a viewer. Role checks happen in the
// HTTP layer; adminID arguments are already verified.
type ClubService interface {
	CreateClub(ctx context.Context, adminID string, club *domain.Club) (*domain.ClubView, error)
	ListClubs(ctx context.Context, viewerID string) ([]domain.ClubView, error)
	ListMyClubs(ctx context.Context, viewerID string) ([]domain.ClubView, error)
	GetClub(ctx context.Context, viewerID, clubID string) (*domain.ClubView, error)
}

type MembershipService interface {
	RequestMembership(ctx context.Context, userID, clubID, message string) (*domain.MembershipRequest, error)
	// ListPending lists pending requests, newest first. An empty clubID
	// lists every club.
	ListPending(ctx context.Context, clubID string) ([]domain.MembershipRequestView, error)
	ListMyRequests(ctx context.Context, userID string) ([]domain.MembershipRequestView, error)
	Approve(ctx context.Context, requestID, adminID string) (*domain.MembershipRequest, error)
	Reject(ctx context.Context, requestID, adminID string) (*domain.MembershipRequest, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, event *domain.Event) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

type NotificationService interface {
	// NotifyDecision emails the requester the outcome of their request.
	NotifyDecision(ctx context.Context, req *domain.MembershipRequest) error
	// SendPendingDigest emails every admin the pending request counts per
	// club and returns how many admins were emailed.
	SendPendingDigest(ctx context.Context, counts map[string]int) (int, error)
}
