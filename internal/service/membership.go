package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/repository"
)

type membershipService struct {
	reqRepo  repository.MembershipRequestRepository
	clubRepo repository.ClubRepository
	userRepo repository.UserRepository
	notifier NotificationService
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewMembershipService returns the membership request lifecycle service.
// notifier and m may be nil.
func NewMembershipService(
	reqRepo repository.MembershipRequestRepository,
	clubRepo repository.ClubRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	m *metrics.Metrics,
) MembershipService {
	return &membershipService{
		reqRepo:  reqRepo,
		clubRepo: clubRepo,
		userRepo: userRepo,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

func (s *membershipService) RequestMembership(ctx context.Context, userID, clubID, message string) (*domain.MembershipRequest, error) {
	logger.EnterMethod("membershipService.RequestMembership", "userID", userID, "clubID", clubID)

	req := domain.NewMembershipRequest(userID, clubID, strings.TrimSpace(message))
	req.CreatedAt = s.now().UTC()
	if err := s.reqRepo.Create(ctx, req); err != nil {
		s.metrics.AddMembershipRequest(outcomeOf(err))
		if isExpected(err) {
			logger.WarnContext(ctx, "Membership request refused", "userID", userID, "clubID", clubID, "reason", err)
			return nil, err
		}
		logger.ExitMethodWithError("membershipService.RequestMembership", err, "userID", userID, "clubID", clubID)
		return nil, fmt.Errorf("failed to create membership request: %w", err)
	}
	s.metrics.AddMembershipRequest("created")

	logger.ExitMethod("membershipService.RequestMembership", "requestID", req.ID)
	return req, nil
}

func (s *membershipService) ListPending(ctx context.Context, clubID string) ([]domain.MembershipRequestView, error) {
	reqs, err := s.reqRepo.ListByStatus(ctx, domain.MembershipRequestStatusPending, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return s.views(ctx, reqs)
}

func (s *membershipService) ListMyRequests(ctx context.Context, userID string) ([]domain.MembershipRequestView, error) {
	reqs, err := s.reqRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of user: %w", err)
	}
	return s.views(ctx, reqs)
}

// views resolves the user and club of every request. References that no
// longer resolve stay nil and render as placeholders.
func (s *membershipService) views(ctx context.Context, reqs []domain.MembershipRequest) ([]domain.MembershipRequestView, error) {
	users := newUserCache(s.userRepo)
	clubs := newClubCache(s.clubRepo)

	views := make([]domain.MembershipRequestView, 0, len(reqs))
	for _, r := range reqs {
		user, err := users.get(ctx, r.UserID)
		if err != nil {
			return nil, err
		}
		club, err := clubs.get(ctx, r.ClubID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.NewMembershipRequestView(r, user, club))
	}
	return views, nil
}

func (s *membershipService) Approve(ctx context.Context, requestID, adminID string) (*domain.MembershipRequest, error) {
	return s.decide(ctx, domain.MembershipRequestStatusApproved, requestID, adminID)
}

func (s *membershipService) Reject(ctx context.Context, requestID, adminID string) (*domain.MembershipRequest, error) {
	return s.decide(ctx, domain.MembershipRequestStatusRejected, requestID, adminID)
}

func (s *membershipService) decide(
	ctx context.Context,
	to domain.MembershipRequestStatus,
	requestID, adminID string,
) (*domain.MembershipRequest, error) {
	method := "membershipService.Approve"
	apply := s.reqRepo.Approve
	if to == domain.MembershipRequestStatusRejected {
		method = "membershipService.Reject"
		apply = s.reqRepo.Reject
	}
	logger.EnterMethod(method, "requestID", requestID, "adminID", adminID)

	req, err := apply(ctx, requestID, adminID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Membership request not pending", "requestID", requestID)
			return nil, err
		}
		logger.ExitMethodWithError(method, err, "requestID", requestID)
		return nil, fmt.Errorf("failed to %s membership request: %w", decisionVerb(to), err)
	}
	s.metrics.AddMembershipDecision(string(to))
	logger.InfoContext(ctx, "Membership request decided",
		"requestID", req.ID, "clubID", req.ClubID, "userID", req.UserID, "status", req.Status, "adminID", adminID)

	if s.notifier != nil {
		if err := s.notifier.NotifyDecision(ctx, req); err != nil {
			logger.WarnContext(ctx, "Failed to notify requester", "requestID", req.ID, "error", err)
		}
	}

	logger.ExitMethod(method, "requestID", requestID, "status", req.Status)
	return req, nil
}

func decisionVerb(to domain.MembershipRequestStatus) string {
	if to == domain.MembershipRequestStatusApproved {
		return "approve"
	}
	return "reject"
}

// isExpected reports whether err is a domain outcome rather than a failure.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		domain.IsValidation(err)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, domain.ErrDuplicatePending):
		return "duplicate_pending"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
