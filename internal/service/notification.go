package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/metrics"
	"clubsphere-backend/internal/notify"
	"clubsphere-backend/internal/repository"
)

type notificationService struct {
	sender   notify.Sender
	userRepo repository.UserRepository
	clubRepo repository.ClubRepository
	metrics  *metrics.Metrics
}

func NewNotificationService(
	sender notify.Sender,
	userRepo repository.UserRepository,
	clubRepo repository.ClubRepository,
	m *metrics.Metrics,
) NotificationService {
	return &notificationService{
		sender:   sender,
		userRepo: userRepo,
		clubRepo: clubRepo,
		metrics:  m,
	}
}

func (s *notificationService) NotifyDecision(ctx context.Context, req *domain.MembershipRequest) error {
	user, err := lookupUser(ctx, s.userRepo, req.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		logger.DebugContext(ctx, "Requester no longer exists, skipping notification", "requestID", req.ID)
		return nil
	}

	club, err := newClubCache(s.clubRepo).get(ctx, req.ClubID)
	if err != nil {
		return err
	}
	clubName := club.Ref().DisplayName()

	var subject, body string
	switch req.Status {
	case domain.MembershipRequestStatusApproved:
		subject = fmt.Sprintf("Welcome to %s", clubName)
		body = fmt.Sprintf("Hello %s,\n\nYour request to join %s has been approved. You are now a member.\n\nThe ClubSphere Team", user.UserName, clubName)
	case domain.MembershipRequestStatusRejected:
		subject = fmt.Sprintf("Your request to join %s", clubName)
		body = fmt.Sprintf("Hello %s,\n\nYour request to join %s was not approved this time.\n\nThe ClubSphere Team", user.UserName, clubName)
	default:
		return fmt.Errorf("notify decision %q: %w", req.Status, domain.ErrInvalidStatus)
	}

	err = s.sender.Send(ctx, notify.Message{To: []string{user.Email}, Subject: subject, Text: body})
	s.metrics.AddNotification(err)
	if err != nil {
		return fmt.Errorf("failed to send decision email: %w", err)
	}
	return nil
}

func (s *notificationService) SendPendingDigest(ctx context.Context, counts map[string]int) (int, error) {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0, nil
	}

	admins, err := s.userRepo.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("failed to list admins: %w", err)
	}
	if len(admins) == 0 {
		logger.WarnContext(ctx, "Pending requests but no admin to notify", "pending", total)
		return 0, nil
	}

	clubs := newClubCache(s.clubRepo)
	lines := make([]string, 0, len(counts))
	for clubID, n := range counts {
		club, err := clubs.get(ctx, clubID)
		if err != nil {
			return 0, err
		}
		lines = append(lines, fmt.Sprintf("  %s: %d", club.Ref().DisplayName(), n))
	}
	sort.Strings(lines)

	body := fmt.Sprintf("There are %d pending membership requests:\n\n%s\n\nThe ClubSphere Team", total, strings.Join(lines, "\n"))
	to := make([]string, len(admins))
	for i, a := range admins {
		to[i] = a.Email
	}

	err = s.sender.Send(ctx, notify.Message{
		To:      to,
		Subject: fmt.Sprintf("%d pending membership requests", total),
		Text:    body,
	})
	s.metrics.AddNotification(err)
	if err != nil {
		return 0, fmt.Errorf("failed to send pending digest: %w", err)
	}
	return len(admins), nil
}
