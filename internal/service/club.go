package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository"
)

type clubService struct {
	clubRepo repository.ClubRepository
	userRepo repository.UserRepository
	reqRepo  repository.MembershipRequestRepository
}

func NewClubService(
	clubRepo repository.ClubRepository,
	userRepo repository.UserRepository,
	reqRepo repository.MembershipRequestRepository,
) ClubService {
	return &clubService{
		clubRepo: clubRepo,
		userRepo: userRepo,
		reqRepo:  reqRepo,
	}
}

func (s *clubService) CreateClub(ctx context.Context, adminID string, club *domain.Club) (*domain.ClubView, error) {
	club.Name = strings.TrimSpace(club.Name)
	club.Description = strings.TrimSpace(club.Description)
	if err := club.Validate(); err != nil {
		return nil, err
	}
	club.ID = ""
	club.CreatedByID = adminID

	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}

	creator, err := lookupUser(ctx, s.userRepo, adminID)
	if err != nil {
		return nil, err
	}
	view := domain.NewClubView(*club, creator, adminID, false)
	return &view, nil
}

func (s *clubService) ListClubs(ctx context.Context, viewerID string) ([]domain.ClubView, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return s.views(ctx, viewerID, clubs)
}

func (s *clubService) ListMyClubs(ctx context.Context, viewerID string) ([]domain.ClubView, error) {
	clubs, err := s.clubRepo.ListByMember(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs of user: %w", err)
	}
	return s.views(ctx, viewerID, clubs)
}

func (s *clubService) GetClub(ctx context.Context, viewerID, clubID string) (*domain.ClubView, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewerID, []domain.Club{*club})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views resolves creators and the viewer's pending requests for clubs. A
// creator that no longer exists is left unresolved.
func (s *clubService) views(ctx context.Context, viewerID string, clubs []domain.Club) ([]domain.ClubView, error) {
	pending := make(map[string]bool)
	if viewerID != "" {
		reqs, err := s.reqRepo.ListByUser(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list requests of user: %w", err)
		}
		for _, r := range reqs {
			if r.IsPending() {
				pending[r.ClubID] = true
			}
		}
	}

	users := newUserCache(s.userRepo)
	views := make([]domain.ClubView, 0, len(clubs))
	for _, c := range clubs {
		creator, err := users.get(ctx, c.CreatedByID)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.NewClubView(c, creator, viewerID, pending[c.ID]))
	}
	return views, nil
}

// lookupUser returns the user, or nil when the id is empty or unknown.
func lookupUser(ctx context.Context, repo repository.UserRepository, id string) (*domain.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

// userCache memoizes user lookups while building one response.
type userCache struct {
	repo  repository.UserRepository
	users map[string]*domain.User
}

func newUserCache(repo repository.UserRepository) *userCache {
	return &userCache{repo: repo, users: make(map[string]*domain.User)}
}

func (c *userCache) get(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := c.users[id]; ok {
		return u, nil
	}
	u, err := lookupUser(ctx, c.repo, id)
	if err != nil {
		return nil, err
	}
	c.users[id] = u
	return u, nil
}

type clubCache struct {
	repo  repository.ClubRepository
	clubs map[string]*domain.Club
}

func newClubCache(repo repository.ClubRepository) *clubCache {
	return &clubCache{repo: repo, clubs: make(map[string]*domain.Club)}
}

// get returns the club, or nil when it no longer exists.
func (c *clubCache) get(ctx context.Context, id string) (*domain.Club, error) {
	if club, ok := c.clubs[id]; ok {
		return club, nil
	}
	club, err := c.repo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrClubNotFound) {
		club, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club %s: %w", id, err)
	}
	c.clubs[id] = club
	return club, nil
}
