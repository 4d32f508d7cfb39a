package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/notify"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockClubRepo struct {
	mock.Mock
}

func (m *MockClubRepo) Create(ctx context.Context, c *domain.Club) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Club), args.Error(1)
}

func (m *MockClubRepo) List(ctx context.Context) ([]domain.Club, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Club), args.Error(1)
}

func (m *MockClubRepo) ListByMember(ctx context.Context, userID string) ([]domain.Club, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Club), args.Error(1)
}

type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) Create(ctx context.Context, req *domain.MembershipRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockRequestRepo) GetByID(ctx context.Context, id string) (*domain.MembershipRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipRequest), args.Error(1)
}

func (m *MockRequestRepo) ListByStatus(ctx context.Context, status domain.MembershipRequestStatus, clubID string) ([]domain.MembershipRequest, error) {
	args := m.Called(ctx, status, clubID)
	return args.Get(0).([]domain.MembershipRequest), args.Error(1)
}

func (m *MockRequestRepo) ListByUser(ctx context.Context, userID string) ([]domain.MembershipRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.MembershipRequest), args.Error(1)
}

func (m *MockRequestRepo) Approve(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	args := m.Called(ctx, id, adminID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipRequest), args.Error(1)
}

func (m *MockRequestRepo) Reject(ctx context.Context, id, adminID string, at time.Time) (*domain.MembershipRequest, error) {
	args := m.Called(ctx, id, adminID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MembershipRequest), args.Error(1)
}

func (m *MockRequestRepo) CountPendingByClub(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyDecision(ctx context.Context, req *domain.MembershipRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockNotificationService) SendPendingDigest(ctx context.Context, counts map[string]int) (int, error) {
	args := m.Called(ctx, counts)
	return args.Int(0), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg notify.Message) error {
	return m.Called(ctx, msg).Error(0)
}
