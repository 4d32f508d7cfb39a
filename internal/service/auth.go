package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/logger"
	"clubsphere-backend/internal/repository"
	"clubsphere-backend/internal/security"
)

type authService struct {
	userRepo    repository.UserRepository
	tokens      security.TokenManager
	adminEmails map[string]struct{}
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, adminEmails []string) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		adminEmails: admins,
	}
}

func (s *authService) Register(ctx context.Context, userName, email, password string) (*domain.User, string, error) {
	userName = strings.TrimSpace(userName)
	email = strings.ToLower(strings.TrimSpace(email))

	var missing []string
	if userName == "" {
		missing = append(missing, "userName")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, "", domain.NewValidationError("Incomplete registration details", missing...)
	}
	if len(password) < security.MinPasswordLength {
		return nil, "", domain.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters", security.MinPasswordLength), "password")
	}
	if len(password) > security.MaxPasswordLength {
		return nil, "", domain.NewValidationError(
			fmt.Sprintf("Password must be at most %d bytes", security.MaxPasswordLength), "password")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleMember,
	}
	if _, ok := s.adminEmails[email]; ok {
		user.Role = domain.UserRoleAdmin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}
	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "role", user.Role)

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if !security.CheckPassword(user.PasswordHash, password) {
		logger.WarnContext(ctx, "Login failed", "user_id", user.ID)
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
