package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fureverhome/fureverhome-go/internal/crypto"
	"github.com/fureverhome/fureverhome-go/internal/model"
	"github.com/fureverhome/fureverhome-go/internal/notify"
)

// AuthService handles sign-in, user accounts and roles.
type AuthService struct {
	users     UserStore
	roles     *RoleResolver
	notifier  Notifier
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, roles *RoleResolver, notifier Notifier, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		roles:     roles,
		notifier:  notifier,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// SignIn mints an identity token for email. The account itself is created by UpsertUser.
func (s *AuthService) SignIn(email string) (string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}
	return crypto.GenerateToken(email, s.jwtSecret, s.jwtExpiry)
}

// UpsertUser creates the account on first sign-in or refreshes its profile.
// New accounts get a welcome mail.
func (s *AuthService) UpsertUser(ctx context.Context, req model.UpsertUserRequest) (model.UpsertUserResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return model.UpsertUserResponse{}, err
	}

	user := &model.User{
		Email:     email,
		Name:      strings.TrimSpace(req.Name),
		PhotoURL:  strings.TrimSpace(req.PhotoURL),
		Role:      model.RoleRegular,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.users.Upsert(ctx, user)
	if err != nil {
		return model.UpsertUserResponse{}, fmt.Errorf("upsert user: %w", err)
	}

	if created {
		s.notifier.Enqueue(notify.Welcome(user.Email, user.Name))
	}

	stored, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.UpsertUserResponse{}, err
	}
	return model.UpsertUserResponse{User: *stored, Created: created}, nil
}

// GetRole reports the role of email. Callers may look up themselves; admins may look up anyone.
func (s *AuthService) GetRole(ctx context.Context, caller, email string) (model.RoleResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := authorizeOwner(ctx, s.roles, caller, email); err != nil {
		return model.RoleResponse{}, err
	}

	role, err := s.roles.RoleOf(ctx, email)
	if err != nil {
		return model.RoleResponse{}, err
	}
	return model.RoleResponse{Email: email, Role: role, Admin: role == model.RoleAdmin}, nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Promote grants the admin role and drops the cached role so the change is seen at once.
func (s *AuthService) Promote(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.users.SetRole(ctx, email, model.RoleAdmin); err != nil {
		return err
	}
	s.roles.Invalidate(email)
	return nil
}
