package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fureverhome/fureverhome-go/internal/model"
)

const roleCacheSize = 4096

// RoleResolver answers "is this user an admin" from the user store, caching
// answers for a short TTL. Promotions invalidate the cached entry.
type RoleResolver struct {
	users UserStore
	cache *expirable.LRU[string, model.Role]
}

// NewRoleResolver creates a resolver. A non-positive ttl disables caching.
func NewRoleResolver(users UserStore, ttl time.Duration) *RoleResolver {
	r := &RoleResolver{users: users}
	if ttl > 0 {
		r.cache = expirable.NewLRU[string, model.Role](roleCacheSize, nil, ttl)
	}
	return r
}

// RoleOf returns the stored role of email, or ErrUserNotFound.
func (r *RoleResolver) RoleOf(ctx context.Context, email string) (model.Role, error) {
	if r.cache != nil {
		if role, ok := r.cache.Get(email); ok {
			return role, nil
		}
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if r.cache != nil {
		r.cache.Add(email, user.Role)
	}
	return user.Role, nil
}

// IsAdmin reports whether email belongs to an existing admin. An unknown user is not an admin.
func (r *RoleResolver) IsAdmin(ctx context.Context, email string) (bool, error) {
	role, err := r.RoleOf(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == model.RoleAdmin, nil
}

// Invalidate drops the cached role of email.
func (r *RoleResolver) Invalidate(email string) {
	if r.cache != nil {
		r.cache.Remove(email)
	}
}

// authorizeOwner allows the owner of a record, or any admin.
func authorizeOwner(ctx context.Context, roles *RoleResolver, caller, owner string) error {
	if caller != "" && strings.EqualFold(caller, owner) {
		return nil
	}
	admin, err := roles.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !admin {
		return ErrForbidden
	}
	return nil
}

// parseRef validates an entity identifier and returns its canonical form.
func parseRef(id string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidReference
	}
	return u.String(), nil
}

// normalizeEmail validates an address and lower-cases it.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}
