package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/idx"
)

const MinPasswordLength = 8

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password too short")
	ErrEmailTaken       = errors.New("email already registered")
	ErrToggleSelf       = errors.New("cannot deactivate your own account")
)

// UserService manages accounts: creation and (de)activation. It backs the
// CLI and the admin endpoints.
type UserService struct {
	Store     store.Store
	Passwords PasswordVerifier
	Clock     Clock
}

// CreateUser registers an active account. admin adds the admin role on top
// of the default user role.
func (s *UserService) CreateUser(ctx context.Context, email, password string, admin bool) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if at := strings.IndexByte(email, '@'); at < 1 || at == len(email)-1 {
		return domain.User{}, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: at least %d characters", ErrPasswordTooShort, MinPasswordLength)
	}

	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	roles := []string{domain.RoleUser}
	if admin {
		roles = append(roles, domain.RoleAdmin)
	}

	now := nowFrom(s.Clock)
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fmt.Errorf("%w: %s", ErrEmailTaken, email)
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
}

// ListUsers returns one page of accounts and the total count.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.Store.Users().ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ToggleActive flips the active flag of userID. actorID is the admin making
// the change; an admin may not toggle their own account. Pass an empty
// actorID from trusted callers such as the CLI.
func (s *UserService) ToggleActive(ctx context.Context, actorID, userID string) (domain.User, error) {
	if actorID != "" && actorID == userID {
		return domain.User{}, ErrToggleSelf
	}

	var out domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		u.IsActive = !u.IsActive
		u.UpdatedAt = nowFrom(s.Clock)
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return err
		}
		if !u.IsActive {
			// A disabled account must not finish a login it already started.
			if err := tx.PendingAuths().DeletePendingAuthsByUser(ctx, u.ID); err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}
