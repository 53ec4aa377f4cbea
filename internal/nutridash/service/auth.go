package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/lock"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/slogx"
)

// DefaultMailTimeout bounds a single code email, independent of the request
// that triggered it.
const DefaultMailTimeout = 15 * time.Second

type LoginRequest struct {
	Email     string
	Password  string
	IPAddress string
}

// LoginResult is returned once the password step passed. The client must
// present PendingToken together with the emailed code before ExpiresAt.
type LoginResult struct {
	UserID       string
	PendingToken string
	ExpiresAt    time.Time
}

// AuthService runs the two step login: password, then an emailed one-time
// code. Work for one account is serialised on the account's email.
type AuthService struct {
	Store       store.Store
	Mailer      Mailer
	Locker      lock.Locker
	Passwords   PasswordVerifier
	Clock       Clock
	MailTimeout time.Duration

	mailWG sync.WaitGroup
}

// Login checks the password and, on success, issues a fresh code and a
// pending authentication. Every outcome is written to the login audit log.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	email := domain.NormalizeEmail(req.Email)
	l := slogx.FromContext(ctx).With(slog.String("email", email))

	unlock, err := s.Locker.Lock(ctx, lock.Key("login", email))
	if err != nil {
		return LoginResult{}, err
	}
	defer unlock()

	now := nowFrom(s.Clock)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		l.Info("login failed", slog.String("reason", domain.ReasonUserNotFound))
		return LoginResult{}, s.failLogin(ctx, nil, email, req.IPAddress, domain.ReasonUserNotFound, now, domain.ErrInvalidCredentials)
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	if !user.IsActive {
		l.Info("login failed", slog.String("reason", domain.ReasonAccountDisabled))
		return LoginResult{}, s.failLogin(ctx, nil, email, req.IPAddress, domain.ReasonAccountDisabled, now, domain.ErrAccountDisabled)
	}
	if user.IsBlocked(now) {
		l.Info("login failed", slog.String("reason", domain.ReasonAccountBlocked), slog.Time("blocked_until", *user.BlockedUntil))
		return LoginResult{}, s.failLogin(ctx, nil, email, req.IPAddress, domain.ReasonAccountBlocked, now, domain.ErrAccountBlocked)
	}

	if err := s.Passwords.Verify(req.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, fmt.Errorf("verify password: %w", err)
		}
		user.RecordFailedLogin(now)
		l.Info("login failed",
			slog.String("reason", domain.ReasonInvalidPassword),
			slog.Int("failed_attempts", user.FailedLoginAttempts),
			slog.Bool("blocked", user.IsBlocked(now)),
		)
		return LoginResult{}, s.failLogin(ctx, &user, email, req.IPAddress, domain.ReasonInvalidPassword, now, domain.ErrInvalidCredentials)
	}

	if s.Passwords.NeedsRehash(user.PasswordHash) {
		if hash, err := s.Passwords.Hash(req.Password); err == nil {
			user.PasswordHash = hash
			user.UpdatedAt = now
		} else {
			l.Warn("failed to upgrade password hash", slog.Any("err", err))
		}
	}

	code, err := domain.NewTwoFactorCode(user.ID, now)
	if err != nil {
		return LoginResult{}, err
	}
	pending, token, err := domain.NewPendingAuth(code, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("create pending authentication: %w", err)
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFactorCodes().SaveTwoFactorCode(ctx, code); err != nil {
			return fmt.Errorf("save two-factor code: %w", err)
		}
		if err := tx.PendingAuths().CreatePendingAuth(ctx, pending); err != nil {
			return fmt.Errorf("save pending authentication: %w", err)
		}
		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := tx.LoginAttempts().CreateLoginAttempt(ctx, domain.NewLoginAttempt(email, req.IPAddress, true, "", now)); err != nil {
			return fmt.Errorf("record login attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("password accepted, two-factor code issued", slog.String("user_id", user.ID))
	s.dispatchCode(ctx, email, code)

	return LoginResult{
		UserID:       user.ID,
		PendingToken: token,
		ExpiresAt:    code.ExpiresAt,
	}, nil
}

// failLogin persists the user (when its lockout state changed) and the audit
// row, then returns cause. A storage failure replaces cause.
func (s *AuthService) failLogin(
	ctx context.Context,
	user *domain.User,
	email, ip, reason string,
	now time.Time,
	cause error,
) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if user != nil {
			if err := tx.Users().UpdateUser(ctx, *user); err != nil {
				return fmt.Errorf("update user: %w", err)
			}
		}
		if err := tx.LoginAttempts().CreateLoginAttempt(ctx, domain.NewLoginAttempt(email, ip, false, reason, now)); err != nil {
			return fmt.Errorf("record login attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return cause
}

// dispatchCode emails the code in the background. The send is detached from
// the request so a slow relay never holds up the login response; a failed
// send is logged and the code stays valid.
func (s *AuthService) dispatchCode(ctx context.Context, email string, code domain.TwoFactorCode) {
	timeout := s.MailTimeout
	if timeout <= 0 {
		timeout = DefaultMailTimeout
	}
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		defer cancel()

		if err := s.Mailer.SendTwoFactorCode(mctx, email, code.Code, code.ExpiresAt); err != nil {
			slogx.FromContext(mctx).Error("failed to send two-factor code",
				slog.String("user_id", code.UserID),
				slog.Any("err", err),
			)
		}
	}()
}

// WaitForMail blocks until every queued code email has been handed off or
// timed out.
func (s *AuthService) WaitForMail() {
	s.mailWG.Wait()
}

// ValidateTwoFactor consumes the newest active code of userID. On success
// the user's lockout state is cleared in the same transaction.
func (s *AuthService) ValidateTwoFactor(ctx context.Context, userID, code string) error {
	l := slogx.FromContext(ctx).With(slog.String("user_id", userID))

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNoActiveCode
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	unlock, err := s.Locker.Lock(ctx, lock.Key("login", user.Email))
	if err != nil {
		return err
	}
	defer unlock()

	now := nowFrom(s.Clock)
	code = strings.TrimSpace(code)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		active, err := tx.TwoFactorCodes().GetActiveTwoFactorCode(ctx, userID, now)
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrNoActiveCode
		}
		if err != nil {
			return fmt.Errorf("load two-factor code: %w", err)
		}

		ok, err := active.Validate(code, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidCode
		}

		if err := tx.TwoFactorCodes().SaveTwoFactorCode(ctx, active); err != nil {
			return fmt.Errorf("save two-factor code: %w", err)
		}

		u, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		u.RecordSuccessfulLogin(now)
		if err := tx.Users().UpdateUser(ctx, u); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		l.Warn("two-factor validation failed", slog.Any("err", err))
		return err
	}

	l.Info("two-factor validation succeeded")
	return nil
}

// CompleteTwoFactor resolves a pending authentication from its token and
// validates code against it. It returns the authenticated user id. The
// pending authentication is discarded on success and on any terminal
// failure; retryable failures leave it in place until MaxTwoFactorAttempts
// codes have been tried.
func (s *AuthService) CompleteTwoFactor(ctx context.Context, pendingToken, code string) (string, error) {
	pendingToken = strings.TrimSpace(pendingToken)
	if pendingToken == "" {
		return "", domain.ErrPendingAuthNotFound
	}

	pending, err := s.Store.PendingAuths().GetPendingAuthByTokenHash(ctx, cryptox.FingerprintToken(pendingToken))
	if errors.Is(err, store.ErrNotFound) {
		return "", domain.ErrPendingAuthNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load pending authentication: %w", err)
	}

	if pending.IsExpired(nowFrom(s.Clock)) {
		s.discardPending(ctx, pending.ID)
		return "", domain.ErrCodeExpired
	}

	// The attempt is counted before the code is checked so concurrent
	// guesses cannot slip past the cap.
	attempts, err := s.Store.PendingAuths().IncrementPendingAuthAttempts(ctx, pending.ID)
	if errors.Is(err, store.ErrNotFound) {
		return "", domain.ErrPendingAuthNotFound
	}
	if err != nil {
		return "", fmt.Errorf("count two-factor attempt: %w", err)
	}
	if attempts > domain.MaxTwoFactorAttempts {
		s.discardPending(ctx, pending.ID)
		slogx.FromContext(ctx).Warn("two-factor attempts exhausted", slog.String("user_id", pending.UserID))
		return "", domain.ErrTooManyAttempts
	}

	err = s.ValidateTwoFactor(ctx, pending.UserID, code)
	switch {
	case err == nil:
		// A user may have started several logins; any of them completing
		// ends all of them.
		if derr := s.Store.PendingAuths().DeletePendingAuthsByUser(ctx, pending.UserID); derr != nil {
			slogx.FromContext(ctx).Warn("failed to delete pending authentications", slog.Any("err", derr))
		}
		return pending.UserID, nil
	case domain.IsRetryable(err):
		return "", err
	case errors.Is(err, domain.ErrCodeExpired), errors.Is(err, domain.ErrCodeAlreadyUsed):
		s.discardPending(ctx, pending.ID)
		return "", err
	default:
		return "", err
	}
}

func (s *AuthService) discardPending(ctx context.Context, id string) {
	if err := s.Store.PendingAuths().DeletePendingAuth(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("failed to delete pending authentication", slog.String("pending_id", id), slog.Any("err", err))
	}
}
