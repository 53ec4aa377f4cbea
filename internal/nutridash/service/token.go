package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
)

// AccessToken is a signed session token handed to the client after the
// second factor succeeded.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn int // seconds
	ExpiresAt time.Time
}

// TokenService issues session tokens. Tokens are EdDSA-signed JWTs that any
// holder of the published JWKS can verify.
type TokenService struct {
	Signer    jwtx.Signer
	Store     store.Store
	Issuer    string
	Audience  []string
	AccessTTL time.Duration
	Clock     Clock
}

// IssueSession signs a token for userID. The account is re-read so a user
// disabled between the two login steps gets nothing.
func (s *TokenService) IssueSession(ctx context.Context, userID string) (AccessToken, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return AccessToken{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return AccessToken{}, domain.ErrAccountDisabled
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	now := nowFrom(s.Clock)

	claims := jwtx.NewAccessClaims(
		user.ID,
		user.Email,
		user.Roles,
		[]string{jwtx.AMRPassword, jwtx.AMREmailOTP, jwtx.AMRMFA},
		ttl,
		s.Issuer,
		s.Audience,
		now,
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return AccessToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(ttl.Seconds()),
		ExpiresAt: now.Add(ttl),
	}, nil
}
