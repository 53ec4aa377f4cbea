package jwtx

import (
	"slices"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of a dashboard session token.
const DefaultAccessTokenTTL = 15 * time.Minute

// Authentication method references carried in the "amr" claim (RFC 8176).
const (
	AMRPassword = "pwd"
	AMREmailOTP = "otp"
	AMRMFA      = "mfa"
)

// Claims are the session-token claims issued once both login steps succeed.
type Claims struct {
	jwt.RegisteredClaims

	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	AMR   []string `json:"amr,omitempty"`
}

// NewAccessClaims stamps iat and nbf at now and a random jti.
func NewAccessClaims(
	subject, email string,
	roles, amr []string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	jti, _ := cryptox.GenerateToken(cryptox.TokenSize128)
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		Email: email,
		Roles: roles,
		AMR:   amr,
	}
}

func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAMR reports whether the user authenticated with method.
func (c *Claims) HasAMR(method string) bool {
	return slices.Contains(c.AMR, method)
}

// Expectations are what a verifier requires of otherwise well-signed
// claims. Empty Issuer or Audience is not checked.
type Expectations struct {
	Issuer   string
	Audience []string
	Now      time.Time
	Leeway   time.Duration // applied to exp and nbf
}

// Check returns ErrIssuer, ErrAudience, ErrExpired or ErrNotYetValid.
func (c *Claims) Check(want Expectations) error {
	if want.Issuer != "" && c.Issuer != want.Issuer {
		return ErrIssuer
	}
	if len(want.Audience) > 0 && !slices.ContainsFunc(want.Audience, func(a string) bool {
		return slices.Contains(c.Audience, a)
	}) {
		return ErrAudience
	}
	if c.ExpiresAt != nil && want.Now.After(c.ExpiresAt.Add(want.Leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && want.Now.Before(c.NotBefore.Add(-want.Leeway)) {
		return ErrNotYetValid
	}
	return nil
}
