package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "nutridash"

func TestCheckIssuerAndAudience(t *testing.T) {
	now := time.Now()
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   exampleIssuer,
			Audience: []string{"dashboard", "reports"},
		},
	}

	tests := []struct {
		name string
		want jwtx.Expectations
		err  error
	}{
		{"matching issuer", jwtx.Expectations{Issuer: exampleIssuer, Now: now}, nil},
		{"issuer not enforced", jwtx.Expectations{Now: now}, nil},
		{"wrong issuer", jwtx.Expectations{Issuer: "someone-else", Now: now}, jwtx.ErrIssuer},
		{"one audience matches", jwtx.Expectations{Audience: []string{"foo", "reports"}, Now: now}, nil},
		{"no audience matches", jwtx.Expectations{Audience: []string{"admin"}, Now: now}, jwtx.ErrAudience},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Check(tt.want)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCheckExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := jwtx.NewAccessClaims("user-1", "a@example.com", nil, nil, time.Minute, exampleIssuer, nil, now)

	tests := []struct {
		name   string
		at     time.Time
		leeway time.Duration
		err    error
	}{
		{"at issue", now, 0, nil},
		{"exactly at expiry", now.Add(time.Minute), 0, nil},
		{"just after expiry", now.Add(time.Minute + time.Second), 0, jwtx.ErrExpired},
		{"after expiry within leeway", now.Add(time.Minute + time.Second), 5 * time.Second, nil},
		{"before nbf", now.Add(-time.Second), 0, jwtx.ErrNotYetValid},
		{"before nbf within leeway", now.Add(-time.Second), 5 * time.Second, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := claims.Check(jwtx.Expectations{Now: tt.at, Leeway: tt.leeway})
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("no exp or nbf", func(t *testing.T) {
		require.NoError(t, (&jwtx.Claims{}).Check(jwtx.Expectations{Now: now}))
	})
}

func TestRolesAndMethods(t *testing.T) {
	c := jwtx.NewAccessClaims("u", "u@example.com", []string{"user", "admin"},
		[]string{jwtx.AMRPassword, jwtx.AMRMFA}, time.Minute, "", nil, time.Now())
	require.True(t, c.HasRole("admin"))
	require.False(t, c.HasRole("root"))
	require.True(t, c.HasAMR(jwtx.AMRMFA))
	require.False(t, c.HasAMR(jwtx.AMREmailOTP))
	require.Len(t, c.ID, 22)

	other := jwtx.NewAccessClaims("u", "", nil, nil, time.Minute, "", nil, time.Now())
	require.NotEqual(t, c.ID, other.ID)
}
