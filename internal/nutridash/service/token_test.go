package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/domain"
	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssueSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.createUser(t, "a@example.com", password)

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)

	svc := &TokenService{
		Signer:    signer,
		Store:     f.store,
		Issuer:    "nutridash",
		Audience:  []string{"nutridash"},
		AccessTTL: 10 * time.Minute,
		Clock:     f.clock,
	}

	tok, err := svc.IssueSession(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Equal(t, 600, tok.ExpiresIn)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	v := jwtx.NewVerifierEdDSA(keys, "nutridash", []string{"nutridash"}).WithClock(f.clock.Now)

	claims, err := v.Verify(tok.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "a@example.com", claims.Email)
	require.Contains(t, claims.AMR, jwtx.AMRMFA)
	require.True(t, claims.HasRole(domain.RoleUser))

	_, err = f.users.ToggleActive(ctx, "", u.ID)
	require.NoError(t, err)
	_, err = svc.IssueSession(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrAccountDisabled)
}
