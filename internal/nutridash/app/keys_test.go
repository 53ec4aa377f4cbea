package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadKeysCreatesAndReloads(t *testing.T) {
	cfg := Config{
		Issuer:         "nutridash",
		SigningKeyFile: filepath.Join(t.TempDir(), "keys", "signing.key"),
	}

	first, err := LoadKeys(cfg, discard)
	require.NoError(t, err)
	require.True(t, first.KeySet.IsReady())

	data, err := os.ReadFile(cfg.SigningKeyFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "PRIVATE KEY")

	second, err := LoadKeys(cfg, discard)
	require.NoError(t, err)
	require.Equal(t, first.Signer.PublicJWK().X, second.Signer.PublicJWK().X)

	// A token from the first load verifies after a restart.
	tok, err := first.Signer.Sign(jwtx.NewAccessClaims("u", "u@example.com", nil, nil, time.Minute, cfg.Issuer, nil, time.Now()))
	require.NoError(t, err)
	_, err = second.Verifier.Verify(tok)
	require.NoError(t, err)
}

func TestLoadKeysSealed(t *testing.T) {
	cfg := Config{
		Issuer:         "nutridash",
		SigningKeyFile: filepath.Join(t.TempDir(), "signing.key"),
		MasterKey:      "correct horse battery staple",
	}

	first, err := LoadKeys(cfg, discard)
	require.NoError(t, err)

	sealed, err := os.ReadFile(cfg.SigningKeyFile)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "PRIVATE KEY")

	pemKey, err := cryptox.OpenKey([]byte(cfg.MasterKey), sealed)
	require.NoError(t, err)
	require.Contains(t, string(pemKey), "PRIVATE KEY")

	second, err := LoadKeys(cfg, discard)
	require.NoError(t, err)
	require.Equal(t, first.Signer.PublicJWK().X, second.Signer.PublicJWK().X)

	cfg.MasterKey = "wrong"
	_, err = LoadKeys(cfg, discard)
	require.ErrorIs(t, err, cryptox.ErrSealedKeyCorrupt)
}
