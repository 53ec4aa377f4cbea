package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/nutridash/pkg/cryptox"
	"github.com/aussiebroadwan/nutridash/pkg/jwtx"
)

const signingKeyID = "nutridash-session"

// Keys bundles what the HTTP layer and TokenService need to sign and check
// session tokens.
type Keys struct {
	Signer   *jwtx.EdDSASigner
	KeySet   *jwtx.KeySet
	Verifier jwtx.Verifier
}

// LoadKeys reads the Ed25519 signing key from cfg.SigningKeyFile, creating it
// on first start. With a master key the file holds the sealed PEM, so
// sessions survive restarts without the key sitting on disk in the clear.
func LoadKeys(cfg Config, logger *slog.Logger) (*Keys, error) {
	pemKey, err := loadOrCreateSigningKey(cfg.SigningKeyFile, []byte(cfg.MasterKey), logger)
	if err != nil {
		return nil, err
	}

	signer, err := jwtx.NewSignerEdDSA(signingKeyID, pemKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &Keys{
		Signer:   signer,
		KeySet:   keys,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer, nil),
	}, nil
}

func loadOrCreateSigningKey(file string, master []byte, logger *slog.Logger) ([]byte, error) {
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if len(master) == 0 {
			return data, nil
		}
		pemKey, err := cryptox.OpenKey(master, data)
		if err != nil {
			return nil, fmt.Errorf("failed to open signing key %s: %w", file, err)
		}
		return pemKey, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	out := pemKey
	if len(master) > 0 {
		if out, err = cryptox.SealKey(master, pemKey); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("signing key stored unsealed, set NUTRIDASH_MASTER_KEY to encrypt it", "path", file)
	}

	if err := os.MkdirAll(filepath.Dir(filepath.Clean(file)), 0o750); err != nil {
		return nil, err
	}
	if err := os.WriteFile(file, out, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write signing key: %w", err)
	}

	logger.Info("generated new signing key", "path", file, "sealed", len(master) > 0)
	return pemKey, nil
}
