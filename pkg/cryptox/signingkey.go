package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSealedKeyCorrupt is returned when a sealed key fails authentication.
	ErrSealedKeyCorrupt = errors.New("sealed key is corrupt or the master key is wrong")
	// ErrNotEd25519Key is returned for PEM input that is not a PKCS8 Ed25519 key.
	ErrNotEd25519Key = errors.New("not an Ed25519 private key")
)

const pemPrivateKey = "PRIVATE KEY"

// GenerateEd25519Key returns a fresh session signing key as PKCS8 PEM.
func GenerateEd25519Key() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate Ed25519 key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal PKCS8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: der}), nil
}

// ParseEd25519Key reverses GenerateEd25519Key.
func ParseEd25519Key(pemKey []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, fmt.Errorf("%w: invalid PEM", ErrNotEd25519Key)
	}
	if block.Type != pemPrivateKey {
		return nil, fmt.Errorf("%w: PEM type %q", ErrNotEd25519Key, block.Type)
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotEd25519Key, err)
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotEd25519Key, parsed)
	}
	return key, nil
}

// SealKey encrypts PEM key material with AES-256-GCM under a key derived from
// master. Output layout: nonce || ciphertext || tag.
func SealKey(master, pemData []byte) ([]byte, error) {
	gcm, err := newGCM(master)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, pemData, nil), nil
}

// OpenKey reverses SealKey.
func OpenKey(master, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(master)
	if err != nil {
		return nil, err
	}

	n := gcm.NonceSize()
	if len(sealed) < n+gcm.Overhead() {
		return nil, ErrSealedKeyCorrupt
	}
	plain, err := gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrSealedKeyCorrupt
	}
	return plain, nil
}

func newGCM(master []byte) (cipher.AEAD, error) {
	if len(master) == 0 {
		return nil, errors.New("master key is empty")
	}
	sum := sha256.Sum256(master)
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
