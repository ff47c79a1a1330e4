package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the length in bytes of a loqet symmetric key.
	KeySize = 32

	nonceSize = 24
)

// tokenEncoding is the ciphertext alphabet. It never contains a newline,
// which keeps envelope line wrapping reversible.
var tokenEncoding = base64.URLEncoding

// GenerateKey creates a new random symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	return key, nil
}

// EncodeKey returns the text form of a key as stored in key files.
func EncodeKey(key []byte) string {
	return base64.URLEncoding.EncodeToString(key)
}

// ParseKey decodes the text form of a key.
func ParseKey(text string) ([]byte, error) {
	key, err := base64.URLEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not base64: %v", kerrors.ErrInvalidKeyLength, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}
	return key, nil
}

// Encrypt seals plaintext with NaCl secretbox and returns the ciphertext token.
// The random nonce is prepended, so encrypting the same text twice gives different tokens.
func Encrypt(plaintext string, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: %w: expected %d bytes, got %d bytes",
			kerrors.ErrEncryption, kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	var k [KeySize]byte
	copy(k[:], key)
	defer zero(k[:])

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("%w: failed to read nonce: %v", kerrors.ErrEncryption, err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &k)
	return tokenEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext token produced by Encrypt.
// Authentication failure is the only integrity check; any mismatch returns ErrDecryption.
func Decrypt(ciphertext string, key []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("%w: %w: expected %d bytes, got %d bytes",
			kerrors.ErrDecryption, kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	raw, err := tokenEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is corrupted: %v", kerrors.ErrDecryption, err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", fmt.Errorf("%w: ciphertext is truncated", kerrors.ErrDecryption)
	}

	var k [KeySize]byte
	copy(k[:], key)
	defer zero(k[:])

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &k)
	if !ok {
		return "", fmt.Errorf("%w: wrong key or tampered ciphertext", kerrors.ErrDecryption)
	}
	return string(plaintext), nil
}

// zero overwrites a byte slice in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
