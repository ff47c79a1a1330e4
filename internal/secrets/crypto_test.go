package secrets

import (
	"errors"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := mustKey(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{"Empty", ""},
		{"Simple", "It's dangerous to go alone, take this!"},
		{"Multiline", "sword: master sword\nshield: mirror shield\n"},
		{"Unicode", "ハイラル城 🗡"},
		{"Long", strings.Repeat("triforce", 500)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ciphertext, err := Encrypt(tc.plaintext, key)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}
			if tc.plaintext != "" && strings.Contains(ciphertext, tc.plaintext) {
				t.Errorf("Ciphertext contains plaintext")
			}
			if strings.ContainsAny(ciphertext, "\r\n") {
				t.Errorf("Ciphertext contains a line break")
			}

			decrypted, err := Decrypt(ciphertext, key)
			if err != nil {
				t.Fatalf("Decrypt failed: %v", err)
			}
			if decrypted != tc.plaintext {
				t.Errorf("Expected %q, got %q", tc.plaintext, decrypted)
			}
		})
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	key := mustKey(t)

	first, err := Encrypt("navi", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt("navi", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if first == second {
		t.Errorf("Expected different ciphertexts for repeated encryption")
	}
}

func TestEncryptRejectsMalformedKey(t *testing.T) {
	_, err := Encrypt("hello", []byte("short"))
	if !errors.Is(err, kerrors.ErrEncryption) {
		t.Fatalf("Expected ErrEncryption, got: %v", err)
	}
	if !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength in chain, got: %v", err)
	}
}

func TestDecryptFailures(t *testing.T) {
	key := mustKey(t)
	otherKey := mustKey(t)

	ciphertext, err := Encrypt("hylian shield", key)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Flip a character in the middle of the token while staying in the alphabet.
	mid := len(ciphertext) / 2
	flipped := byte('A')
	if ciphertext[mid] == 'A' {
		flipped = 'B'
	}
	tampered := ciphertext[:mid] + string(flipped) + ciphertext[mid+1:]

	tests := []struct {
		name       string
		ciphertext string
		key        []byte
	}{
		{"WrongKey", ciphertext, otherKey},
		{"Tampered", tampered, key},
		{"Truncated", ciphertext[:20], key},
		{"NotBase64", "!!!not-a-token!!!", key},
		{"MalformedKey", ciphertext, key[:10]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plaintext, err := Decrypt(tc.ciphertext, tc.key)
			if !errors.Is(err, kerrors.ErrDecryption) {
				t.Fatalf("Expected ErrDecryption, got: %v", err)
			}
			if plaintext != "" {
				t.Errorf("Expected no plaintext on failure, got %q", plaintext)
			}
		})
	}
}

func TestParseKey(t *testing.T) {
	key := mustKey(t)

	parsed, err := ParseKey(EncodeKey(key))
	if err != nil {
		t.Fatalf("ParseKey failed: %v", err)
	}
	if string(parsed) != string(key) {
		t.Errorf("Parsed key does not match original")
	}

	if _, err := ParseKey("not base64 at all"); !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength for garbage, got: %v", err)
	}
	if _, err := ParseKey(EncodeKey(key[:16])); !errors.Is(err, kerrors.ErrInvalidKeyLength) {
		t.Errorf("Expected ErrInvalidKeyLength for short key, got: %v", err)
	}
}
