package secrets

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
)

const (
	// EnvelopeHeader is the literal first line of every vault file.
	EnvelopeHeader = "#loq;"

	// EnvelopeLineWidth is the column at which ciphertext is wrapped.
	EnvelopeLineWidth = 64
)

// EncodeEnvelope wraps a ciphertext token in the vault file format.
func EncodeEnvelope(ciphertext string) string {
	var b strings.Builder
	b.WriteString(EnvelopeHeader)
	b.WriteString("\n")
	for start := 0; start < len(ciphertext); start += EnvelopeLineWidth {
		end := min(start+EnvelopeLineWidth, len(ciphertext))
		b.WriteString(ciphertext[start:end])
		b.WriteString("\n")
	}
	return b.String()
}

// DecodeEnvelope strips the header and line breaks, returning the original token.
func DecodeEnvelope(fileText string) (string, error) {
	header, body, _ := strings.Cut(fileText, "\n")
	if header != EnvelopeHeader {
		return "", kerrors.ErrInvalidEnvelope
	}
	body = strings.ReplaceAll(body, "\n", "")
	body = strings.ReplaceAll(body, "\r", "")
	return body, nil
}

// IsValidEnvelope reports whether the first line of the file is the vault header.
// It never attempts decryption.
func IsValidEnvelope(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSuffix(line, "\n") == EnvelopeHeader, nil
}

// ReadVault returns the decrypted contents of a vault file.
// An invalid envelope is reported as ErrInvalidEnvelope before any decryption runs.
func ReadVault(path string, key []byte) (string, error) {
	valid, err := IsValidEnvelope(path)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", fmt.Errorf("%s: %w", path, kerrors.ErrInvalidEnvelope)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	ciphertext, err := DecodeEnvelope(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	plaintext, err := Decrypt(ciphertext, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return plaintext, nil
}

// WriteVault encrypts plaintext and atomically replaces the vault file at path.
func WriteVault(plaintext, path string, key []byte) error {
	ciphertext, err := Encrypt(plaintext, key)
	if err != nil {
		return err
	}
	// #nosec G306 -- vault files are encrypted and meant to be committed
	return WriteFileAtomic(path, []byte(EncodeEnvelope(ciphertext)), 0644)
}

// VaultExtension marks a file as an encrypted vault.
const VaultExtension = ".loq"

// IsVaultPath reports whether path names a vault file by extension.
func IsVaultPath(path string) bool {
	return strings.HasSuffix(path, VaultExtension)
}

// ReadPlaintext returns the plaintext of path, decrypting it when it is a vault.
func ReadPlaintext(path string, key []byte) (string, error) {
	if IsVaultPath(path) {
		return ReadVault(path, key)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
