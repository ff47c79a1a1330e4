package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
)

// KeyLossWarning is shown whenever a new key is written. There is no recovery
// path for data encrypted under a lost key.
const KeyLossWarning = "DO NOT LOSE THIS FILE. If you encrypt something with this key " +
	"and lose the key, it is gone forever."

// MasterKeyName is the key used by loq file commands that are not bound to a context.
const MasterKeyName = "loqet"

// KeyStore manages per-context key files in a config directory.
type KeyStore struct {
	Dir string
}

// NewKeyStore returns a KeyStore rooted at dir.
func NewKeyStore(dir string) *KeyStore {
	return &KeyStore{Dir: dir}
}

// Path returns the key file location for a context.
func (ks *KeyStore) Path(contextName string) string {
	return filepath.Join(ks.Dir, contextName+".key")
}

// Write stores key as the key for contextName, generating one when key is nil.
// An existing key file is backed up before it is replaced.
// Returns the key file path and any backup that was taken.
func (ks *KeyStore) Write(contextName string, key []byte) (keyfile string, backup string, err error) {
	if err := os.MkdirAll(ks.Dir, 0700); err != nil {
		return "", "", fmt.Errorf("failed to create config directory at %s: %w", ks.Dir, err)
	}

	if key == nil {
		key, err = GenerateKey()
		if err != nil {
			return "", "", err
		}
	}
	if len(key) != KeySize {
		return "", "", fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	keyfile = ks.Path(contextName)
	if fileExists(keyfile) {
		backup, err = BackupFile(keyfile)
		if err != nil {
			return "", "", fmt.Errorf("refusing to overwrite key %s without a backup: %w", keyfile, err)
		}
	}

	if err := WriteFileAtomic(keyfile, []byte(EncodeKey(key)+"\n"), 0600); err != nil {
		return "", "", fmt.Errorf("failed to write key file: %w", err)
	}

	return keyfile, backup, nil
}

// Read returns the key for contextName.
func (ks *KeyStore) Read(contextName string) ([]byte, error) {
	return ReadKeyFile(ks.Path(contextName))
}

// Exists reports whether a key file is present for contextName.
func (ks *KeyStore) Exists(contextName string) bool {
	return fileExists(ks.Path(contextName))
}

// Remove deletes the key file for contextName.
func (ks *KeyStore) Remove(contextName string) error {
	if err := os.Remove(ks.Path(contextName)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", contextName, kerrors.ErrKeyNotFound)
		}
		return fmt.Errorf("failed to remove key for %s: %w", contextName, err)
	}
	return nil
}

// EnsureMasterKey creates the master key when it does not exist yet. It never
// overwrites an existing master key. created reports whether a new key was written.
func (ks *KeyStore) EnsureMasterKey() (key []byte, created bool, err error) {
	if ks.Exists(MasterKeyName) {
		key, err = ks.Read(MasterKeyName)
		return key, false, err
	}
	if _, _, err := ks.Write(MasterKeyName, nil); err != nil {
		return nil, false, err
	}
	key, err = ks.Read(MasterKeyName)
	return key, true, err
}

// ReadKeyFile reads and decodes a key file.
func ReadKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, kerrors.ErrKeyNotFound)
		}
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	key, err := ParseKey(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("key file %s: %w", path, err)
	}
	return key, nil
}
