package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

const openSuffix = ".open"

// FileOptions configures the context-free file workflows. They use the
// master key rather than a context key.
type FileOptions struct {
	// Path is the file to operate on.
	Path string

	// Backup is the policy chosen on the command line, BackupDefault if none.
	Backup configs.BackupPolicy

	Logger logger.Logger
}

// FileResult contains the outcome of a file workflow.
type FileResult struct {
	// Source is the file that was read.
	Source string

	// Target is the file that was written.
	Target string

	// Backup is the copy taken of Target before it was replaced, if any.
	Backup string

	Policy    configs.BackupPolicy
	MasterKey MasterKeyResult
}

// VaultPathFor returns the vault written by encrypting path:
// config.yaml and config.yaml.open both encrypt to config.yaml.loq.
func VaultPathFor(path string) (string, error) {
	if secrets.IsVaultPath(path) {
		return "", fmt.Errorf("%w: %s already has the .loq extension and is likely encrypted", kerrors.ErrInvalidExtension, path)
	}
	return strings.TrimSuffix(path, openSuffix) + secrets.VaultExtension, nil
}

// OpenPathFor returns the file written by decrypting the vault at path:
// config.yaml.loq decrypts to config.yaml.open.
func OpenPathFor(path string) (string, error) {
	if !secrets.IsVaultPath(path) {
		return "", fmt.Errorf("%w: %s must have the .loq extension", kerrors.ErrInvalidExtension, path)
	}
	return strings.TrimSuffix(path, secrets.VaultExtension) + openSuffix, nil
}

// EncryptFile encrypts a plaintext file to a vault next to it.
// The command default is NoBackup.
//
// Returns ErrInvalidExtension if the file is already a vault.
func EncryptFile(ctx context.Context, opts FileOptions) (*FileResult, error) {
	target, err := VaultPathFor(opts.Path)
	if err != nil {
		return nil, err
	}

	plaintext, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", opts.Path, err)
	}

	settings, err := configs.LoadUserSettings()
	if err != nil {
		return nil, err
	}
	key, mk, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Source:    opts.Path,
		Target:    target,
		Policy:    opts.Backup.Resolve(settings, configs.NoBackup),
		MasterKey: mk,
	}
	if result.Policy.ShouldBackup() {
		if result.Backup, _, err = secrets.BackupAndTrack(target, settings.Gitignore); err != nil {
			return nil, err
		}
	}

	if err := secrets.WriteVault(string(plaintext), target, key); err != nil {
		return nil, fmt.Errorf("failed to encrypt %s: %w", opts.Path, err)
	}
	opts.Logger.Infof("Encrypted %s to %s", opts.Path, target)
	return result, nil
}

// DecryptFile decrypts a vault to a .open file next to it.
// The command default is NoBackup.
//
// Returns ErrInvalidExtension if the file is not a vault.
func DecryptFile(ctx context.Context, opts FileOptions) (*FileResult, error) {
	target, err := OpenPathFor(opts.Path)
	if err != nil {
		return nil, err
	}

	settings, err := configs.LoadUserSettings()
	if err != nil {
		return nil, err
	}
	key, mk, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	plaintext, err := secrets.ReadVault(opts.Path, key)
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Source:    opts.Path,
		Target:    target,
		Policy:    opts.Backup.Resolve(settings, configs.NoBackup),
		MasterKey: mk,
	}
	if result.Policy.ShouldBackup() {
		if result.Backup, _, err = secrets.BackupAndTrack(target, settings.Gitignore); err != nil {
			return nil, err
		}
	}

	if err := secrets.WriteFileAtomic(target, []byte(plaintext), 0600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", target, err)
	}
	opts.Logger.Infof("Decrypted %s to %s", opts.Path, target)
	return result, nil
}

// ShowFile returns the decrypted contents of a vault.
//
// Returns ErrInvalidExtension if the file is not a vault.
func ShowFile(ctx context.Context, opts FileOptions) (*ShowResult, error) {
	if !secrets.IsVaultPath(opts.Path) {
		return nil, fmt.Errorf("%w: %s must have the .loq extension", kerrors.ErrInvalidExtension, opts.Path)
	}

	settings, err := configs.LoadUserSettings()
	if err != nil {
		return nil, err
	}
	key, _, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	content, err := secrets.ReadVault(opts.Path, key)
	if err != nil {
		return nil, err
	}
	return &ShowResult{Path: opts.Path, Content: content, Pager: settings.Pager}, nil
}
