package workflows

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
	"github.com/PolarWolf314/loqet/internal/utils"
)

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	// Path is the vault that was edited.
	Path string

	// Changed is false when the editor exited without modifying the content.
	// The vault is not rewritten in that case.
	Changed bool

	// Backup is the copy taken of the vault before it was rewritten, if any.
	Backup string

	Policy    configs.BackupPolicy
	MasterKey MasterKeyResult
}

// Edit decrypts a namespace vault to a private temporary file, opens it in
// the user's editor and re-encrypts the result in place. The command default
// is NoBackup.
//
// Returns ErrNamespaceNotFound if <name>.yaml.loq does not exist.
func Edit(ctx context.Context, opts NamespaceOptions) (*EditResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	path := s.Path(opts.Name + ".yaml.loq")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no vault for %q in %s", kerrors.ErrNamespaceNotFound, opts.Name, s.Dir)
	}

	policy := opts.Backup.Resolve(settings, configs.NoBackup)
	return editVault(path, s.Key(), policy, settings, opts.Logger)
}

// EditFile edits any vault in place using the master key.
//
// Returns ErrInvalidExtension if the file is not a vault.
func EditFile(ctx context.Context, opts FileOptions) (*EditResult, error) {
	if !secrets.IsVaultPath(opts.Path) {
		return nil, fmt.Errorf("%w: %s must have the .loq extension", kerrors.ErrInvalidExtension, opts.Path)
	}

	settings, err := configs.LoadUserSettings()
	if err != nil {
		return nil, err
	}
	key, mk, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	result, err := editVault(opts.Path, key, opts.Backup.Resolve(settings, configs.NoBackup), settings, opts.Logger)
	if err != nil {
		return nil, err
	}
	result.MasterKey = mk
	return result, nil
}

func editVault(path string, key []byte, policy configs.BackupPolicy, settings *configs.UserSettings, log logger.Logger) (*EditResult, error) {
	original, err := secrets.ReadVault(path, key)
	if err != nil {
		return nil, err
	}

	// Keep the YAML extension so editors pick the right syntax highlighting.
	name := strings.TrimSuffix(filepath.Base(path), secrets.VaultExtension)
	tmp, err := os.CreateTemp("", "loqet-*-"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to restrict %s: %w", tmpPath, err)
	}
	if _, err := tmp.WriteString(original); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	log.Debugf("Opening %s in %s", tmpPath, settings.Editor)
	if err := utils.RunEditor(settings.Editor, tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}

	result := &EditResult{Path: path, Policy: policy}
	if string(edited) == original {
		log.Infof("No changes made to %s", path)
		return result, nil
	}
	result.Changed = true

	if policy.ShouldBackup() {
		if result.Backup, _, err = secrets.BackupAndTrack(path, settings.Gitignore); err != nil {
			return nil, err
		}
	}

	if err := secrets.WriteVault(string(edited), path, key); err != nil {
		return nil, fmt.Errorf("failed to re-encrypt %s: %w", path, err)
	}
	return result, nil
}
