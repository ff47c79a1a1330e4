package store

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// Outcome is the result of one namespace in a batch operation.
type Outcome struct {
	Name    string
	Success bool
	Err     error
}

// EncryptNamespace writes <name>.yaml.loq from the namespace's plaintext. The
// .open copy is preferred over the base .yaml file, and the source is left in
// place. With BackupAndTrack an existing vault is backed up first.
func (s *Store) EncryptNamespace(name string, policy configs.BackupPolicy) error {
	if err := validateName(name); err != nil {
		return err
	}

	openFile := name + OpenExtension
	baseFile := name + PlainExtension
	openExists := fileExists(s.Path(openFile))
	baseExists := fileExists(s.Path(baseFile))

	var source string
	switch {
	case openExists:
		if baseExists {
			s.Logger.WarnfAlways("Both %s and %s exist, ignoring %s", baseFile, openFile, baseFile)
		}
		source = openFile
	case baseExists:
		source = baseFile
	default:
		return fmt.Errorf("%w: no plaintext for %q in %s", kerrors.ErrNamespaceNotFound, name, s.Dir)
	}

	plaintext, err := os.ReadFile(s.Path(source))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	target := s.Path(name + LoqExtension)
	if err := s.protect(target, policy); err != nil {
		return err
	}

	s.Logger.Debugf("Encrypting %s to %s", source, target)
	if err := secrets.WriteVault(string(plaintext), target, s.key); err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", source, err)
	}
	return nil
}

// DecryptNamespace writes <name>.yaml.open from the namespace vault. With
// BackupAndTrack an existing .open copy is backed up first.
func (s *Store) DecryptNamespace(name string, policy configs.BackupPolicy) error {
	if err := validateName(name); err != nil {
		return err
	}

	source := s.Path(name + LoqExtension)
	if !fileExists(source) {
		return fmt.Errorf("%w: no vault for %q in %s", kerrors.ErrNamespaceNotFound, name, s.Dir)
	}

	plaintext, err := secrets.ReadVault(source, s.key)
	if err != nil {
		return err
	}

	target := s.Path(name + OpenExtension)
	if err := s.protect(target, policy); err != nil {
		return err
	}

	s.Logger.Debugf("Decrypting %s to %s", source, target)
	if err := secrets.WriteFileAtomic(target, []byte(plaintext), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// OpenAll decrypts every namespace in the context. Only failing to list the
// directory fails the batch.
func (s *Store) OpenAll(policy configs.BackupPolicy) ([]Outcome, error) {
	return s.each(func(name string) error {
		return s.DecryptNamespace(name, policy)
	})
}

// CloseAll encrypts every namespace in the context. Only failing to list the
// directory fails the batch.
func (s *Store) CloseAll(policy configs.BackupPolicy) ([]Outcome, error) {
	return s.each(func(name string) error {
		return s.EncryptNamespace(name, policy)
	})
}

func (s *Store) each(apply func(name string) error) ([]Outcome, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		err := apply(name)
		if err != nil {
			s.Logger.Warnf("%s: %v", name, err)
		}
		outcomes = append(outcomes, Outcome{Name: name, Success: err == nil, Err: err})
	}
	return outcomes, nil
}

// protect applies policy before target is overwritten: with BackupAndTrack an
// existing target is copied aside and the governing .gitignore is updated.
func (s *Store) protect(target string, policy configs.BackupPolicy) error {
	if !policy.ShouldBackup() {
		return nil
	}

	backup, gitignore, err := secrets.BackupAndTrack(target, s.Gitignore)
	if err != nil {
		return err
	}
	if backup != "" {
		s.Logger.Infof("Backed up %s to %s", target, backup)
	}
	s.Logger.Debugf("Updated %s", gitignore)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
