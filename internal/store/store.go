package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	logger "github.com/PolarWolf314/loqet/internal/logging"
)

// Store reads and writes the namespaces of a single context directory.
type Store struct {
	// Context is the registry entry this store was opened from. It is nil for
	// stores created with New.
	Context *configs.ContextInfo
	// Dir is the context directory.
	Dir string
	// Gitignore overrides the .gitignore updated by BackupAndTrack. It is only
	// honoured when it ends in ".gitignore".
	Gitignore string
	Logger    logger.Logger

	key []byte
}

// Open resolves contextName (the active context when empty) through the
// registry and reads its key. The registry is read fresh on every call.
func Open(registry *configs.Registry, contextName string) (*Store, error) {
	info, key, err := registry.Key(contextName)
	if err != nil {
		return nil, err
	}

	s := New(info.LoqetDir, key)
	s.Context = info
	return s, nil
}

// New returns a Store for dir using key.
func New(dir string, key []byte) *Store {
	return &Store{Dir: dir, key: key}
}

// Key returns the key used by this store.
func (s *Store) Key() []byte {
	return s.key
}

// Path returns the absolute location of a file inside the context directory.
func (s *Store) Path(file string) string {
	return filepath.Join(s.Dir, file)
}

// ListDir returns the names of every entry in the context directory, sorted.
func (s *Store) ListDir() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list context directory %s: %w", s.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// List returns the sorted, de-duplicated namespace names in the context
// directory. A namespace name is the text before the first dot of any file.
// Dotfiles such as .gitignore have no namespace.
func (s *Store) List() ([]string, error) {
	files, err := s.ListDir()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var names []string
	for _, file := range files {
		name := baseName(file)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Create adds an empty namespace as <name>.yaml.open.
func (s *Store) Create(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	names, err := s.List()
	if err != nil {
		return "", err
	}
	for _, existing := range names {
		if existing == name {
			return "", fmt.Errorf("%w: %q in %s", kerrors.ErrNamespaceExists, name, s.Dir)
		}
	}

	path := s.Path(name + OpenExtension)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	return path, nil
}

func baseName(file string) string {
	name, _, _ := strings.Cut(file, ".")
	return name
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, `./\`) {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidNamespaceName, name)
	}
	return nil
}
