package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// ReservedContextNames cannot be used as context names. They collide with
// subcommands of `loqet context` or, for "loqet", with the master key file.
// Matching is case-insensitive.
var ReservedContextNames = []string{
	"help", "context", "none", "null", "list", "info", "set", "unset", "init", "delete",
	secrets.MasterKeyName,
}

// ContextInfo describes one registered context.
type ContextInfo struct {
	Name     string `yaml:"-"`
	LoqetDir string `yaml:"loqet_dir"`
	Keyfile  string `yaml:"keyfile"`
}

type registryFile struct {
	ActiveContext string                 `yaml:"active_context"`
	Contexts      map[string]ContextInfo `yaml:"contexts"`
}

type contextName struct {
	Name string `validate:"required,max=64,contextname"`
}

var contextNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("contextname", func(fl validator.FieldLevel) bool {
		return contextNamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateContextName checks that name can be used as a context name.
func ValidateContextName(name string) error {
	for _, reserved := range ReservedContextNames {
		if strings.EqualFold(name, reserved) {
			return fmt.Errorf("%w: %q (may not be any of %s)", kerrors.ErrReservedName, name, strings.Join(ReservedContextNames, ", "))
		}
	}
	if err := validate.Struct(contextName{Name: name}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %q fails %q", kerrors.ErrInvalidContextName, name, verrs[0].Tag())
		}
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidContextName, name)
	}
	return nil
}

// Registry is the persisted set of named contexts and the active pointer.
// The file is re-read on every call and rewritten whole on every mutation.
// There is no locking between concurrent loqet processes.
type Registry struct {
	path string
	keys *secrets.KeyStore
}

// NewRegistry returns a Registry for the contexts file and key directory in settings.
func NewRegistry(settings *Settings) *Registry {
	return &Registry{
		path: settings.ContextsFile,
		keys: secrets.NewKeyStore(settings.ConfigDir),
	}
}

// KeyStore returns the key store that holds context keys.
func (r *Registry) KeyStore() *secrets.KeyStore {
	return r.keys
}

func (r *Registry) load() (*registryFile, error) {
	reg := &registryFile{Contexts: make(map[string]ContextInfo)}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidRegistry, r.path, err)
	}
	if len(doc.Content) == 0 {
		return reg, nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s is not a mapping", kerrors.ErrInvalidRegistry, r.path)
	}
	if err := doc.Content[0].Decode(reg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidRegistry, r.path, err)
	}
	if reg.Contexts == nil {
		reg.Contexts = make(map[string]ContextInfo)
	}
	for name, info := range reg.Contexts {
		info.Name = name
		reg.Contexts[name] = info
	}
	return reg, nil
}

func (r *Registry) save(reg *registryFile) error {
	if err := SaveYAML(r.path, reg); err != nil {
		return fmt.Errorf("failed to save contexts: %w", err)
	}
	return nil
}

// Create registers a new context. When key is nil a new key is generated.
// dir is stored as an absolute path.
func (r *Registry) Create(name, dir string, key []byte) (*ContextInfo, error) {
	if err := ValidateContextName(name); err != nil {
		return nil, err
	}

	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	if _, exists := reg.Contexts[name]; exists {
		return nil, fmt.Errorf("%w: %q, taking no action", kerrors.ErrDuplicateContext, name)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	keyfile, _, err := r.keys.Write(name, key)
	if err != nil {
		return nil, err
	}

	info := ContextInfo{Name: name, LoqetDir: absDir, Keyfile: keyfile}
	reg.Contexts[name] = info
	if err := r.save(reg); err != nil {
		return nil, err
	}
	return &info, nil
}

// Get returns the named context, or the active one when name is empty.
func (r *Registry) Get(name string) (*ContextInfo, error) {
	reg, err := r.load()
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = reg.ActiveContext
	}
	if name == "" {
		return nil, kerrors.ErrNoActiveContext
	}

	info, ok := reg.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrContextNotFound, name)
	}
	return &info, nil
}

// SetActive points the active context at name. An empty name unsets it.
// It returns false without error when name is not registered.
func (r *Registry) SetActive(name string) (bool, error) {
	reg, err := r.load()
	if err != nil {
		return false, err
	}
	if name != "" {
		if _, ok := reg.Contexts[name]; !ok {
			return false, nil
		}
	}
	reg.ActiveContext = name
	if err := r.save(reg); err != nil {
		return false, err
	}
	return true, nil
}

// Active returns the active context name, or "" when none is set.
func (r *Registry) Active() (string, error) {
	reg, err := r.load()
	if err != nil {
		return "", err
	}
	return reg.ActiveContext, nil
}

// List returns every registered context keyed by name.
func (r *Registry) List() (map[string]ContextInfo, error) {
	reg, err := r.load()
	if err != nil {
		return nil, err
	}
	return reg.Contexts, nil
}

// Names returns the registered context names in sorted order.
func (r *Registry) Names() ([]string, error) {
	contexts, err := r.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the context entry and clears the active pointer if it named
// this context. The key file and the context directory are left on disk.
func (r *Registry) Delete(name string) (bool, error) {
	reg, err := r.load()
	if err != nil {
		return false, err
	}
	if _, ok := reg.Contexts[name]; !ok {
		return false, nil
	}
	delete(reg.Contexts, name)
	if reg.ActiveContext == name {
		reg.ActiveContext = ""
	}
	if err := r.save(reg); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteKey removes the key file of a context. The context must still be
// registered so that its keyfile path is known.
func (r *Registry) DeleteKey(name string) error {
	info, err := r.Get(name)
	if err != nil {
		return err
	}
	if err := os.Remove(info.Keyfile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", info.Keyfile, kerrors.ErrKeyNotFound)
		}
		return fmt.Errorf("failed to remove key file %s: %w", info.Keyfile, err)
	}
	return nil
}

// Key resolves a context (the active one when name is empty) and reads its key.
func (r *Registry) Key(name string) (*ContextInfo, []byte, error) {
	info, err := r.Get(name)
	if err != nil {
		return nil, nil, err
	}
	key, err := secrets.ReadKeyFile(info.Keyfile)
	if err != nil {
		return nil, nil, err
	}
	return info, key, nil
}
