package workflows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// NamespaceListResult lists the namespaces or files of a context.
type NamespaceListResult struct {
	Context *configs.ContextInfo

	// Entries are namespace names for ListNamespaces and file names for ListFiles.
	Entries []string
}

// ListNamespaces returns the namespace names in a context.
func ListNamespaces(ctx context.Context, opts ContextOptions) (*NamespaceListResult, error) {
	s, _, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	return &NamespaceListResult{Context: s.Context, Entries: names}, nil
}

// ListFiles returns every file name in a context directory.
func ListFiles(ctx context.Context, opts ContextOptions) (*NamespaceListResult, error) {
	s, _, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	files, err := s.ListDir()
	if err != nil {
		return nil, err
	}
	return &NamespaceListResult{Context: s.Context, Entries: files}, nil
}

// NamespaceOptions selects one namespace in a context.
type NamespaceOptions struct {
	ContextOptions

	// Name is the namespace name, for example "inventory".
	Name string

	// Backup is the policy chosen on the command line, BackupDefault if none.
	Backup configs.BackupPolicy
}

// NamespaceResult contains the outcome of a single-namespace operation.
type NamespaceResult struct {
	Context *configs.ContextInfo

	// Path is the file that was written or read.
	Path string

	// Policy is the backup policy that was applied.
	Policy configs.BackupPolicy
}

// CreateNamespace adds an empty <name>.yaml.open to the context.
//
// Returns ErrNamespaceExists if any file already realises the namespace.
func CreateNamespace(ctx context.Context, opts NamespaceOptions) (*NamespaceResult, error) {
	s, _, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}
	path, err := s.Create(opts.Name)
	if err != nil {
		return nil, err
	}
	return &NamespaceResult{Context: s.Context, Path: path}, nil
}

// EncryptNamespace writes <name>.yaml.loq from the namespace's plaintext.
// The command default is NoBackup.
//
// Returns ErrNamespaceNotFound if neither <name>.yaml.open nor <name>.yaml exists.
func EncryptNamespace(ctx context.Context, opts NamespaceOptions) (*NamespaceResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	policy := opts.Backup.Resolve(settings, configs.NoBackup)
	if err := s.EncryptNamespace(opts.Name, policy); err != nil {
		return nil, err
	}
	return &NamespaceResult{Context: s.Context, Path: s.Path(opts.Name + ".yaml.loq"), Policy: policy}, nil
}

// DecryptNamespace writes <name>.yaml.open from the namespace vault.
// The command default is NoBackup.
//
// Returns ErrNamespaceNotFound if <name>.yaml.loq does not exist.
func DecryptNamespace(ctx context.Context, opts NamespaceOptions) (*NamespaceResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	policy := opts.Backup.Resolve(settings, configs.NoBackup)
	if err := s.DecryptNamespace(opts.Name, policy); err != nil {
		return nil, err
	}
	return &NamespaceResult{Context: s.Context, Path: s.Path(opts.Name + ".yaml.open"), Policy: policy}, nil
}

// ShowResult carries decrypted content for print and view.
type ShowResult struct {
	// Path is the file the content came from.
	Path string

	// Content is the plaintext.
	Content string

	// Pager is the user's configured pager.
	Pager string
}

// ShowNamespace returns the plaintext of the namespace's highest precedence file.
//
// Returns ErrNamespaceNotFound if the namespace has no files.
func ShowNamespace(ctx context.Context, opts NamespaceOptions) (*ShowResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	file, err := s.Resolve(opts.Name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return nil, fmt.Errorf("%w: %q in %s", kerrors.ErrNamespaceNotFound, opts.Name, s.Dir)
	}

	path := s.Path(file)
	content, err := secrets.ReadPlaintext(path, s.Key())
	if err != nil {
		return nil, err
	}
	return &ShowResult{Path: path, Content: content, Pager: settings.Pager}, nil
}

// GetOptions configures the get workflow.
type GetOptions struct {
	ContextOptions

	// Path is a dotted path whose first segment is the namespace.
	Path string
}

// GetResult holds a looked-up value.
type GetResult struct {
	Value any

	// JSON is Value rendered as indented JSON.
	JSON string
}

// GetValue looks up a dotted path. Missing keys yield an empty object.
func GetValue(ctx context.Context, opts GetOptions) (*GetResult, error) {
	s, _, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	value, err := s.Get(opts.Path)
	if err != nil {
		return nil, err
	}

	out, err := json.MarshalIndent(jsonable(value), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render %s as JSON: %w", opts.Path, err)
	}
	return &GetResult{Value: value, JSON: string(out)}, nil
}

// SetValue always fails with ErrUnsupportedOperation.
func SetValue(ctx context.Context, opts GetOptions, value string) error {
	s, _, err := openStore(opts.ContextOptions)
	if err != nil {
		return err
	}
	return s.Set(opts.Path, value)
}

// jsonable converts YAML mappings with non-string keys into maps that
// encoding/json can marshal.
func jsonable(v any) any {
	switch node := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, val := range node {
			out[fmt.Sprint(k)] = jsonable(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, val := range node {
			out[k] = jsonable(val)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, val := range node {
			out[i] = jsonable(val)
		}
		return out
	default:
		return v
	}
}
