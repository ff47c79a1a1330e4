package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/loqet/internal/configs"
	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// ContextName is the name of the new context.
	ContextName string

	// Dir is the directory holding the context's namespaces. It is created
	// when missing.
	Dir string

	// Key is an existing key in text form. A new key is generated when empty.
	Key string

	// Activate makes the new context active.
	Activate bool

	Logger logger.Logger
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	Context *configs.ContextInfo

	// KeyGenerated is true when no key was supplied. The caller must warn the
	// user that the key cannot be recovered.
	KeyGenerated bool

	// DirCreated is true when the context directory did not exist.
	DirCreated bool

	// Activated is true when the context was made active.
	Activated bool
}

// Init registers a new context and writes its key.
//
// Returns ErrReservedName or ErrInvalidContextName for unusable names.
// Returns ErrDuplicateContext if the context already exists.
// Returns ErrInvalidKeyLength if a supplied key does not decode to 32 bytes.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := configs.ValidateContextName(opts.ContextName); err != nil {
		return nil, err
	}

	var key []byte
	if text := strings.TrimSpace(opts.Key); text != "" {
		parsed, err := secrets.ParseKey(text)
		if err != nil {
			return nil, err
		}
		key = parsed
	}

	result := &InitResult{KeyGenerated: key == nil}

	if _, err := os.Stat(opts.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create context directory %s: %w", opts.Dir, err)
		}
		result.DirCreated = true
		opts.Logger.Infof("Created context directory %s", opts.Dir)
	} else if err != nil {
		return nil, fmt.Errorf("failed to check context directory %s: %w", opts.Dir, err)
	}

	info, err := Registry().Create(opts.ContextName, opts.Dir, key)
	if err != nil {
		return nil, err
	}
	result.Context = info
	opts.Logger.Infof("Registered context %s with key %s", info.Name, info.Keyfile)

	if opts.Activate {
		if _, err := Registry().SetActive(info.Name); err != nil {
			return nil, err
		}
		result.Activated = true
	}

	return result, nil
}
