package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	logger "github.com/PolarWolf314/loqet/internal/logging"
)

// ContextListResult lists every registered context.
type ContextListResult struct {
	// Contexts are sorted by name.
	Contexts []configs.ContextInfo

	// Active is the active context name, or "" when none is set.
	Active string
}

// ListContexts returns every registered context and the active one.
func ListContexts(ctx context.Context) (*ContextListResult, error) {
	registry := Registry()

	names, err := registry.Names()
	if err != nil {
		return nil, err
	}
	contexts, err := registry.List()
	if err != nil {
		return nil, err
	}
	active, err := registry.Active()
	if err != nil {
		return nil, err
	}

	result := &ContextListResult{Active: active}
	for _, name := range names {
		result.Contexts = append(result.Contexts, contexts[name])
	}
	return result, nil
}

// DeleteContextOptions configures the delete context workflow.
type DeleteContextOptions struct {
	ContextName string

	// PurgeKey also removes the context's key file. Without it the key is
	// left on disk so that existing vaults stay readable.
	PurgeKey bool

	Logger logger.Logger
}

// DeleteContextResult contains the outcome of a delete context operation.
type DeleteContextResult struct {
	Context *configs.ContextInfo

	// WasActive is true when the deleted context was the active one.
	WasActive bool

	// KeyRemoved is true when the key file was purged.
	KeyRemoved bool
}

// DeleteContext unregisters a context. The context directory is never touched.
//
// Returns ErrContextNotFound if the context is not registered.
func DeleteContext(ctx context.Context, opts DeleteContextOptions) (*DeleteContextResult, error) {
	if opts.ContextName == "" {
		return nil, fmt.Errorf("%w: no context name given", kerrors.ErrContextNotFound)
	}

	registry := Registry()
	info, err := registry.Get(opts.ContextName)
	if err != nil {
		return nil, err
	}

	active, err := registry.Active()
	if err != nil {
		return nil, err
	}

	result := &DeleteContextResult{Context: info, WasActive: active == info.Name}

	if opts.PurgeKey {
		err := registry.DeleteKey(info.Name)
		switch {
		case err == nil:
			result.KeyRemoved = true
			opts.Logger.Infof("Removed key file %s", info.Keyfile)
		case errors.Is(err, kerrors.ErrKeyNotFound):
			opts.Logger.Warnf("Key file %s was already missing", info.Keyfile)
		default:
			return nil, err
		}
	}

	if _, err := registry.Delete(info.Name); err != nil {
		return nil, err
	}
	return result, nil
}
