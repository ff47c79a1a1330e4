package workflows

import (
	"fmt"

	"github.com/PolarWolf314/loqet/internal/configs"
	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
	"github.com/PolarWolf314/loqet/internal/store"
)

// ContextOptions selects the context a workflow runs against.
type ContextOptions struct {
	// ContextName is the context to use. The active context is used when empty.
	ContextName string

	Logger logger.Logger
}

// Registry returns the context registry in the configured config directory.
func Registry() *configs.Registry {
	return configs.NewRegistry(configs.LoqetSettings)
}

// openStore resolves the context in opts, reads its key and applies the
// user's settings to the returned store.
func openStore(opts ContextOptions) (*store.Store, *configs.UserSettings, error) {
	settings, err := configs.LoadUserSettings()
	if err != nil {
		return nil, nil, err
	}

	s, err := store.Open(Registry(), opts.ContextName)
	if err != nil {
		return nil, nil, err
	}
	s.Gitignore = settings.Gitignore
	s.Logger = opts.Logger

	opts.Logger.Debugf("Using context %s at %s", s.Context.Name, s.Dir)
	return s, settings, nil
}

// MasterKeyResult reports whether a master key had to be created.
type MasterKeyResult struct {
	// KeyCreated is true when this call generated the master key.
	KeyCreated bool

	// Keyfile is the master key location.
	Keyfile string
}

// masterKey reads the master key, creating it on first use.
func masterKey(log logger.Logger) ([]byte, MasterKeyResult, error) {
	keys := secrets.NewKeyStore(configs.LoqetSettings.ConfigDir)
	key, created, err := keys.EnsureMasterKey()
	if err != nil {
		return nil, MasterKeyResult{}, fmt.Errorf("loading master key: %w", err)
	}

	keyfile := keys.Path(secrets.MasterKeyName)
	if created {
		log.Infof("Created master key at %s", keyfile)
	}
	return key, MasterKeyResult{KeyCreated: created, Keyfile: keyfile}, nil
}
