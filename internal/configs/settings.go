package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Settings holds the well-known paths loqet reads and writes.
type Settings struct {
	// ConfigDir holds key files, the context registry and config.toml.
	ConfigDir string
	// ContextsFile is the context registry.
	ContextsFile string
	// SettingsFile is the optional user settings file.
	SettingsFile string
}

// UserSettings are the user-tunable options from config.toml.
// Environment variables take precedence over the file.
type UserSettings struct {
	SafeMode  bool   `toml:"safe_mode"`
	Editor    string `toml:"editor"`
	Pager     string `toml:"pager"`
	Gitignore string `toml:"gitignore"`
}

const (
	defaultEditor = "vim"
	defaultPager  = "less"
)

var LoqetSettings *Settings

func init() {
	configDir := os.Getenv("LOQET_CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("error getting home directory: %s", err)
		}
		configDir = filepath.Join(homeDir, ".loqet")
	}

	LoqetSettings = NewSettings(configDir)
}

// NewSettings returns the settings for a config directory.
func NewSettings(configDir string) *Settings {
	return &Settings{
		ConfigDir:    configDir,
		ContextsFile: filepath.Join(configDir, "contexts.yaml"),
		SettingsFile: filepath.Join(configDir, "config.toml"),
	}
}

// LoadUserSettings reads config.toml, falling back to defaults when it is absent,
// then applies EDITOR, PAGER, LOQET_GITIGNORE and LOQET_SAFE_MODE overrides.
func LoadUserSettings() (*UserSettings, error) {
	settings := &UserSettings{
		Editor: defaultEditor,
		Pager:  defaultPager,
	}

	path := LoqetSettings.SettingsFile
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(path, settings); err != nil {
			return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check settings file %s: %w", path, err)
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		settings.Editor = editor
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		settings.Pager = pager
	}
	if gitignore := os.Getenv("LOQET_GITIGNORE"); gitignore != "" {
		settings.Gitignore = gitignore
	}
	if safe := os.Getenv("LOQET_SAFE_MODE"); safe != "" {
		v, err := strconv.ParseBool(safe)
		if err != nil {
			return nil, fmt.Errorf("invalid LOQET_SAFE_MODE %q: %w", safe, err)
		}
		settings.SafeMode = v
	}

	if settings.Editor == "" {
		settings.Editor = defaultEditor
	}
	if settings.Pager == "" {
		settings.Pager = defaultPager
	}

	return settings, nil
}

// SaveUserSettings writes config.toml.
func SaveUserSettings(settings *UserSettings) error {
	if err := SaveTOML(LoqetSettings.SettingsFile, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
