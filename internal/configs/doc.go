// Package configs manages loqet's on-disk configuration.
//
// Everything lives in a single config directory, ~/.loqet by default or
// $LOQET_CONFIG_DIR when set:
//
//   - contexts.yaml: the context registry
//   - config.toml: optional user settings
//   - <context>.key: one key file per context, see package secrets
//
// # Context Registry
//
// The registry is a YAML document of the form
//
//	active_context: myproject
//	contexts:
//	  myproject:
//	    loqet_dir: /abs/path/to/secrets
//	    keyfile: /home/me/.loqet/myproject.key
//
// A context associates one directory of namespace files with one key. At
// most one context is active. The file is re-read by every Registry call so
// another process's changes are observed, and every mutation rewrites the
// whole file. Concurrent writers are not coordinated.
//
// Context names double as key file names. They must start with a letter or
// digit, contain only letters, digits, '-' and '_', and must not be one of
// ReservedContextNames.
//
// # User Settings
//
// config.toml holds safe_mode, editor, pager and gitignore. EDITOR, PAGER,
// LOQET_SAFE_MODE and LOQET_GITIGNORE override the file.
//
// # Backup Policy
//
// Commands that overwrite files resolve a BackupPolicy exactly once: an
// explicit --backup flag wins, then safe_mode, then the command default.
//
// # Testing
//
// LoqetSettings is a package-level variable initialised in init(). Tests
// point it at a temporary directory with NewSettings.
package configs
