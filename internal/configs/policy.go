package configs

import (
	"fmt"
	"strings"
)

// BackupPolicy controls whether a command backs up the file it is about to
// overwrite and adds loqet patterns to the governing .gitignore.
type BackupPolicy int

const (
	// BackupDefault means no policy was chosen on the command line.
	BackupDefault BackupPolicy = iota
	// BackupAndTrack copies the target to <file>.bak.<unix> and updates .gitignore.
	BackupAndTrack
	// NoBackup overwrites in place.
	NoBackup
)

// Resolve picks the effective policy for a single command. An explicit choice
// wins, then safe mode, then the command's own default.
func (p BackupPolicy) Resolve(settings *UserSettings, commandDefault BackupPolicy) BackupPolicy {
	if p != BackupDefault {
		return p
	}
	if settings != nil && settings.SafeMode {
		return BackupAndTrack
	}
	if commandDefault == BackupDefault {
		return NoBackup
	}
	return commandDefault
}

// ShouldBackup reports whether the policy takes backups.
func (p BackupPolicy) ShouldBackup() bool {
	return p == BackupAndTrack
}

// String implements pflag.Value.
func (p BackupPolicy) String() string {
	switch p {
	case BackupAndTrack:
		return "track"
	case NoBackup:
		return "none"
	default:
		return ""
	}
}

// Set implements pflag.Value.
func (p *BackupPolicy) Set(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "track", "true", "yes":
		*p = BackupAndTrack
	case "none", "false", "no":
		*p = NoBackup
	default:
		return fmt.Errorf("invalid backup policy %q (expected track or none)", value)
	}
	return nil
}

// Type implements pflag.Value.
func (p *BackupPolicy) Type() string {
	return "track|none"
}
