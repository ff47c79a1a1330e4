package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreEntries are the patterns kept out of version control when backups are tracked.
var GitignoreEntries = []string{
	"*.open*",
	"*.bak.*",
}

// Now is the clock used for backup timestamps. Tests may replace it.
var Now = time.Now

// WriteFileAtomic writes data to a temp file in the target directory and renames it over path.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any failure path.
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	committed = true
	return nil
}

// BackupFile copies path to <path>.bak.<unix_timestamp> and returns the backup name.
// If a backup with the current timestamp already exists the timestamp is bumped
// until a free name is found, so no earlier snapshot is overwritten.
func BackupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for backup: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ts := Now().Unix()
	backupPath := backupName(path, ts)
	for fileExists(backupPath) {
		ts++
		backupPath = backupName(path, ts)
	}

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("failed to create backup %s: %w", backupPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy %s to %s: %w", path, backupPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup %s: %w", backupPath, err)
	}

	return backupPath, nil
}

func backupName(path string, ts int64) string {
	return path + ".bak." + strconv.FormatInt(ts, 10)
}

// GitignorePath returns the .gitignore governing path. An override is only
// honoured when it names a .gitignore file.
func GitignorePath(path, override string) (string, error) {
	if strings.HasSuffix(override, ".gitignore") {
		return override, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(resolved, ".gitignore"), nil
	}
	return filepath.Join(filepath.Dir(abs), ".gitignore"), nil
}

// UpdateGitignore appends any missing GitignoreEntries to the .gitignore governing path.
// Running it repeatedly leaves the file unchanged.
func UpdateGitignore(path, override string) (string, error) {
	gitignore, err := GitignorePath(path, override)
	if err != nil {
		return "", err
	}

	existing, err := os.ReadFile(gitignore)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", gitignore, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var b strings.Builder
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	added := 0
	for _, entry := range GitignoreEntries {
		if present[entry] {
			continue
		}
		b.WriteString(entry)
		b.WriteString("\n")
		added++
	}
	if added == 0 {
		return gitignore, nil
	}

	// #nosec G302 -- .gitignore is a normal project file
	f, err := os.OpenFile(gitignore, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", gitignore, err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return "", fmt.Errorf("failed to update %s: %w", gitignore, err)
	}
	return gitignore, nil
}

// FindVaultFiles recursively finds every *.loq file under root, sorted.
func FindVaultFiles(root string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/*.loq")
	if err != nil {
		return nil, fmt.Errorf("failed to search %s for vault files: %w", root, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(root, filepath.FromSlash(m))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// BackupAndTrack backs up target when it exists and updates the .gitignore
// governing it. backup is empty when there was nothing to back up.
func BackupAndTrack(target, gitignoreOverride string) (backup, gitignore string, err error) {
	if fileExists(target) {
		backup, err = BackupFile(target)
		if err != nil {
			return "", "", err
		}
	}

	gitignore, err = UpdateGitignore(target, gitignoreOverride)
	if err != nil {
		return backup, "", err
	}
	return backup, gitignore, nil
}
