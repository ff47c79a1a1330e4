package workflows

import (
	"context"
	"os"
	"strings"

	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// Match is one line containing the search term.
type Match struct {
	File string

	// Line is 1-based.
	Line int
	Text string
}

// FindResult holds every match, grouped by file in search order.
type FindResult struct {
	// Root is the directory that was searched.
	Root    string
	Matches []Match

	// Searched is the number of files read.
	Searched int

	// Skipped lists files that could not be read or decrypted.
	Skipped []string
}

// Files returns the distinct files with at least one match, in order.
func (r *FindResult) Files() []string {
	var files []string
	for _, m := range r.Matches {
		if len(files) == 0 || files[len(files)-1] != m.File {
			files = append(files, m.File)
		}
	}
	return files
}

// FindOptions configures a search in a context.
type FindOptions struct {
	ContextOptions

	// Term is matched as a plain substring against keys and values alike.
	Term string
}

// FindInContext searches every file in a context directory, decrypting vaults.
func FindInContext(ctx context.Context, opts FindOptions) (*FindResult, error) {
	s, _, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	files, err := s.ListDir()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := s.Path(f)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			paths = append(paths, path)
		}
	}

	result := &FindResult{Root: s.Dir}
	search(result, paths, opts.Term, s.Key(), opts.Logger)
	return result, nil
}

// FindTreeOptions configures a recursive vault search.
type FindTreeOptions struct {
	// Root is the directory searched for *.loq files.
	Root string
	Term string

	Logger logger.Logger
}

// FindInTree searches every vault under Root using the master key.
func FindInTree(ctx context.Context, opts FindTreeOptions) (*FindResult, error) {
	key, _, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	paths, err := secrets.FindVaultFiles(opts.Root)
	if err != nil {
		return nil, err
	}

	result := &FindResult{Root: opts.Root}
	search(result, paths, opts.Term, key, opts.Logger)
	return result, nil
}

func search(result *FindResult, paths []string, term string, key []byte, log logger.Logger) {
	for _, path := range paths {
		content, err := secrets.ReadPlaintext(path, key)
		if err != nil {
			log.Warnf("Skipping %s: %v", path, err)
			result.Skipped = append(result.Skipped, path)
			continue
		}
		result.Searched++

		for i, line := range strings.Split(content, "\n") {
			if strings.Contains(line, term) {
				result.Matches = append(result.Matches, Match{File: path, Line: i + 1, Text: line})
			}
		}
	}
}
