package workflows

import (
	"context"
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// FileDiff is the unified diff between the plaintexts of two files.
type FileDiff struct {
	From string
	To   string

	// Unified is empty when the plaintexts are identical.
	Unified string
}

// Identical reports whether both files have the same plaintext.
func (d FileDiff) Identical() bool {
	return d.Unified == ""
}

// DiffResult holds every pairwise diff computed.
type DiffResult struct {
	// Files are the files that were compared, in precedence order for a namespace.
	Files []string
	Diffs []FileDiff
}

// DiffNamespace compares every pair of files realising a namespace, for
// example the .open working copy against the vault. Fewer than two files
// yields an empty result.
func DiffNamespace(ctx context.Context, opts NamespaceOptions) (*DiffResult, error) {
	s, _, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	files, err := s.CandidateFiles(opts.Name)
	if err != nil {
		return nil, err
	}

	result := &DiffResult{}
	for _, f := range files {
		result.Files = append(result.Files, s.Path(f))
	}
	if len(result.Files) < 2 {
		opts.Logger.Infof("Fewer than two files for %s: %v", opts.Name, files)
		return result, nil
	}

	for i := 0; i < len(result.Files); i++ {
		for j := i + 1; j < len(result.Files); j++ {
			d, err := diffFiles(result.Files[i], result.Files[j], s.Key())
			if err != nil {
				return nil, err
			}
			result.Diffs = append(result.Diffs, d)
		}
	}
	return result, nil
}

// DiffFilesOptions configures a two-file diff.
type DiffFilesOptions struct {
	// A and B are the files to compare. Either may be a vault.
	A string
	B string

	Logger logger.Logger
}

// DiffFiles compares two arbitrary files, decrypting vaults with the master key.
func DiffFiles(ctx context.Context, opts DiffFilesOptions) (*DiffResult, error) {
	key, _, err := masterKey(opts.Logger)
	if err != nil {
		return nil, err
	}

	d, err := diffFiles(opts.A, opts.B, key)
	if err != nil {
		return nil, err
	}
	return &DiffResult{Files: []string{opts.A, opts.B}, Diffs: []FileDiff{d}}, nil
}

func diffFiles(from, to string, key []byte) (FileDiff, error) {
	a, err := secrets.ReadPlaintext(from, key)
	if err != nil {
		return FileDiff{}, err
	}
	b, err := secrets.ReadPlaintext(to, key)
	if err != nil {
		return FileDiff{}, err
	}

	d := FileDiff{From: from, To: to}
	if a == b {
		return d, nil
	}

	edits := myers.ComputeEdits(span.URIFromPath(from), a, b)
	d.Unified = fmt.Sprint(gotextdiff.ToUnified(from, to, a, edits))
	return d, nil
}
