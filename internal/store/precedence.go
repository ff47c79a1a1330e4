package store

import (
	"slices"
	"strings"
)

// Namespace file extensions.
const (
	OpenExtension  = ".yaml.open"
	PlainExtension = ".yaml"
	LoqExtension   = ".yaml.loq"
)

// Extensions lists the namespace file extensions in load precedence order.
var Extensions = []string{OpenExtension, PlainExtension, LoqExtension}

// CandidateFiles returns the files that realise namespace name, highest
// precedence first. Only files that are present in the context directory
// are returned.
func (s *Store) CandidateFiles(name string) ([]string, error) {
	files, err := s.ListDir()
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(files))
	for _, file := range files {
		base, rest, ok := strings.Cut(file, ".")
		if ok && base == name && slices.Contains(Extensions, "."+rest) {
			present[file] = true
		}
	}

	var candidates []string
	for _, ext := range Extensions {
		if file := name + ext; present[file] {
			candidates = append(candidates, file)
		}
	}
	return candidates, nil
}

// Resolve returns the highest precedence file for namespace name, or "" when
// the namespace has no files.
func (s *Store) Resolve(name string) (string, error) {
	candidates, err := s.CandidateFiles(name)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

