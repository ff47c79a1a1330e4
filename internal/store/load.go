package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

// Load returns the parsed document of the highest precedence file for
// namespace name. A namespace with no files, or an empty document, loads as an
// empty map.
func (s *Store) Load(name string) (any, error) {
	file, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		s.Logger.Debugf("No files for namespace %s in %s", name, s.Dir)
		return map[string]any{}, nil
	}

	s.Logger.Debugf("Loading namespace %s from %s", name, file)
	text, err := secrets.ReadPlaintext(s.Path(file), s.key)
	if err != nil {
		return nil, err
	}

	return parseDocument(file, text)
}

// Get returns the value at a dotted path whose first segment is the namespace,
// for example "inventory.sword.name". A missing key anywhere along the path
// yields an empty map rather than an error. A bare namespace returns the whole
// document.
func (s *Store) Get(path string) (any, error) {
	name, keys, _ := strings.Cut(path, ".")
	if err := validateName(name); err != nil {
		return nil, err
	}

	doc, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	if keys == "" {
		return doc, nil
	}
	return lookup(doc, strings.Split(keys, ".")), nil
}

// Set always fails. Secrets are changed with edit or decrypt and encrypt, so
// that nothing can overwrite a vault value unnoticed.
func (s *Store) Set(path string, value any) error {
	return fmt.Errorf("%w: set %s: use edit, or decrypt then encrypt", kerrors.ErrUnsupportedOperation, path)
}

func parseDocument(file, text string) (any, error) {
	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrInvalidNamespaceFormat, file, err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc, nil
}

func lookup(doc any, keys []string) any {
	current := doc
	for _, key := range keys {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return map[string]any{}
			}
			current = next
		case map[any]any:
			next, ok := node[key]
			if !ok {
				return map[string]any{}
			}
			current = next
		default:
			return map[string]any{}
		}
	}
	return current
}
