// Package errors provides typed error values for loqet.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Envelope errors: vault format and cipher failures (ErrInvalidEnvelope, ErrDecryption)
//   - Key errors: missing key files (ErrKeyNotFound)
//   - Context errors: registry state (ErrDuplicateContext, ErrNoActiveContext)
//   - Namespace errors: namespace files (ErrInvalidNamespaceFormat, ErrNamespaceNotFound)
//
// Format errors are always reported before decryption is attempted, so
// ErrInvalidEnvelope and ErrDecryption are never conflated.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading key for context %s: %w", name, errors.ErrKeyNotFound)
//
// Handle errors in the CLI layer:
//
//	value, err := s.Get(path)
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    // Show user-friendly message
//	}
package errors
