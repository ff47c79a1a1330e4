// Package workflows provides high-level orchestration for loqet commands.
//
// Workflows coordinate the configs, secrets and store packages to implement
// complete user-facing features. Each workflow handles one command's
// business logic, independent of CLI concerns like flag parsing, spinners
// and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving the context through the registry
//   - Loading user settings and resolving the backup policy
//   - Performing the core operation
//
// # Available Workflows
//
// Context workflows: Init, ListContexts, DeleteContext.
//
// Namespace workflows bound to a context: ListNamespaces, ListFiles,
// CreateNamespace, EncryptNamespace, DecryptNamespace, ShowNamespace,
// GetValue, Open, Close, Edit, DiffNamespace and FindInContext.
//
// File workflows that use the master key instead of a context: EncryptFile,
// DecryptFile, ShowFile, EditFile, DiffFiles and FindInTree.
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package so the
// CLI layer can react without string matching:
//
//	result, err := workflows.Open(ctx, opts)
//	if errors.Is(err, kerrors.ErrNoActiveContext) {
//	    // Suggest `loqet context set`
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
package workflows
