package workflows

import (
	"context"

	"github.com/PolarWolf314/loqet/internal/configs"
	"github.com/PolarWolf314/loqet/internal/store"
)

// BulkOptions configures open and close.
type BulkOptions struct {
	ContextOptions

	// Backup is the policy chosen on the command line, BackupDefault if none.
	Backup configs.BackupPolicy
}

// BulkResult reports one outcome per namespace.
type BulkResult struct {
	Context  *configs.ContextInfo
	Outcomes []store.Outcome
	Policy   configs.BackupPolicy
}

// Succeeded returns the number of namespaces that were processed.
func (r *BulkResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed returns the outcomes that did not succeed.
func (r *BulkResult) Failed() []store.Outcome {
	var failed []store.Outcome
	for _, o := range r.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}

// Open decrypts every namespace vault in the context to a .open file.
// The command default is BackupAndTrack. Individual failures are reported in
// the result and do not fail the workflow.
func Open(ctx context.Context, opts BulkOptions) (*BulkResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	policy := opts.Backup.Resolve(settings, configs.BackupAndTrack)
	outcomes, err := s.OpenAll(policy)
	if err != nil {
		return nil, err
	}
	return &BulkResult{Context: s.Context, Outcomes: outcomes, Policy: policy}, nil
}

// Close encrypts every namespace's plaintext in the context to its vault.
// The command default is BackupAndTrack.
func Close(ctx context.Context, opts BulkOptions) (*BulkResult, error) {
	s, settings, err := openStore(opts.ContextOptions)
	if err != nil {
		return nil, err
	}

	policy := opts.Backup.Resolve(settings, configs.BackupAndTrack)
	outcomes, err := s.CloseAll(policy)
	if err != nil {
		return nil, err
	}
	return &BulkResult{Context: s.Context, Outcomes: outcomes, Policy: policy}, nil
}
