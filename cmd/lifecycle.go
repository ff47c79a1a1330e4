package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/utils"
	"github.com/PolarWolf314/loqet/internal/workflows"
)

func bulkOptions() workflows.BulkOptions {
	return workflows.BulkOptions{ContextOptions: contextOptions(), Backup: backupPolicy}
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Decrypt every namespace vault in a context",
	Long: `Decrypts each <namespace>.yaml.loq to <namespace>.yaml.open. Existing open
files are backed up and the backups added to .gitignore unless --backup none is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Opening namespaces...", verbose)
		defer cleanup()

		result, err := workflows.Open(context.Background(), bulkOptions())
		if err != nil {
			return handleError(spinner, err, "failed to open namespaces")
		}
		spinner.FinalMSG = renderBulk(result, "Opened")
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Encrypt every namespace in a context",
	Long: `Encrypts each namespace to <namespace>.yaml.loq from its .open copy, or from
<namespace>.yaml when there is none. Existing vaults are backed up unless --backup none is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Closing namespaces...", verbose)
		defer cleanup()

		result, err := workflows.Close(context.Background(), bulkOptions())
		if err != nil {
			return handleError(spinner, err, "failed to close namespaces")
		}
		spinner.FinalMSG = renderBulk(result, "Closed")
		return nil
	},
}

func renderBulk(result *workflows.BulkResult, verb string) string {
	if len(result.Outcomes) == 0 {
		return ui.WarnMark + " No namespaces in " + ui.Path.Sprint(result.Context.LoqetDir)
	}

	n := result.Succeeded()
	lines := []string{fmt.Sprintf("%s %s %d %s in %s%s", ui.CheckMark, verb, n, utils.Plural(n, "namespace"),
		ui.Highlight.Sprint(result.Context.Name), policyNote(result.Policy))}
	for _, o := range result.Outcomes {
		if o.Success {
			lines = append(lines, "    "+ui.CheckMark+" "+o.Name)
		}
	}
	for _, o := range result.Failed() {
		msg := o.Err.Error()
		if m, ok := userError(o.Err); ok {
			msg = strings.SplitN(m, "\n", 2)[0]
			msg = strings.TrimPrefix(msg, ui.CrossMark+" ")
		}
		lines = append(lines, "    "+ui.CrossMark+" "+o.Name+": "+msg)
	}
	return strings.Join(lines, "\n")
}
