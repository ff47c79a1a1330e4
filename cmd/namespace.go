package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/loqet/internal/configs"
	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/utils"
	"github.com/PolarWolf314/loqet/internal/workflows"
)

// namespaceCommands returns the commands that act on namespaces of a context.
// They are registered directly on the root command.
func namespaceCommands() []*cobra.Command {
	return []*cobra.Command{
		listCmd, lsCmd, createCmd, encryptCmd, decryptCmd, printCmd, viewCmd,
		editCmd, diffCmd, getCmd, setCmd, findCmd, openCmd, closeCmd,
	}
}

func init() {
	for _, c := range namespaceCommands() {
		addContextFlag(c)
	}
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd, editCmd, openCmd, closeCmd} {
		addBackupFlag(c)
	}
}

func contextOptions() workflows.ContextOptions {
	return workflows.ContextOptions{ContextName: contextName, Logger: Logger}
}

func namespaceOptions(name string) workflows.NamespaceOptions {
	return workflows.NamespaceOptions{
		ContextOptions: contextOptions(),
		Name:           name,
		Backup:         backupPolicy,
	}
}

// printResult writes msg for commands that do not run a spinner.
func printResult(msg string) {
	fmt.Print(ui.EnsureNewline(msg))
}

// reportError prints expected errors for commands without a spinner.
func reportError(err error, format string, args ...any) error {
	if msg, ok := userError(err); ok {
		printResult(msg)
		return nil
	}
	return Logger.ErrorfAndReturn(format+": %v", append(args, err)...)
}

func policyNote(policy configs.BackupPolicy) string {
	if policy.ShouldBackup() {
		return " " + ui.Muted.Sprint("backup: track")
	}
	return ""
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the namespaces in a context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Listing namespaces...", verbose)
		defer cleanup()

		result, err := workflows.ListNamespaces(context.Background(), contextOptions())
		if err != nil {
			return handleError(spinner, err, "failed to list namespaces")
		}
		spinner.FinalMSG = renderEntries(result, "namespaces")
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every file in a context directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Listing files...", verbose)
		defer cleanup()

		result, err := workflows.ListFiles(context.Background(), contextOptions())
		if err != nil {
			return handleError(spinner, err, "failed to list files")
		}
		spinner.FinalMSG = renderEntries(result, "files")
		return nil
	},
}

func renderEntries(result *workflows.NamespaceListResult, what string) string {
	if len(result.Entries) == 0 {
		return ui.WarnMark + " No " + what + " in " + ui.Path.Sprint(result.Context.LoqetDir)
	}
	return strings.Join(result.Entries, "\n")
}

var createCmd = &cobra.Command{
	Use:   "create <namespace>",
	Short: "Create an empty namespace",
	Long:  `Creates <namespace>.yaml.open in the context directory. Run 'loqet encrypt' once it holds your secrets.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Creating namespace...", verbose)
		defer cleanup()

		result, err := workflows.CreateNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to create namespace %s", args[0])
		}
		spinner.FinalMSG = ui.CheckMark + " Created " + ui.Path.Sprint(result.Path)
		return nil
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <namespace>",
	Short: "Encrypt a namespace to <namespace>.yaml.loq",
	Long: `Encrypts <namespace>.yaml.open, or <namespace>.yaml when there is no open
copy, into <namespace>.yaml.loq. The plaintext is left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Encrypting namespace...", verbose)
		defer cleanup()

		result, err := workflows.EncryptNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to encrypt namespace %s", args[0])
		}
		spinner.FinalMSG = ui.CheckMark + " Encrypted " + ui.Highlight.Sprint(args[0]) +
			" to " + ui.Path.Sprint(result.Path) + policyNote(result.Policy)
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <namespace>",
	Short: "Decrypt a namespace to <namespace>.yaml.open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Decrypting namespace...", verbose)
		defer cleanup()

		result, err := workflows.DecryptNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to decrypt namespace %s", args[0])
		}
		spinner.FinalMSG = ui.CheckMark + " Decrypted " + ui.Highlight.Sprint(args[0]) +
			" to " + ui.Path.Sprint(result.Path) + policyNote(result.Policy) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("loqet encrypt "+args[0]) + " when you are done editing"
		return nil
	},
}

var printCmd = &cobra.Command{
	Use:   "print <namespace>",
	Short: "Print a namespace's decrypted content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Decrypting namespace...", verbose)
		defer cleanup()

		result, err := workflows.ShowNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to read namespace %s", args[0])
		}
		Logger.Debugf("Printing %s", result.Path)
		spinner.FinalMSG = result.Content
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <namespace>",
	Short: "Show a namespace's decrypted content in your pager",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.ShowNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return reportError(err, "failed to read namespace %s", args[0])
		}
		return utils.Page(result.Pager, result.Content, os.Stdout)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <namespace>",
	Short: "Edit a namespace vault in your editor",
	Long: `Decrypts <namespace>.yaml.loq to a private temporary file, opens it in
$EDITOR and encrypts the result back. The vault is left alone if nothing changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.Edit(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return reportError(err, "failed to edit namespace %s", args[0])
		}
		printResult(renderEdit(result))
		return nil
	},
}

func renderEdit(result *workflows.EditResult) string {
	var b strings.Builder
	if result.MasterKey.KeyCreated {
		b.WriteString(keyCreatedWarning(result.MasterKey.Keyfile) + "\n")
	}
	if !result.Changed {
		b.WriteString(ui.CheckMark + " No changes to " + ui.Path.Sprint(result.Path))
		return b.String()
	}
	b.WriteString(ui.CheckMark + " Updated " + ui.Path.Sprint(result.Path))
	if result.Backup != "" {
		b.WriteString("\n" + ui.CheckMark + " Backed up to " + ui.Path.Sprint(result.Backup))
	}
	return b.String()
}

var diffCmd = &cobra.Command{
	Use:   "diff <namespace>",
	Short: "Compare the files that realise a namespace",
	Long:  `Shows a unified diff between each pair of <namespace>.yaml.open, <namespace>.yaml and the decrypted <namespace>.yaml.loq.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Comparing files...", verbose)
		defer cleanup()

		result, err := workflows.DiffNamespace(context.Background(), namespaceOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to diff namespace %s", args[0])
		}
		if len(result.Files) < 2 {
			spinner.FinalMSG = ui.WarnMark + " Nothing to compare: " + ui.Highlight.Sprint(args[0]) +
				" has " + fmt.Sprintf("%d %s", len(result.Files), utils.Plural(len(result.Files), "file"))
			return nil
		}
		spinner.FinalMSG = renderDiff(result)
		return nil
	},
}

func renderDiff(result *workflows.DiffResult) string {
	parts := make([]string, 0, len(result.Diffs))
	for _, d := range result.Diffs {
		if d.Identical() {
			parts = append(parts, ui.CheckMark+" "+ui.Path.Sprint(d.From)+" and "+ui.Path.Sprint(d.To)+" are identical")
			continue
		}
		parts = append(parts, strings.TrimRight(d.Unified, "\n"))
	}
	return strings.Join(parts, "\n")
}

var getCmd = &cobra.Command{
	Use:   "get <namespace.path>",
	Short: "Print a value as JSON",
	Long: `Looks up a dotted path such as inventory.sword.damage. The first segment is
the namespace. Missing keys print an empty object.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Reading value...", verbose)
		defer cleanup()

		result, err := workflows.GetValue(context.Background(), workflows.GetOptions{
			ContextOptions: contextOptions(),
			Path:           args[0],
		})
		if err != nil {
			return handleError(spinner, err, "failed to get %s", args[0])
		}
		spinner.FinalMSG = result.JSON
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <namespace.path> <value>",
	Short: "Not supported; edit the namespace instead",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Setting value...", verbose)
		defer cleanup()

		err := workflows.SetValue(context.Background(), workflows.GetOptions{
			ContextOptions: contextOptions(),
			Path:           args[0],
		}, args[1])
		if err != nil {
			return handleError(spinner, err, "failed to set %s", args[0])
		}
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <term>",
	Short: "Search every file in a context for a term",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Searching...", verbose)
		defer cleanup()

		result, err := workflows.FindInContext(context.Background(), workflows.FindOptions{
			ContextOptions: contextOptions(),
			Term:           args[0],
		})
		if err != nil {
			return handleError(spinner, err, "failed to search for %s", args[0])
		}
		spinner.FinalMSG = renderFind(result, args[0])
		return nil
	},
}

func renderFind(result *workflows.FindResult, term string) string {
	files := result.Files()

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching %s for %s", len(files), utils.Plural(len(files), "file"), ui.Code.Sprint(term))

	current := ""
	for _, m := range result.Matches {
		if m.File != current {
			current = m.File
			b.WriteString("\n" + ui.Path.Sprint(m.File))
		}
		fmt.Fprintf(&b, "\n\t%d : %s", m.Line, m.Text)
	}
	if len(result.Skipped) > 0 {
		b.WriteString("\n" + ui.WarnMark + " Skipped " + fmt.Sprintf("%d %s", len(result.Skipped), utils.Plural(len(result.Skipped), "file")) +
			" that could not be read:" + strings.TrimRight(utils.FormatPaths(result.Skipped), "\n"))
	}
	return b.String()
}
