package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/utils"
	"github.com/PolarWolf314/loqet/internal/workflows"
)

func init() {
	for _, c := range []*cobra.Command{loqEncryptCmd, loqDecryptCmd, loqEditCmd} {
		addBackupFlag(c)
	}

	LoqCmd.AddCommand(loqEncryptCmd)
	LoqCmd.AddCommand(loqDecryptCmd)
	LoqCmd.AddCommand(loqPrintCmd)
	LoqCmd.AddCommand(loqViewCmd)
	LoqCmd.AddCommand(loqEditCmd)
	LoqCmd.AddCommand(loqDiffCmd)
	LoqCmd.AddCommand(loqFindCmd)
}

// LoqCmd groups the commands that work on individual files with the master
// key, outside of any context.
var LoqCmd = &cobra.Command{
	Use:   "loq",
	Short: "Encrypt and decrypt single files with your master key",
	Long: `The loq commands work on any file, not just namespaces in a context. They use
the master key in the loqet config directory, which is created on first use.`,
}

func fileOptions(path string) workflows.FileOptions {
	return workflows.FileOptions{Path: path, Backup: backupPolicy, Logger: Logger}
}

func renderFile(result *workflows.FileResult, verb string) string {
	msg := ""
	if result.MasterKey.KeyCreated {
		msg = keyCreatedWarning(result.MasterKey.Keyfile) + "\n"
	}
	msg += ui.CheckMark + " " + verb + " " + ui.Path.Sprint(result.Source) + " to " + ui.Path.Sprint(result.Target)
	if result.Backup != "" {
		msg += "\n" + ui.CheckMark + " Backed up to " + ui.Path.Sprint(result.Backup)
	}
	return msg
}

var loqEncryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypt a file to <file>.loq",
	Long:  `Encrypts <file> to <file>.loq. A trailing .open is dropped, so config.yaml.open encrypts to config.yaml.loq.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Encrypting file...", verbose)
		defer cleanup()

		result, err := workflows.EncryptFile(context.Background(), fileOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to encrypt %s", args[0])
		}
		spinner.FinalMSG = renderFile(result, "Encrypted")
		return nil
	},
}

var loqDecryptCmd = &cobra.Command{
	Use:   "decrypt <file.loq>",
	Short: "Decrypt a vault to a .open file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Decrypting file...", verbose)
		defer cleanup()

		result, err := workflows.DecryptFile(context.Background(), fileOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to decrypt %s", args[0])
		}
		spinner.FinalMSG = renderFile(result, "Decrypted")
		return nil
	},
}

var loqPrintCmd = &cobra.Command{
	Use:   "print <file.loq>",
	Short: "Print a vault's decrypted content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Decrypting file...", verbose)
		defer cleanup()

		result, err := workflows.ShowFile(context.Background(), fileOptions(args[0]))
		if err != nil {
			return handleError(spinner, err, "failed to read %s", args[0])
		}
		spinner.FinalMSG = result.Content
		return nil
	},
}

var loqViewCmd = &cobra.Command{
	Use:   "view <file.loq>",
	Short: "Show a vault's decrypted content in your pager",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.ShowFile(context.Background(), fileOptions(args[0]))
		if err != nil {
			return reportError(err, "failed to read %s", args[0])
		}
		return utils.Page(result.Pager, result.Content, os.Stdout)
	},
}

var loqEditCmd = &cobra.Command{
	Use:   "edit <file.loq>",
	Short: "Edit a vault in your editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := workflows.EditFile(context.Background(), fileOptions(args[0]))
		if err != nil {
			return reportError(err, "failed to edit %s", args[0])
		}
		printResult(renderEdit(result))
		return nil
	},
}

var loqDiffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two files, decrypting vaults",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Comparing files...", verbose)
		defer cleanup()

		result, err := workflows.DiffFiles(context.Background(), workflows.DiffFilesOptions{
			A:      args[0],
			B:      args[1],
			Logger: Logger,
		})
		if err != nil {
			return handleError(spinner, err, "failed to diff %s and %s", args[0], args[1])
		}
		spinner.FinalMSG = renderDiff(result)
		return nil
	},
}

var loqFindCmd = &cobra.Command{
	Use:   "find <term> <dir>",
	Short: "Search every vault under a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Searching...", verbose)
		defer cleanup()

		result, err := workflows.FindInTree(context.Background(), workflows.FindTreeOptions{
			Root:   args[1],
			Term:   args[0],
			Logger: Logger,
		})
		if err != nil {
			return handleError(spinner, err, "failed to search %s", args[1])
		}
		spinner.FinalMSG = renderFind(result, args[0])
		return nil
	},
}
