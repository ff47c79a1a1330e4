package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/workflows"
)

var purgeKey bool

func init() {
	contextDeleteCmd.Flags().BoolVar(&purgeKey, "purge-key", false, "also delete the context's key file")

	ContextCmd.AddCommand(contextListCmd)
	ContextCmd.AddCommand(contextGetCmd)
	ContextCmd.AddCommand(contextInfoCmd)
	ContextCmd.AddCommand(contextSetCmd)
	ContextCmd.AddCommand(contextUnsetCmd)
	ContextCmd.AddCommand(contextDeleteCmd)
}

// ContextCmd groups the commands that manage registered contexts.
var ContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage loqet contexts",
	Long:  `A context binds a directory of namespaces to a key. Commands run against the active context unless --context is given.`,
}

var contextListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered contexts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Listing contexts...", verbose)
		defer cleanup()

		result, err := workflows.ListContexts(context.Background())
		if err != nil {
			return handleError(spinner, err, "failed to list contexts")
		}
		if len(result.Contexts) == 0 {
			spinner.FinalMSG = ui.WarnMark + " No contexts registered\n" +
				ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("loqet init <context> <dir>") + " to create one"
			return nil
		}

		rows := make([]ui.Row, 0, len(result.Contexts))
		for _, c := range result.Contexts {
			value := c.LoqetDir
			if c.Name == result.Active {
				value += " " + ui.Muted.Sprint("active")
			}
			rows = append(rows, ui.Row{Key: c.Name, Value: value})
		}
		spinner.FinalMSG = ui.Aligned(rows)
		return nil
	},
}

var contextGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Reading active context...", verbose)
		defer cleanup()

		active, err := workflows.Registry().Active()
		if err != nil {
			return handleError(spinner, err, "failed to read the active context")
		}
		if active == "" {
			msg, _ := userError(kerrors.ErrNoActiveContext)
			spinner.FinalMSG = msg
			return nil
		}
		spinner.FinalMSG = active
		return nil
	},
}

var contextInfoCmd = &cobra.Command{
	Use:   "info [name]",
	Short: "Show details for a context (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Reading context...", verbose)
		defer cleanup()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}

		registry := workflows.Registry()
		info, err := registry.Get(name)
		if err != nil {
			return handleError(spinner, err, "failed to read context %s", name)
		}
		active, err := registry.Active()
		if err != nil {
			return handleError(spinner, err, "failed to read the active context")
		}

		spinner.FinalMSG = ui.Aligned([]ui.Row{
			{Key: "name", Value: info.Name},
			{Key: "loqet_dir", Value: info.LoqetDir},
			{Key: "keyfile", Value: info.Keyfile},
			{Key: "active", Value: fmt.Sprintf("%t", info.Name == active)},
		})
		return nil
	},
}

var contextSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Make a context active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Setting active context...", verbose)
		defer cleanup()

		ok, err := workflows.Registry().SetActive(args[0])
		if err != nil {
			return handleError(spinner, err, "failed to set the active context")
		}
		if !ok {
			msg, _ := userError(fmt.Errorf("%w: %s", kerrors.ErrContextNotFound, args[0]))
			spinner.FinalMSG = msg
			return nil
		}
		spinner.FinalMSG = ui.CheckMark + " " + ui.Highlight.Sprint(args[0]) + " is now the active context"
		return nil
	},
}

var contextUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear the active context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Clearing active context...", verbose)
		defer cleanup()

		if _, err := workflows.Registry().SetActive(""); err != nil {
			return handleError(spinner, err, "failed to clear the active context")
		}
		spinner.FinalMSG = ui.CheckMark + " No context is active"
		return nil
	},
}

var contextDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Unregister a context",
	Long: `Removes <name> from the registry. The context directory is left untouched.
The key file is kept unless --purge-key is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Deleting context...", verbose)
		defer cleanup()

		result, err := workflows.DeleteContext(context.Background(), workflows.DeleteContextOptions{
			ContextName: args[0],
			PurgeKey:    purgeKey,
			Logger:      Logger,
		})
		if err != nil {
			return handleError(spinner, err, "failed to delete context %s", args[0])
		}

		lines := []string{ui.CheckMark + " Context " + ui.Highlight.Sprint(result.Context.Name) + " deleted"}
		if result.WasActive {
			lines = append(lines, ui.WarnMark+" No context is active now")
		}
		if result.KeyRemoved {
			lines = append(lines, ui.CheckMark+" Removed key "+ui.Path.Sprint(result.Context.Keyfile))
		} else {
			lines = append(lines, ui.Info.Sprint("→")+" Key kept at "+ui.Path.Sprint(result.Context.Keyfile))
		}
		spinner.FinalMSG = strings.Join(lines, "\n")
		return nil
	},
}
