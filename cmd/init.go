package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/utils"
	"github.com/PolarWolf314/loqet/internal/workflows"
)

var (
	initKey      string
	initActivate bool
)

func init() {
	initCmd.Flags().StringVar(&initKey, "key", "", "use an existing base64 key instead of generating one (- reads it from stdin)")
	initCmd.Flags().BoolVar(&initActivate, "activate", false, "make the new context active")
}

var initCmd = &cobra.Command{
	Use:   "init <context> <dir>",
	Short: "Register a new context and create its key",
	Long: `Registers <context> for the namespaces in <dir> and writes its key to the
loqet config directory. <dir> is created if it does not exist.

A new key is generated unless --key is given. Use --key - to read the key from
stdin so that it does not end up in your shell history.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing context...", verbose)
		defer cleanup()

		key := initKey
		if key == "-" {
			data, err := utils.ReadStdin()
			if err != nil {
				spinner.FinalMSG = failure("Failed to read key: "+err.Error(), "")
				return nil
			}
			key = strings.TrimSpace(string(data))
		}

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			ContextName: args[0],
			Dir:         args[1],
			Key:         key,
			Activate:    initActivate,
			Logger:      Logger,
		})
		if err != nil {
			return handleError(spinner, err, "failed to initialize context %s", args[0])
		}

		var b strings.Builder
		b.WriteString(ui.CheckMark + " Context " + ui.Highlight.Sprint(result.Context.Name) +
			" registered for " + ui.Path.Sprint(result.Context.LoqetDir))
		if result.DirCreated {
			b.WriteString("\n" + ui.CheckMark + " Created " + ui.Path.Sprint(result.Context.LoqetDir))
		}
		if result.Activated {
			b.WriteString("\n" + ui.CheckMark + " " + ui.Highlight.Sprint(result.Context.Name) + " is now the active context")
		}
		if result.KeyGenerated {
			b.WriteString("\n" + keyCreatedWarning(result.Context.Keyfile))
		} else {
			b.WriteString("\n" + ui.CheckMark + " Key written to " + ui.Path.Sprint(result.Context.Keyfile))
		}
		if !result.Activated {
			b.WriteString("\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("loqet context set "+result.Context.Name) + " to make it active")
		}
		spinner.FinalMSG = b.String()
		return nil
	},
}
