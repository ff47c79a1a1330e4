package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/PolarWolf314/loqet/internal/configs"
	logger "github.com/PolarWolf314/loqet/internal/logging"
	"github.com/PolarWolf314/loqet/internal/ui"
	"github.com/PolarWolf314/loqet/internal/utils"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// Shared by every command that takes --context or --backup.
	contextName  string
	backupPolicy configs.BackupPolicy

	RootCmd = &cobra.Command{
		Use:   "loqet",
		Short: "loqet - a local secrets manager for per-project encrypted YAML",
		Long: `loqet keeps per-project secrets as encrypted YAML namespaces next to your code.

A context ties a directory of namespaces to one key. Namespaces are read from
<name>.yaml.open, then <name>.yaml, then <name>.yaml.loq, so you can open a
vault, change it, test against it and close it again.

Run 'loqet init <context> <dir>' to get started.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if utils.IsOutputTerminal(os.Stdout) {
				figure.NewColorFigure("loqet", "alligator2", "green", true).Print()
				fmt.Println()
			}
			fmt.Println("Welcome to loqet! Run " + ui.Code.Sprint("loqet --help") + " to see available commands.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(ContextCmd)
	RootCmd.AddCommand(LoqCmd)
	for _, c := range namespaceCommands() {
		RootCmd.AddCommand(c)
	}
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// addContextFlag registers --context/-c on c.
func addContextFlag(c *cobra.Command) {
	c.Flags().StringVarP(&contextName, "context", "c", "", "context to use (defaults to the active context)")
}

// addBackupFlag registers --backup on c. Leaving it unset lets safe_mode and
// the command default decide.
func addBackupFlag(c *cobra.Command) {
	c.Flags().Var(&backupPolicy, "backup", "back up overwritten files and update .gitignore (track) or not (none)")
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	contextName = ""
	backupPolicy = configs.BackupDefault
	initKey = ""
	initActivate = false
	purgeKey = false
	resetFlagState(RootCmd)
}

// resetFlagState clears the Changed marker on every flag so that one test's
// flags do not leak into the next.
func resetFlagState(c *cobra.Command) {
	c.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	c.PersistentFlags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
