package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
	"github.com/PolarWolf314/loqet/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// failure renders a user-facing error message with an optional hint.
func failure(msg, hint string) string {
	out := ui.CrossMark + " " + msg
	if hint != "" {
		out += "\n" + ui.Info.Sprint("→") + " " + hint
	}
	return out
}

// userError maps expected loqet errors to a message for the user. It returns
// false for errors the user cannot act on, which the caller should return.
func userError(err error) (string, bool) {
	switch {
	case errors.Is(err, kerrors.ErrNoActiveContext):
		return failure("No context given and no active context is set",
			"Pass "+ui.Flag.Sprint("--context")+" or run "+ui.Code.Sprint("loqet context set <name>")), true
	case errors.Is(err, kerrors.ErrContextNotFound):
		return failure("Context not found: "+err.Error(),
			"Run "+ui.Code.Sprint("loqet context list")+" to see registered contexts"), true
	case errors.Is(err, kerrors.ErrDuplicateContext):
		return failure("A context with that name already exists",
			"Pick another name or run "+ui.Code.Sprint("loqet context delete <name>")+" first"), true
	case errors.Is(err, kerrors.ErrReservedName):
		return failure("That context name is reserved: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrInvalidContextName):
		return failure("Invalid context name: "+err.Error(),
			"Use letters, digits, "+ui.Code.Sprint("-")+" and "+ui.Code.Sprint("_")), true
	case errors.Is(err, kerrors.ErrInvalidRegistry):
		return failure("The context registry could not be read: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrKeyNotFound):
		return failure("The encryption key for this context is missing: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrInvalidKeyLength):
		return failure("The key is not a valid 32-byte key: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrDecryption):
		return failure("Failed to decrypt. Is this vault encrypted with a different key?", ""), true
	case errors.Is(err, kerrors.ErrInvalidEnvelope):
		return failure("Not a loq file: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrInvalidExtension):
		return failure("Wrong file type: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrNamespaceNotFound):
		return failure("Namespace not found: "+err.Error(),
			"Run "+ui.Code.Sprint("loqet list")+" to see the namespaces in this context"), true
	case errors.Is(err, kerrors.ErrNamespaceExists):
		return failure("Namespace already exists: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrInvalidNamespaceName):
		return failure("Invalid namespace name: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrInvalidNamespaceFormat):
		return failure("The namespace is not valid YAML: "+err.Error(), ""), true
	case errors.Is(err, kerrors.ErrUnsupportedOperation):
		return failure("Setting values is not supported",
			"Use "+ui.Code.Sprint("loqet edit <namespace>")+" to change secrets"), true
	}
	return "", false
}

// handleError sets the spinner's final message for expected errors and
// returns nil, or logs and returns unexpected ones.
func handleError(s *spinner.Spinner, err error, format string, args ...any) error {
	if msg, ok := userError(err); ok {
		s.FinalMSG = msg
		return nil
	}
	s.FinalMSG = ui.CrossMark + " " + fmt.Sprintf(format, args...)
	return Logger.ErrorfAndReturn(format+": %v", append(args, err)...)
}

// keyCreatedWarning is shown whenever a key is generated for the user.
func keyCreatedWarning(keyfile string) string {
	return ui.WarnMark + " Created key " + ui.Path.Sprint(keyfile) + "\n" +
		ui.WarnMark + " " + ui.Warning.Sprint(secrets.KeyLossWarning)
}
