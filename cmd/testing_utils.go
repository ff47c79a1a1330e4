// Package cmd contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and running loqet commands in-process.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/PolarWolf314/loqet/internal/configs"
	logger "github.com/PolarWolf314/loqet/internal/logging"
)

// setupTestEnvironment points loqet at a temporary config directory and clears
// the environment variables that override user settings.
func setupTestEnvironment(t *testing.T) *configs.Settings {
	t.Helper()

	originalSettings := configs.LoqetSettings
	tempConfigDir, err := os.MkdirTemp("", "loqet-config-*")
	if err != nil {
		t.Fatalf("Failed to create temp config directory: %v", err)
	}

	// Cleanup function to restore original state
	t.Cleanup(func() {
		configs.LoqetSettings = originalSettings
		ResetGlobalState()
		os.RemoveAll(tempConfigDir)
	})

	for _, env := range []string{"EDITOR", "PAGER", "LOQET_SAFE_MODE", "LOQET_GITIGNORE"} {
		t.Setenv(env, "")
	}
	t.Setenv("NO_COLOR", "1")

	configs.LoqetSettings = configs.NewSettings(tempConfigDir)
	ResetGlobalState()
	return configs.LoqetSettings
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// createTestCLI prepares the root command to run args with the given flags.
func createTestCLI(args []string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	ResetGlobalState()

	// Set global flags for the actual command (needed for the real command implementations)
	verbose = verboseFlag
	debug = debugFlag

	// Initialize the logger with the test flags
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
	}

	if stdout != nil {
		RootCmd.SetOut(stdout)
	}
	if stderr != nil {
		RootCmd.SetErr(stderr)
	}

	RootCmd.SetArgs(args)

	if err := RootCmd.PersistentFlags().Set("verbose", fmt.Sprintf("%t", verboseFlag)); err != nil {
		log.Fatalf("Failed to set verbose flag for testing: %s", err)
	}
	if err := RootCmd.PersistentFlags().Set("debug", fmt.Sprintf("%t", debugFlag)); err != nil {
		log.Fatalf("Failed to set debug flag for testing: %s", err)
	}

	return RootCmd
}

// runCommand runs a loqet command and returns everything it printed.
func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	output, err := captureOutput(func() error {
		return createTestCLI(args, nil, nil, false, false).Execute()
	})
	if err != nil {
		t.Errorf("Command %v failed: %v", args, err)
		t.Errorf("Output: %s", output)
	}
	return output
}

// initializeContext registers an active context over a fresh directory and
// returns that directory.
func initializeContext(t *testing.T, name string) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "loqet-test-"+name+"-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	runCommand(t, "init", name, dir, "--activate")
	return dir
}

// writeTestFile writes content to dir/name.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// verifyFileExists fails the test if path does not exist.
func verifyFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file %s was not created", path)
	}
}
