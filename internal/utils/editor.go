package utils

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner runs an external program attached to the given streams.
// Tests replace RunCommand to avoid spawning real editors and pagers.
type CommandRunner func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error

// RunCommand is the CommandRunner used by RunEditor and Page.
var RunCommand CommandRunner = runCommand

func runCommand(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// #nosec G204 -- the program comes from the user's own EDITOR/PAGER setting
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// splitCommand splits a command line such as "code --wait" into program and arguments.
func splitCommand(command string) (string, []string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no command configured")
	}
	return fields[0], fields[1:], nil
}

// RunEditor opens path in editor and waits for it to exit.
func RunEditor(editor, path string) error {
	name, args, err := splitCommand(editor)
	if err != nil {
		return fmt.Errorf("failed to start editor: %w", err)
	}
	if err := RunCommand(name, append(args, path), os.Stdin, os.Stdout, os.Stderr); err != nil {
		return fmt.Errorf("editor %s failed: %w", name, err)
	}
	return nil
}

// Page writes content to out, through pager when out is a terminal.
func Page(pager, content string, out *os.File) error {
	if !IsOutputTerminal(out) {
		_, err := io.WriteString(out, content)
		return err
	}

	name, args, err := splitCommand(pager)
	if err != nil {
		_, err := io.WriteString(out, content)
		return err
	}
	if err := RunCommand(name, args, strings.NewReader(content), out, os.Stderr); err != nil {
		return fmt.Errorf("pager %s failed: %w", name, err)
	}
	return nil
}
