package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLifecycle contains integration tests for `loqet open` and `loqet close`.
func TestLifecycle(t *testing.T) {
	t.Run("CloseThenOpen", testLifecycleCloseThenOpen)
	t.Run("CloseBacksUpExistingVaults", testLifecycleCloseBacksUpExistingVaults)
	t.Run("CloseWithoutBackup", testLifecycleCloseWithoutBackup)
	t.Run("OpenReportsFailures", testLifecycleOpenReportsFailures)
	t.Run("EmptyContext", testLifecycleEmptyContext)
}

func testLifecycleCloseThenOpen(t *testing.T) {
	setupTestEnvironment(t)
	dir := initializeContext(t, "link")
	writeTestFile(t, dir, "inventory.yaml.open", inventory)
	writeTestFile(t, dir, "quests.yaml", "main: rescue zelda\n")

	output := runCommand(t, "close")
	if !strings.Contains(output, "Closed 2 namespaces") {
		t.Errorf("Expected close summary in output: %s", output)
	}
	verifyFileExists(t, filepath.Join(dir, "inventory.yaml.loq"))
	verifyFileExists(t, filepath.Join(dir, "quests.yaml.loq"))

	if err := os.Remove(filepath.Join(dir, "inventory.yaml.open")); err != nil {
		t.Fatalf("Failed to remove open file: %v", err)
	}

	output = runCommand(t, "open")
	if !strings.Contains(output, "Opened 2 namespaces") {
		t.Errorf("Expected open summary in output: %s", output)
	}
	content, err := os.ReadFile(filepath.Join(dir, "quests.yaml.open"))
	if err != nil {
		t.Fatalf("quests was not opened: %v", err)
	}
	if string(content) != "main: rescue zelda\n" {
		t.Errorf("Unexpected open content %q", content)
	}
}

func testLifecycleCloseBacksUpExistingVaults(t *testing.T) {
	setupTestEnvironment(t)
	dir := initializeContext(t, "link")
	writeTestFile(t, dir, "inventory.yaml.open", inventory)
	runCommand(t, "encrypt", "inventory")

	output := runCommand(t, "close")
	if !strings.Contains(output, "(backup: track)") {
		t.Errorf("Expected backup note in output: %s", output)
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("Expected .gitignore to be written: %v", err)
	}
	if len(strings.TrimSpace(string(gitignore))) == 0 {
		t.Errorf("Expected .gitignore entries")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read context directory: %v", err)
	}
	vaults := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "inventory.yaml.loq") {
			vaults++
		}
	}
	if vaults < 2 {
		t.Errorf("Expected the old vault to be backed up, found %d vault files", vaults)
	}
}

func testLifecycleCloseWithoutBackup(t *testing.T) {
	setupTestEnvironment(t)
	dir := initializeContext(t, "link")
	writeTestFile(t, dir, "inventory.yaml.open", inventory)
	runCommand(t, "encrypt", "inventory")

	output := runCommand(t, "close", "--backup", "none")
	if strings.Contains(output, "(backup: track)") {
		t.Errorf("Unexpected backup note in output: %s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitignore")); !os.IsNotExist(err) {
		t.Errorf("Expected no .gitignore with --backup none")
	}
}

func testLifecycleOpenReportsFailures(t *testing.T) {
	setupTestEnvironment(t)
	dir := initializeContext(t, "link")
	writeTestFile(t, dir, "inventory.yaml", inventory)
	runCommand(t, "close")
	writeTestFile(t, dir, "broken.yaml.loq", "not a vault\n")

	output := runCommand(t, "open", "--backup", "none")

	if !strings.Contains(output, "Opened 1 namespace") {
		t.Errorf("Expected one success in output: %s", output)
	}
	if !strings.Contains(output, "broken:") {
		t.Errorf("Expected failure for broken in output: %s", output)
	}
}

func testLifecycleEmptyContext(t *testing.T) {
	setupTestEnvironment(t)
	initializeContext(t, "link")

	output := runCommand(t, "open")

	if !strings.Contains(output, "No namespaces in") {
		t.Errorf("Expected empty context message in output: %s", output)
	}
}
