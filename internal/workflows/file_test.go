package workflows

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/loqet/internal/configs"
	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
	"github.com/PolarWolf314/loqet/internal/utils"
)

func TestVaultAndOpenPaths(t *testing.T) {
	tests := []struct {
		in       string
		vault    string
		vaultErr bool
		open     string
		openErr  bool
	}{
		{in: "config.yaml", vault: "config.yaml.loq", openErr: true},
		{in: "config.yaml.open", vault: "config.yaml.loq", openErr: true},
		{in: "config.yaml.loq", vaultErr: true, open: "config.yaml.open"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			vault, err := VaultPathFor(tt.in)
			if tt.vaultErr {
				assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.vault, vault)
			}

			open, err := OpenPathFor(tt.in)
			if tt.openErr {
				assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.open, open)
			}
		})
	}
}

func TestEncryptAndDecryptFile(t *testing.T) {
	settings := setupConfig(t)
	ctx := context.Background()
	dir := t.TempDir()
	source := filepath.Join(dir, "config.yaml.open")
	writeFile(t, source, "token: abc\n")

	encrypted, err := EncryptFile(ctx, FileOptions{Path: source})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml.loq"), encrypted.Target)
	assert.True(t, encrypted.MasterKey.KeyCreated)
	assert.Equal(t, filepath.Join(settings.ConfigDir, "loqet.key"), encrypted.MasterKey.Keyfile)
	assert.FileExists(t, source, "encrypt leaves the source in place")

	require.NoError(t, os.Remove(source))

	decrypted, err := DecryptFile(ctx, FileOptions{Path: encrypted.Target})
	require.NoError(t, err)
	assert.False(t, decrypted.MasterKey.KeyCreated, "master key is only created once")
	assert.Equal(t, source, decrypted.Target)

	data, err := os.ReadFile(source)
	require.NoError(t, err)
	assert.Equal(t, "token: abc\n", string(data))

	shown, err := ShowFile(ctx, FileOptions{Path: encrypted.Target})
	require.NoError(t, err)
	assert.Equal(t, "token: abc\n", shown.Content)
}

func TestEncryptFile_BackupAndTrack(t *testing.T) {
	setupConfig(t)
	ctx := context.Background()
	dir := t.TempDir()
	source := filepath.Join(dir, "config.yaml")
	writeFile(t, source, "v: 1\n")

	_, err := EncryptFile(ctx, FileOptions{Path: source})
	require.NoError(t, err)

	writeFile(t, source, "v: 2\n")
	result, err := EncryptFile(ctx, FileOptions{Path: source, Backup: configs.BackupAndTrack})
	require.NoError(t, err)
	require.NotEmpty(t, result.Backup)
	assert.True(t, strings.HasPrefix(result.Backup, result.Target+".bak."))
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
}

func TestFileWorkflows_RejectWrongExtension(t *testing.T) {
	setupConfig(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := EncryptFile(ctx, FileOptions{Path: filepath.Join(dir, "x.yaml.loq")})
	assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)

	_, err = DecryptFile(ctx, FileOptions{Path: filepath.Join(dir, "x.yaml")})
	assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)

	_, err = ShowFile(ctx, FileOptions{Path: filepath.Join(dir, "x.yaml")})
	assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)

	_, err = EditFile(ctx, FileOptions{Path: filepath.Join(dir, "x.yaml")})
	assert.ErrorIs(t, err, kerrors.ErrInvalidExtension)
}

func TestDecryptFile_NotAnEnvelope(t *testing.T) {
	setupConfig(t)
	path := filepath.Join(t.TempDir(), "x.yaml.loq")
	writeFile(t, path, "plain: text\n")

	_, err := DecryptFile(context.Background(), FileOptions{Path: path})
	assert.ErrorIs(t, err, kerrors.ErrInvalidEnvelope)
}

// stubEditor replaces the editor with one that rewrites the file via edit.
// A nil edit leaves the file untouched.
func stubEditor(t *testing.T, edit func(content string) string) *[]string {
	t.Helper()
	var opened []string
	original := utils.RunCommand
	utils.RunCommand = func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
		path := args[len(args)-1]
		opened = append(opened, name+" "+path)
		if edit == nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(edit(string(data))), 0600)
	}
	t.Cleanup(func() { utils.RunCommand = original })
	return &opened
}

func TestEdit(t *testing.T) {
	dir, key := setupContext(t)
	t.Setenv("EDITOR", "nano")
	vault := filepath.Join(dir, "inventory.yaml.loq")
	require.NoError(t, secrets.WriteVault("sword: kokiri sword\n", vault, key))

	opened := stubEditor(t, func(content string) string {
		return strings.ReplaceAll(content, "kokiri", "master")
	})

	result, err := Edit(context.Background(), NamespaceOptions{Name: "inventory"})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Empty(t, result.Backup)

	require.Len(t, *opened, 1)
	assert.True(t, strings.HasPrefix((*opened)[0], "nano "))
	tmp := strings.TrimPrefix((*opened)[0], "nano ")
	assert.NoFileExists(t, tmp, "the decrypted temporary file is removed")

	plaintext, err := secrets.ReadVault(vault, key)
	require.NoError(t, err)
	assert.Equal(t, "sword: master sword\n", plaintext)
}

func TestEdit_Unchanged(t *testing.T) {
	dir, key := setupContext(t)
	vault := filepath.Join(dir, "inventory.yaml.loq")
	require.NoError(t, secrets.WriteVault("a: b\n", vault, key))
	before, err := os.ReadFile(vault)
	require.NoError(t, err)

	stubEditor(t, nil)

	result, err := Edit(context.Background(), NamespaceOptions{Name: "inventory", Backup: configs.BackupAndTrack})
	require.NoError(t, err)
	assert.False(t, result.Changed)

	after, err := os.ReadFile(vault)
	require.NoError(t, err)
	assert.Equal(t, before, after, "an unchanged edit does not rewrite the vault")
}

func TestEdit_BackupAndTrack(t *testing.T) {
	dir, key := setupContext(t)
	vault := filepath.Join(dir, "inventory.yaml.loq")
	require.NoError(t, secrets.WriteVault("a: b\n", vault, key))

	stubEditor(t, func(string) string { return "a: c\n" })

	result, err := Edit(context.Background(), NamespaceOptions{Name: "inventory", Backup: configs.BackupAndTrack})
	require.NoError(t, err)
	require.NotEmpty(t, result.Backup)

	old, err := secrets.ReadVault(result.Backup, key)
	require.NoError(t, err)
	assert.Equal(t, "a: b\n", old)
}

func TestEdit_MissingVault(t *testing.T) {
	dir, _ := setupContext(t)
	writeFile(t, filepath.Join(dir, "inventory.yaml.open"), "a: b\n")
	stubEditor(t, nil)

	_, err := Edit(context.Background(), NamespaceOptions{Name: "inventory"})
	assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)
}
