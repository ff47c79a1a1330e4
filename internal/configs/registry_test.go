package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/PolarWolf314/loqet/internal/errors"
	"github.com/PolarWolf314/loqet/internal/secrets"
)

func newTestRegistry(t *testing.T) (*Registry, *Settings) {
	t.Helper()
	settings := NewSettings(t.TempDir())
	return NewRegistry(settings), settings
}

func TestRegistry_CreateAndGet(t *testing.T) {
	reg, settings := newTestRegistry(t)
	dir := t.TempDir()

	info, err := reg.Create("link", dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "link", info.Name)
	assert.Equal(t, dir, info.LoqetDir)
	assert.Equal(t, filepath.Join(settings.ConfigDir, "link.key"), info.Keyfile)
	assert.FileExists(t, info.Keyfile)

	got, err := reg.Get("link")
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestRegistry_CreateStoresSuppliedKey(t *testing.T) {
	reg, _ := newTestRegistry(t)

	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	_, err = reg.Create("zelda", t.TempDir(), key)
	require.NoError(t, err)

	_, stored, err := reg.Key("zelda")
	require.NoError(t, err)
	assert.Equal(t, key, stored)
}

func TestRegistry_CreateMakesDirectoryAbsolute(t *testing.T) {
	reg, _ := newTestRegistry(t)

	info, err := reg.Create("relative", "some/dir", nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(info.LoqetDir), "expected absolute dir, got %s", info.LoqetDir)
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Create("link", t.TempDir(), nil)
	require.NoError(t, err)

	_, err = reg.Create("link", t.TempDir(), nil)
	assert.ErrorIs(t, err, kerrors.ErrDuplicateContext)
}

func TestRegistry_CreateInvalidNames(t *testing.T) {
	reg, settings := newTestRegistry(t)

	tests := []struct {
		name    string
		context string
		wantErr error
	}{
		{"reserved help", "help", kerrors.ErrReservedName},
		{"reserved is case insensitive", "Delete", kerrors.ErrReservedName},
		{"reserved none", "none", kerrors.ErrReservedName},
		{"master key name", "loqet", kerrors.ErrReservedName},
		{"empty", "", kerrors.ErrInvalidContextName},
		{"path separator", "../escape", kerrors.ErrInvalidContextName},
		{"leading dash", "-flag", kerrors.ErrInvalidContextName},
		{"dot", "a.b", kerrors.ErrInvalidContextName},
		{"too long", strings.Repeat("a", 65), kerrors.ErrInvalidContextName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Create(tt.context, t.TempDir(), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	names, err := reg.Names()
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NoFileExists(t, settings.ContextsFile)
}

func TestValidateContextName_Accepts(t *testing.T) {
	for _, name := range []string{"link", "Hyrule_Castle", "v2-prod", "9lives"} {
		assert.NoError(t, ValidateContextName(name), name)
	}
}

func TestRegistry_GetWithoutActive(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Get("")
	assert.ErrorIs(t, err, kerrors.ErrNoActiveContext)

	_, err = reg.Get("ghost")
	assert.ErrorIs(t, err, kerrors.ErrContextNotFound)
}

func TestRegistry_SetActive(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.Create("link", t.TempDir(), nil)
	require.NoError(t, err)

	ok, err := reg.SetActive("ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	active, err := reg.Active()
	require.NoError(t, err)
	assert.Empty(t, active)

	ok, err = reg.SetActive("link")
	require.NoError(t, err)
	assert.True(t, ok)

	info, err := reg.Get("")
	require.NoError(t, err)
	assert.Equal(t, "link", info.Name)

	ok, err = reg.SetActive("")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = reg.Get("")
	assert.ErrorIs(t, err, kerrors.ErrNoActiveContext)
}

func TestRegistry_ReReadsFileOnEveryCall(t *testing.T) {
	settings := NewSettings(t.TempDir())
	first := NewRegistry(settings)
	second := NewRegistry(settings)

	_, err := first.Create("link", t.TempDir(), nil)
	require.NoError(t, err)

	ok, err := second.SetActive("link")
	require.NoError(t, err)
	require.True(t, ok)

	active, err := first.Active()
	require.NoError(t, err)
	assert.Equal(t, "link", active)
}

func TestRegistry_ListAndNames(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, name := range []string{"zelda", "link", "ganon"} {
		_, err := reg.Create(name, t.TempDir(), nil)
		require.NoError(t, err)
	}

	names, err := reg.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"ganon", "link", "zelda"}, names)

	contexts, err := reg.List()
	require.NoError(t, err)
	require.Len(t, contexts, 3)
	assert.Equal(t, "zelda", contexts["zelda"].Name)
}

func TestRegistry_Delete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	dir := t.TempDir()

	info, err := reg.Create("link", dir, nil)
	require.NoError(t, err)
	_, err = reg.SetActive("link")
	require.NoError(t, err)

	ok, err := reg.Delete("link")
	require.NoError(t, err)
	assert.True(t, ok)

	active, err := reg.Active()
	require.NoError(t, err)
	assert.Empty(t, active, "deleting the active context should clear the pointer")

	assert.FileExists(t, info.Keyfile, "delete must not remove the key file")
	assert.DirExists(t, dir, "delete must not remove the context directory")

	ok, err = reg.Delete("link")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_DeleteKey(t *testing.T) {
	reg, _ := newTestRegistry(t)

	info, err := reg.Create("link", t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, reg.DeleteKey("link"))
	assert.NoFileExists(t, info.Keyfile)

	err = reg.DeleteKey("link")
	assert.ErrorIs(t, err, kerrors.ErrKeyNotFound)

	_, _, err = reg.Key("link")
	assert.ErrorIs(t, err, kerrors.ErrKeyNotFound)
}

func TestRegistry_InvalidFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"list document", "- one\n- two\n"},
		{"scalar document", "just a string\n"},
		{"broken yaml", "contexts: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, settings := newTestRegistry(t)
			require.NoError(t, os.WriteFile(settings.ContextsFile, []byte(tt.content), 0600))

			_, err := reg.List()
			assert.ErrorIs(t, err, kerrors.ErrInvalidRegistry)

			_, err = reg.Create("link", t.TempDir(), nil)
			assert.ErrorIs(t, err, kerrors.ErrInvalidRegistry)
		})
	}
}

func TestRegistry_EmptyFile(t *testing.T) {
	reg, settings := newTestRegistry(t)
	require.NoError(t, os.WriteFile(settings.ContextsFile, nil, 0600))

	names, err := reg.Names()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRegistry_PersistedLayout(t *testing.T) {
	reg, settings := newTestRegistry(t)
	dir := t.TempDir()

	_, err := reg.Create("link", dir, nil)
	require.NoError(t, err)
	_, err = reg.SetActive("link")
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, LoadYAML(settings.ContextsFile, &raw))

	assert.Equal(t, "link", raw["active_context"])
	contexts, ok := raw["contexts"].(map[string]any)
	require.True(t, ok, "contexts should be a mapping")
	link, ok := contexts["link"].(map[string]any)
	require.True(t, ok, "link should be a mapping")
	assert.Equal(t, dir, link["loqet_dir"])
	assert.Equal(t, filepath.Join(settings.ConfigDir, "link.key"), link["keyfile"])
}
