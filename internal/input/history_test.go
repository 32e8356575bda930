// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(afero.NewMemMapFs(), "/home/me/.libsql_history")

	entries, err := h.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_AppendThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, "/home/me/.libsql_history")

	for _, line := range []string{"select 1;", "# note", ".tables", ""} {
		require.NoError(t, h.Append(line))
	}

	data, err := afero.ReadFile(fs, "/home/me/.libsql_history")
	require.NoError(t, err)
	assert.Equal(t, "select 1;\n# note\n.tables\n", string(data))

	// A second store over the same file sees the earlier session.
	entries, err := NewHistory(fs, "/home/me/.libsql_history").Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"select 1;", "# note", ".tables"}, entries)
}

func TestHistory_AppendKeepsExistingEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/h", []byte("old;\n"), 0600))

	h := NewHistory(fs, "/h")
	require.NoError(t, h.Append("new;"))

	entries, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"old;", "new;"}, entries)
}

func TestHistory_IgnoreSpace(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, "/h")
	h.IgnoreSpace = true

	require.NoError(t, h.Append(" secret;"))
	require.NoError(t, h.Append("select 1;"))

	entries, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"select 1;"}, entries)
	assert.True(t, h.Skip(" x"))
	assert.True(t, h.Skip(""))
	assert.False(t, h.Skip("x"))
}

func TestHistory_RelativePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, ".libsql_history")

	require.NoError(t, h.Append("select 1;"))
	assert.Equal(t, ".libsql_history", h.Path())

	ok, err := afero.Exists(fs, ".libsql_history")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHistory_WriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	h := NewHistory(fs, "/home/me/.libsql_history")

	err := h.Append("select 1;")
	require.Error(t, err)
	assert.True(t, ErrHistoryWriteFailed.Is(err))
	assert.Contains(t, err.Error(), "/home/me/.libsql_history")
}

// deniedFs refuses to open any file.
type deniedFs struct {
	afero.Fs
}

func (deniedFs) Open(name string) (afero.File, error) {
	return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
}

func TestHistory_LoadFailure(t *testing.T) {
	h := NewHistory(deniedFs{afero.NewMemMapFs()}, "/home/me/.libsql_history")

	entries, err := h.Load()
	require.Error(t, err)
	assert.True(t, ErrHistoryLoadFailed.Is(err))
	assert.Contains(t, err.Error(), "/home/me/.libsql_history")
	assert.Empty(t, entries)
}

func TestHistory_LoadSkipsOversizedEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	huge := strings.Repeat("x", 2*MaxEntryLen)
	content := "ok;\n" + huge + "\nafter;\r\n" + strings.Repeat("y", MaxEntryLen) + "\nlast;"
	require.NoError(t, afero.WriteFile(fs, "/h", []byte(content), 0600))

	entries, err := NewHistory(fs, "/h").Load()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "ok;", entries[0])
	assert.Equal(t, "after;", entries[1])
	assert.Len(t, entries[2], MaxEntryLen)
	assert.Equal(t, "last;", entries[3])
}

func TestHistory_AppendSkipsOversizedEntry(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHistory(fs, "/h")

	require.NoError(t, h.Append("before;"))
	require.NoError(t, h.Append(strings.Repeat("x", MaxEntryLen+1)))
	require.NoError(t, h.Append("after;"))

	entries, err := h.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"before;", "after;"}, entries)
}
