package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	_, ok, err := st.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStore(path)
	want := Session{Statement: "select 2", Distributed: true, Partitions: 8, PartitionsPerTask: 4}

	require.NoError(t, st.Save(want))

	got, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, st.Clear())
	_, ok, err = st.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, st.Clear(), "clearing twice is fine")
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok, err := NewFileStore(path).Load()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestMemoryLink(t *testing.T) {
	l := NewMemoryLink("")
	_, ok := l.Token()
	assert.False(t, ok)

	require.NoError(t, l.SetToken(" abc "))
	tok, ok := l.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}

func TestFileLink(t *testing.T) {
	l := NewFileLink(filepath.Join(t.TempDir(), "link"))
	_, ok := l.Token()
	assert.False(t, ok)

	require.NoError(t, l.SetToken("xyz"))
	tok, ok := l.Token()
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)
}
