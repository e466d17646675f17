package layoutstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "layout.json"))

	original := State{
		"shell.sidebar": {Ratio: 0.25, Collapsed: false},
		"shell.editor":  {Ratio: 0.618, Collapsed: true},
	}
	require.NoError(t, store.Save(original))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestStore_MissingFileYieldsEmptyState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope", "layout.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, state)
}

func TestStore_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "layout.json")
	store := NewStore(path)

	require.NoError(t, store.Save(State{"a": {Ratio: 0.5}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.5, loaded["a"].Ratio)
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "layout.json"))
	require.NoError(t, store.Save(State{"a": {Ratio: 0.3}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "atomic save must clean up temp files")
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.8, ClampRatio(1.4, 0.2, 0.8), "out-of-range ratio clamps to bound")
	assert.Equal(t, 0.2, ClampRatio(-3, 0.2, 0.8))
	assert.Equal(t, 0.5, ClampRatio(0.5, 0.2, 0.8))
}
