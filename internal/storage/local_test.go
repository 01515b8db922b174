package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NazzX1/rag-v2/internal/storage"
)

func TestLocalStore_WriteAndRead(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), 16)

	n, err := store.Write("proj-1", "doc.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	content, err := store.ReadContent("proj-1", "doc.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", content)
}

func TestLocalStore_SmallBuffer(t *testing.T) {
	// Content much larger than the copy buffer must still round-trip intact.
	store := storage.NewLocalStore(t.TempDir(), 8)
	payload := strings.Repeat("0123456789", 1000)

	n, err := store.Write("proj-1", "big.txt", strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	content, err := store.ReadContent("proj-1", "big.txt")
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestLocalStore_ReadMissing(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), 0)

	_, err := store.ReadContent("proj-1", "nope.txt")
	assert.Error(t, err)
}

func TestLocalStore_SanitizesNames(t *testing.T) {
	base := t.TempDir()
	store := storage.NewLocalStore(base, 0)

	_, err := store.Write("proj-1", "../../evil.txt", strings.NewReader("x"))
	require.NoError(t, err)

	// The file must land inside the project directory, not above the base.
	_, statErr := os.Stat(filepath.Join(base, "proj-1", "evil.txt"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(base, "..", "evil.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_Remove(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir(), 0)

	_, err := store.Write("proj-1", "doc.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove("proj-1", "doc.txt"))
	_, err = store.ReadContent("proj-1", "doc.txt")
	assert.Error(t, err)

	// Removing twice is fine.
	assert.NoError(t, store.Remove("proj-1", "doc.txt"))
}
