package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskPhotoStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskPhotoStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("photo.png", strings.NewReader("fake png bytes")))

	data, err := os.ReadFile(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)
	require.Equal(t, "fake png bytes", string(data))

	require.NoError(t, store.Remove("photo.png"))
	_, err = os.Stat(filepath.Join(dir, "photo.png"))
	require.True(t, os.IsNotExist(err))
}

func TestDiskPhotoStore_RejectsPathKeys(t *testing.T) {
	store, err := NewDiskPhotoStore(t.TempDir())
	require.NoError(t, err)

	require.Error(t, store.Save("../escape.png", strings.NewReader("x")))
	require.Error(t, store.Save("a/b.png", strings.NewReader("x")))
	require.Error(t, store.Save("", strings.NewReader("x")))
}

func TestDiskPhotoStore_RemoveMissingIsNoError(t *testing.T) {
	store, err := NewDiskPhotoStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Remove("never-there.jpg"))
}
