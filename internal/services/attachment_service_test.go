// File: internal/services/attachment_service_test.go
package services

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskAttachmentStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskAttachmentStore(dir, 10, &NoOpLogger{})
	require.NoError(t, err)

	ref, err := store.Save("photo.PNG", bytes.NewReader([]byte("fake image bytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, RefPrefix))
	require.True(t, strings.HasSuffix(ref, ".png"), "extension is kept, lowercased")

	path := filepath.Join(dir, filepath.Base(ref))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "fake image bytes", string(data))

	require.NoError(t, store.Delete(ref))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestDiskAttachmentStore_DefaultExtension(t *testing.T) {
	store, err := NewDiskAttachmentStore(t.TempDir(), 10, nil)
	require.NoError(t, err)

	ref, err := store.Save("no-extension", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(ref, ".jpg"))
}

func TestDiskAttachmentStore_RejectsOversizedBlob(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskAttachmentStore(dir, 1, &NoOpLogger{})
	require.NoError(t, err)

	big := bytes.Repeat([]byte("a"), 1*1024*1024+1)
	_, err = store.Save("big.jpg", bytes.NewReader(big))
	require.ErrorIs(t, err, ErrAttachmentTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "a rejected blob must not be left on disk")
}

func TestDiskAttachmentStore_DeleteIsTraversalSafe(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskAttachmentStore(dir, 10, &NoOpLogger{})
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	_ = store.Delete("../outside.txt")

	_, err = os.Stat(outside)
	require.NoError(t, err, "delete must never escape the attachment directory")
}

func TestDiskAttachmentStore_DeleteMissingIsNil(t *testing.T) {
	store, err := NewDiskAttachmentStore(t.TempDir(), 10, &NoOpLogger{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(RefPrefix+"never-existed.jpg"))
	require.NoError(t, store.Delete(""))
}
