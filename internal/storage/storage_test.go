package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gather/internal/models"
)

func isValidation(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidationFailed, appErr.Code)
}

func TestLocalSaveAndDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, strings.NewReader("image bytes"), KindGallery, "Sunset.JPG", 7)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "gallery/7/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "extension should be lowercased: %s", ref)

	full := filepath.Join(store.base, filepath.FromSlash(ref))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(data))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-gone ref is a no-op.
	require.NoError(t, store.Delete(ctx, ref))
}

func TestLocalSaveRejectsBadExtensions(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"script.sh", "page.html", "noext", "double.jpg.exe"} {
		_, err := store.Save(context.Background(), strings.NewReader("x"), KindGallery, name, 1)
		isValidation(t, err)
	}
}

func TestLocalSaveEnforcesSizeLimits(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	over := bytes.Repeat([]byte{0xFF}, maxProfileBytes+1)
	_, err = store.Save(ctx, bytes.NewReader(over), KindProfile, "avatar.png", 1)
	isValidation(t, err)

	// The same payload fits the larger gallery cap.
	ref, err := store.Save(ctx, bytes.NewReader(over), KindGallery, "big.png", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	// Nothing is left behind for the rejected upload.
	entries, err := os.ReadDir(filepath.Join(store.base, "profile", "1"))
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestLocalDeleteRejectsEscapingRefs(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, ref := range []string{"../outside.png", "a/../../outside.png", "/etc/passwd", "."} {
		err := store.Delete(ctx, ref)
		isValidation(t, err)
	}
}

func TestFakeStore(t *testing.T) {
	store := NewFake()
	ctx := context.Background()

	ref, err := store.Save(ctx, strings.NewReader("data"), KindProfile, "me.png", 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), store.Files[ref])
	assert.True(t, strings.HasPrefix(ref, "profile/3/"))

	_, err = store.Save(ctx, strings.NewReader("x"), KindProfile, "me.pdf", 3)
	isValidation(t, err)

	require.NoError(t, store.Delete(ctx, ref))
	assert.Empty(t, store.Files)
}
