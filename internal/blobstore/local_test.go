package blobstore

import (
	"context"
	"testing"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	url, err := store.Save(ctx, "reports/dish_income_20250101120000.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "/media/reports/dish_income_20250101120000.pdf", url)

	exists, err := store.Exists(ctx, "reports/dish_income_20250101120000.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Open(ctx, "reports/dish_income_20250101120000.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := store.Save(ctx, "reports/dish_income_20250101120000.pdf", []byte("other"))
		require.Error(t, err)
		assert.True(t, ierr.IsAlreadyExists(err))

		data, err := store.Open(ctx, "reports/dish_income_20250101120000.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4"), data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "reports/dish_income_20250101120000.pdf"))
		_, err := store.Open(ctx, "reports/dish_income_20250101120000.pdf")
		assert.True(t, ierr.IsNotFound(err))
		assert.NoError(t, store.Delete(ctx, "reports/dish_income_20250101120000.pdf"))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		_, err := store.Save(ctx, "../escape.pdf", []byte("x"))
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestLocalStoreAbsoluteBaseURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "https://tab.example.com/media")
	require.NoError(t, err)
	assert.Equal(t, "https://tab.example.com/media/reports/a.pdf", store.URLFor("reports/a.pdf"))
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), models.StorageConfig{Provider: "local", LocalDir: t.TempDir(), PublicBaseURL: "/media/"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	_, err = New(context.Background(), models.StorageConfig{Provider: "ftp"})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
