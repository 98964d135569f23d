package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmaenge-dot/mystore-admin/internal/database"
	"github.com/tmaenge-dot/mystore-admin/internal/models"
)

func TestSweepOrphans(t *testing.T) {
	ctx := context.Background()
	imagesDir := t.TempDir()
	backend, err := NewLocalBackend(imagesDir)
	require.NoError(t, err)
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"apple.svg", "mapped.png", "logo.png", "orphan.jpg", ".gitkeep", "half.png.123.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, name), []byte("x"), 0o644))
	}
	require.NoError(t, store.SetImageMap(ctx, "upload-test", models.ImageMap{"p1": "/images/mapped.png", "p2": "https://cdn.test/remote.png"}))
	_, err = store.SetBrand(ctx, "thuso", models.Brand{BrandColor: "#000", Logo: "/images/logo.png"})
	require.NoError(t, err)

	report, err := SweepOrphans(ctx, backend, store, SweepOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Stored)
	assert.Equal(t, []string{"orphan.jpg"}, report.Orphans)
	assert.Empty(t, report.Deleted)
	assert.FileExists(t, filepath.Join(imagesDir, "orphan.jpg"))

	// fichier récent protégé par MinAge
	report, err = SweepOrphans(ctx, backend, store, SweepOptions{Delete: true, MinAge: time.Hour})
	require.NoError(t, err)
	assert.Empty(t, report.Orphans)
	assert.FileExists(t, filepath.Join(imagesDir, "orphan.jpg"))

	report, err = SweepOrphans(ctx, backend, store, SweepOptions{Delete: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan.jpg"}, report.Deleted)
	assert.NoFileExists(t, filepath.Join(imagesDir, "orphan.jpg"))
	assert.FileExists(t, filepath.Join(imagesDir, "mapped.png"))
	assert.FileExists(t, filepath.Join(imagesDir, "apple.svg"))
}

func TestLocalBackend(t *testing.T) {
	ctx := context.Background()
	b, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)

	_, err = b.Put(ctx, "../evil.png", []byte("x"), MimePNG)
	assert.Error(t, err)
	_, err = b.Put(ctx, ".hidden", []byte("x"), MimePNG)
	assert.Error(t, err)

	ref, err := b.Put(ctx, "ok.png", []byte("x"), MimePNG)
	require.NoError(t, err)
	assert.Equal(t, "/images/ok.png", ref)

	name, ok := b.NameFromRef(ref)
	assert.True(t, ok)
	assert.Equal(t, "ok.png", name)
	_, ok = b.NameFromRef("https://cdn.test/ok.png")
	assert.False(t, ok)

	require.NoError(t, b.Delete(ctx, "ok.png"))
	require.NoError(t, b.Delete(ctx, "ok.png"))
	list, err := b.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
