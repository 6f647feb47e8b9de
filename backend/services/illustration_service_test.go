package services

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	"github.com/ascendance/cardadmin/ascendance/database/testdb"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func testStorageConfig(root string) ascendance.StorageConfig {
	return ascendance.StorageConfig{
		Driver:             ascendance.StorageDriverLocal,
		Root:               root,
		IllustrationsDir:   "illustrations",
		IconsDir:           "icons",
		MaxUploadSize:      64,
		AllowedTypes:       []string{"image/png", "image/jpeg"},
		AllowedExtensions:  []string{".png", ".jpg"},
		MaxParallelUploads: 2,
	}
}

// countFiles counts regular files under root, staging area included
func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func pngUpload(body string) Upload {
	return Upload{
		Filename:    "Dragon.PNG",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

type illustrationFixture struct {
	db        *bun.DB
	root      string
	service   *IllustrationService
	archetype *models.Archetype
}

func newIllustrationFixture(t *testing.T) illustrationFixture {
	t.Helper()
	db := testdb.New(t)
	root := t.TempDir()

	st, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	archetype := &models.Archetype{Name: "Universelle"}
	require.NoError(t, repositories.NewCrudRepository[models.Archetype](db, "archetype").Create(context.Background(), archetype))

	repo := repositories.NewCrudRepository[models.Illustration](db, "illustration")
	return illustrationFixture{
		db:        db,
		root:      root,
		service:   NewIllustrationService(repo, st, testStorageConfig(root)),
		archetype: archetype,
	}
}

func TestIllustrationService_UploadAndOpen(t *testing.T) {
	f := newIllustrationFixture(t)
	ctx := context.Background()

	il, err := f.service.Upload(ctx, f.archetype.ID, pngUpload("png-bytes"))
	require.NoError(t, err)
	assert.NotZero(t, il.ID)
	assert.True(t, strings.HasSuffix(il.Filename, ".png"), "extension is lower-cased: %s", il.Filename)
	require.NotNil(t, il.OriginalName)
	assert.Equal(t, "Dragon.PNG", *il.OriginalName)

	stored := filepath.Join(f.root, "illustrations", "archetype_1", il.Filename)
	_, err = os.Stat(stored)
	require.NoError(t, err)

	got, file, err := f.service.Open(ctx, il.ID)
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, il.Filename, got.Filename)
}

func TestIllustrationService_DeleteRemovesFile(t *testing.T) {
	f := newIllustrationFixture(t)
	ctx := context.Background()

	il, err := f.service.Upload(ctx, f.archetype.ID, pngUpload("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, 1, countFiles(t, f.root))

	require.NoError(t, f.service.Delete(ctx, il.ID))
	assert.Equal(t, 0, countFiles(t, f.root))

	_, err = f.service.Get(ctx, il.ID)
	assert.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestIllustrationService_DeleteWithMissingFile(t *testing.T) {
	f := newIllustrationFixture(t)
	ctx := context.Background()

	il, err := f.service.Upload(ctx, f.archetype.ID, pngUpload("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(f.root, "illustrations", "archetype_1", il.Filename)))

	_, _, err = f.service.Open(ctx, il.ID)
	assert.True(t, errs.IsNotFound(err), "missing file must be not found, got %v", err)

	require.NoError(t, f.service.Delete(ctx, il.ID))

	_, err = f.service.Get(ctx, il.ID)
	assert.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestIllustrationService_FailedInsertLeavesNoFile(t *testing.T) {
	f := newIllustrationFixture(t)
	ctx := context.Background()

	_, err := f.service.Upload(ctx, 999, pngUpload("png-bytes"))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err), "unknown archetype must be not found, got %v", err)
	assert.Equal(t, 0, countFiles(t, f.root))

	items, err := f.service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIllustrationService_RejectedUploads(t *testing.T) {
	tests := []struct {
		name   string
		upload Upload
		check  func(error) bool
	}{
		{
			name: "content type outside allow-list",
			upload: Upload{
				Filename:    "notes.png",
				ContentType: "text/plain",
				Size:        4,
				Body:        strings.NewReader("text"),
			},
			check: errs.IsRejectedUpload,
		},
		{
			name: "extension outside allow-list",
			upload: Upload{
				Filename:    "image.bmp",
				ContentType: "image/png",
				Size:        4,
				Body:        strings.NewReader("data"),
			},
			check: errs.IsRejectedUpload,
		},
		{
			name: "declared size above ceiling",
			upload: Upload{
				Filename:    "big.png",
				ContentType: "image/png",
				Size:        65,
				Body:        strings.NewReader("small"),
			},
			check: errs.IsRejectedUpload,
		},
		{
			name: "body larger than declared",
			upload: Upload{
				Filename:    "liar.png",
				ContentType: "image/png",
				Size:        4,
				Body:        strings.NewReader(strings.Repeat("x", 100)),
			},
			check: errs.IsRejectedUpload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIllustrationFixture(t)

			_, err := f.service.Upload(context.Background(), f.archetype.ID, tt.upload)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.Equal(t, 0, countFiles(t, f.root))
		})
	}
}

func TestIllustrationService_InvalidArchetype(t *testing.T) {
	f := newIllustrationFixture(t)

	_, err := f.service.Upload(context.Background(), 0, pngUpload("png-bytes"))
	assert.True(t, errs.IsInvalidArgument(err), "got %v", err)
	assert.Equal(t, 0, countFiles(t, f.root))
}
