package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	"github.com/ascendance/cardadmin/ascendance/database/testdb"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypeService(t *testing.T) (*TypeService, string) {
	t.Helper()
	db := testdb.New(t)
	root := t.TempDir()

	st, err := storage.NewLocalStorage(root)
	require.NoError(t, err)

	repo := repositories.NewCrudRepository[models.Type](db, "type")
	return NewTypeService(repo, st, testStorageConfig(root)), root
}

func TestTypeService_ReplaceIcon(t *testing.T) {
	service, root := newTypeService(t)
	ctx := context.Background()

	cardType, err := service.Create(ctx, &models.Type{Name: "Sort"})
	require.NoError(t, err)

	first, err := service.SetIcon(ctx, cardType.ID, pngUpload("first"))
	require.NoError(t, err)
	require.NotNil(t, first.IconPath)
	firstName := *first.IconPath

	second, err := service.SetIcon(ctx, cardType.ID, pngUpload("second"))
	require.NoError(t, err)
	require.NotNil(t, second.IconPath)
	assert.NotEqual(t, firstName, *second.IconPath)

	_, err = os.Stat(filepath.Join(root, "icons", firstName))
	assert.True(t, os.IsNotExist(err), "previous icon must be removed")
	assert.Equal(t, 1, countFiles(t, root))

	file, err := service.OpenIcon(ctx, *second.IconPath)
	require.NoError(t, err)
	defer file.Close()
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestTypeService_DeleteIcon(t *testing.T) {
	service, root := newTypeService(t)
	ctx := context.Background()

	cardType, err := service.Create(ctx, &models.Type{Name: "Sort"})
	require.NoError(t, err)

	_, err = service.DeleteIcon(ctx, cardType.ID)
	assert.True(t, errs.IsNotFound(err), "type without icon, got %v", err)

	_, err = service.SetIcon(ctx, cardType.ID, pngUpload("icon"))
	require.NoError(t, err)

	updated, err := service.DeleteIcon(ctx, cardType.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.IconPath)
	assert.Equal(t, 0, countFiles(t, root))

	reloaded, err := service.Get(ctx, cardType.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.IconPath)
}

func TestTypeService_DeleteTypeRemovesIcon(t *testing.T) {
	service, root := newTypeService(t)
	ctx := context.Background()

	cardType, err := service.Create(ctx, &models.Type{Name: "Sort"})
	require.NoError(t, err)
	_, err = service.SetIcon(ctx, cardType.ID, pngUpload("icon"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, cardType.ID))
	assert.Equal(t, 0, countFiles(t, root))
}

func TestTypeService_SetIconOnMissingType(t *testing.T) {
	service, root := newTypeService(t)

	_, err := service.SetIcon(context.Background(), 42, pngUpload("icon"))
	assert.True(t, errs.IsNotFound(err), "got %v", err)
	assert.Equal(t, 0, countFiles(t, root))
}

func TestTypeService_OpenIconRejectsPaths(t *testing.T) {
	service, _ := newTypeService(t)

	for _, name := range []string{"../config.toml", "sub/icon.png", "..", ""} {
		_, err := service.OpenIcon(context.Background(), name)
		assert.True(t, errs.IsNotFound(err), "%q: got %v", name, err)
	}
}

func TestTypeService_StoredIconPathStaysInIconsDir(t *testing.T) {
	hostile := "../illustrations/archetype_1/victim.png"

	tests := []struct {
		name string
		run  func(t *testing.T, ctx context.Context, service *TypeService, typeID int64) error
	}{
		{
			name: "delete icon",
			run: func(t *testing.T, ctx context.Context, service *TypeService, typeID int64) error {
				updated, err := service.DeleteIcon(ctx, typeID)
				if err == nil {
					assert.Nil(t, updated.IconPath)
				}
				return err
			},
		},
		{
			name: "replace icon",
			run: func(t *testing.T, ctx context.Context, service *TypeService, typeID int64) error {
				_, err := service.SetIcon(ctx, typeID, pngUpload("icon"))
				return err
			},
		},
		{
			name: "delete type",
			run: func(t *testing.T, ctx context.Context, service *TypeService, typeID int64) error {
				return service.Delete(ctx, typeID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, root := newTypeService(t)
			ctx := context.Background()

			victim := filepath.Join(root, "illustrations", "archetype_1", "victim.png")
			require.NoError(t, os.MkdirAll(filepath.Dir(victim), 0o755))
			require.NoError(t, os.WriteFile(victim, []byte("illustration"), 0o644))

			cardType, err := service.Create(ctx, &models.Type{Name: "Sort", IconPath: &hostile})
			require.NoError(t, err)

			require.NoError(t, tt.run(t, ctx, service, cardType.ID))

			_, err = os.Stat(victim)
			assert.NoError(t, err, "files outside the icons directory must survive")

			_, err = service.OpenIcon(ctx, hostile)
			assert.True(t, errs.IsNotFound(err), "got %v", err)
		})
	}
}
