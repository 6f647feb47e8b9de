package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
)

// TypeService manages card types and their icons. Icons share one flat
// directory and are referenced by file name from types.icon_path.
type TypeService struct {
	*CatalogService[models.Type]
	repo   repositories.CrudRepository[models.Type]
	assets *assetStore
}

func NewTypeService(repo repositories.CrudRepository[models.Type], st storage.Storage, cfg ascendance.StorageConfig) *TypeService {
	s := &TypeService{
		repo:   repo,
		assets: newAssetStore(st, cfg),
	}
	s.CatalogService = NewCatalogService(repo, "type", WithAfterDelete(s.removeIcon))
	return s
}

// iconKey maps an icon file name to its storage key. Anything that is not a
// single plain file name has no key.
func (s *TypeService) iconKey(filename string) (string, bool) {
	name := utils.SanitizeFilename(filename)
	if name == "" || name != filename {
		return "", false
	}
	return path.Join(s.assets.cfg.IconsDir, name), true
}

func (s *TypeService) removeIconFile(ctx context.Context, filename string) {
	key, ok := s.iconKey(filename)
	if !ok {
		slog.Warn("Skipping removal of icon outside the icons directory",
			slog.String("icon", filename))
		return
	}
	s.assets.remove(ctx, key)
}

// SetIcon stores a new icon for the type and drops the previous file
func (s *TypeService) SetIcon(ctx context.Context, typeID int64, upload Upload) (*models.Type, error) {
	cardType, err := s.Get(ctx, typeID)
	if err != nil {
		return nil, err
	}
	previous := cardType.IconPath

	filename := storage.NewFilename(upload.Filename)
	key, ok := s.iconKey(filename)
	if !ok {
		return nil, &errs.InvalidArgumentError{Field: "file", Value: upload.Filename, Reason: "unusable file name"}
	}
	staged, err := s.assets.stage(ctx, key, upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store icon: %w", err)
	}

	cardType.IconPath = &filename
	err = s.repo.UpdateWith(ctx, cardType, func(ctx context.Context, _ bun.Tx) error {
		return staged.Commit(ctx)
	}, "icon_path")
	if err != nil {
		s.assets.discard(ctx, staged)
		return nil, fmt.Errorf("failed to update type icon: %w", err)
	}

	if previous != nil && *previous != "" && *previous != filename {
		s.removeIconFile(ctx, *previous)
	}

	slog.Info("Type icon replaced",
		slog.Int64("type_id", typeID),
		slog.String("icon", filename))
	return cardType, nil
}

// DeleteIcon clears the icon of the type and removes its file
func (s *TypeService) DeleteIcon(ctx context.Context, typeID int64) (*models.Type, error) {
	cardType, err := s.Get(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if cardType.IconPath == nil || *cardType.IconPath == "" {
		return nil, &errs.NotFoundError{Entity: "icon of type", ID: typeID}
	}
	previous := *cardType.IconPath

	cardType.IconPath = nil
	if err := s.repo.Update(ctx, cardType, "icon_path"); err != nil {
		return nil, fmt.Errorf("failed to clear type icon: %w", err)
	}

	s.removeIconFile(ctx, previous)
	return cardType, nil
}

// OpenIcon returns the icon file stored under filename
func (s *TypeService) OpenIcon(ctx context.Context, filename string) (io.ReadCloser, error) {
	key, ok := s.iconKey(filename)
	if !ok {
		return nil, &errs.NotFoundError{Entity: "icon", ID: filename}
	}

	file, err := s.assets.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open icon %s: %w", filename, err)
	}
	return file, nil
}

func (s *TypeService) removeIcon(ctx context.Context, deleted *models.Type) {
	if deleted.IconPath == nil || *deleted.IconPath == "" {
		return
	}
	s.removeIconFile(ctx, *deleted.IconPath)
}
