package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
)

// IllustrationService keeps illustration rows and their files in step.
// Files live under <illustrations>/archetype_<id>/<uuid><ext>.
type IllustrationService struct {
	*CatalogService[models.Illustration]
	repo   repositories.CrudRepository[models.Illustration]
	assets *assetStore
}

func NewIllustrationService(repo repositories.CrudRepository[models.Illustration], st storage.Storage, cfg ascendance.StorageConfig) *IllustrationService {
	s := &IllustrationService{
		repo:   repo,
		assets: newAssetStore(st, cfg),
	}
	s.CatalogService = NewCatalogService(repo, "illustration", WithAfterDelete(s.removeFile))
	return s
}

func (s *IllustrationService) fileKey(il *models.Illustration) string {
	return path.Join(
		s.assets.cfg.IllustrationsDir,
		fmt.Sprintf("%s%d", config.IllustrationDirPrefix, il.ArchetypeID),
		il.Filename,
	)
}

// Upload stores the file under a fresh name and inserts its row. The file
// only becomes visible if the row is written, and is removed again if the
// transaction fails after it was moved into place.
func (s *IllustrationService) Upload(ctx context.Context, archetypeID int64, upload Upload) (*models.Illustration, error) {
	if archetypeID <= 0 {
		return nil, &errs.InvalidArgumentError{Field: "archetype_id", Value: archetypeID, Reason: "must be a positive id"}
	}

	illustration := &models.Illustration{
		Filename:    storage.NewFilename(upload.Filename),
		ArchetypeID: archetypeID,
	}
	if original := utils.SanitizeFilename(upload.Filename); original != "" {
		illustration.OriginalName = &original
	}

	staged, err := s.assets.stage(ctx, s.fileKey(illustration), upload)
	if err != nil {
		return nil, fmt.Errorf("failed to store illustration: %w", err)
	}

	err = s.repo.CreateWith(ctx, illustration, func(ctx context.Context, _ bun.Tx) error {
		return staged.Commit(ctx)
	})
	if err != nil {
		s.assets.discard(ctx, staged)
		return nil, fmt.Errorf("failed to create illustration: %w", err)
	}

	slog.Info("Illustration uploaded",
		slog.Int64("illustration_id", illustration.ID),
		slog.Int64("archetype_id", archetypeID),
		slog.String("filename", illustration.Filename))
	return illustration, nil
}

// Open returns the row and its file. Either one missing is a not-found error.
func (s *IllustrationService) Open(ctx context.Context, id int64) (*models.Illustration, io.ReadCloser, error) {
	illustration, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	file, err := s.assets.storage.Open(ctx, s.fileKey(illustration))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open illustration %d: %w", id, err)
	}
	return illustration, file, nil
}

func (s *IllustrationService) removeFile(ctx context.Context, deleted *models.Illustration) {
	s.assets.remove(ctx, s.fileKey(deleted))
}
