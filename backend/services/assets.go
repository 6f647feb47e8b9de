package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/storage"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"golang.org/x/sync/semaphore"
)

// Upload is a file received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// assetStore stages uploads after checking them against the allow-lists
type assetStore struct {
	storage storage.Storage
	cfg     ascendance.StorageConfig
	uploads *semaphore.Weighted
}

func newAssetStore(st storage.Storage, cfg ascendance.StorageConfig) *assetStore {
	parallel := cfg.MaxParallelUploads
	if parallel <= 0 {
		parallel = 1
	}
	return &assetStore{
		storage: st,
		cfg:     cfg,
		uploads: semaphore.NewWeighted(parallel),
	}
}

// stage validates upload and writes it next to key. The returned object
// must be committed or discarded by the caller.
func (a *assetStore) stage(ctx context.Context, key string, upload Upload) (storage.StagedObject, error) {
	if err := utils.ValidateUpload(a.cfg, upload.Filename, upload.ContentType, upload.Size); err != nil {
		return nil, err
	}

	if err := a.uploads.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.uploads.Release(1)

	body := upload.Body
	if a.cfg.MaxUploadSize > 0 {
		body = &limitedReader{r: body, limit: a.cfg.MaxUploadSize}
	}
	return a.storage.Stage(ctx, key, body)
}

func (a *assetStore) discard(ctx context.Context, staged storage.StagedObject) {
	if err := staged.Discard(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("Failed to discard staged upload",
			slog.String("key", staged.Key()),
			slog.String("error", err.Error()))
	}
}

// remove deletes a stored file. Failures are logged only.
func (a *assetStore) remove(ctx context.Context, key string) {
	if err := a.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.Warn("Failed to delete stored file",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// limitedReader fails once more than limit bytes were read. Declared sizes
// come from the client and cannot be trusted.
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n, &errs.PayloadTooLargeError{Size: l.read, Limit: l.limit}
	}
	return n, err
}
