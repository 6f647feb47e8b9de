package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/google/uuid"
)

// Storage keeps uploaded assets addressed by slash separated keys such as
// "illustrations/archetype_1/3f2c....png".
type Storage interface {
	// Stage writes data next to its final location. Nothing is visible under
	// key until the returned object is committed.
	Stage(ctx context.Context, key string, data io.Reader) (StagedObject, error)
	// Open returns a not-found error when no object exists under key
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete succeeds when the object is already gone
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// StagedObject is an upload waiting for its database row.
// Discard undoes the upload whether or not Commit already ran.
type StagedObject interface {
	Key() string
	Commit(ctx context.Context) error
	Discard(ctx context.Context) error
}

// New picks the backend named by cfg.Driver
func New(ctx context.Context, cfg ascendance.StorageConfig, spaces ascendance.SpacesConfig) (Storage, error) {
	switch cfg.Driver {
	case ascendance.StorageDriverLocal:
		return NewLocalStorage(cfg.Root)
	case ascendance.StorageDriverSpaces:
		return NewSpacesStorage(ctx, spaces)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// NewFilename returns a fresh unique file name keeping the lower-cased
// extension of original.
func NewFilename(original string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(original))
}

// CleanKey rejects keys that would leave the storage root
func CleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}
