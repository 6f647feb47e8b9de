package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/ascendance/cardadmin/internal/domain/errs"
)

const stagingDir = ".staging"

// LocalStorage keeps assets on the local filesystem under root
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, stagingDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

func (s *LocalStorage) Stage(ctx context.Context, key string, data io.Reader) (StagedObject, error) {
	final, err := s.path(key)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, stagingDir), "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	_, copyErr := io.Copy(tmp, data)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr, ctx.Err()); err != nil {
		os.Remove(tmp.Name())
		logger.LogStorage("stage", key, err)
		return nil, fmt.Errorf("failed to write staging file: %w", err)
	}

	logger.LogStorage("stage", key, nil)
	return &localStaged{key: key, tmp: tmp.Name(), final: final}, nil
}

func (s *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, &errs.NotFoundError{Entity: "file", ID: key}
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &errs.NotFoundError{Entity: "file", ID: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	return f, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	logger.LogStorage("delete", key, err)
	return err
}

func (s *LocalStorage) Ping(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", s.root)
	}
	return nil
}

type localStaged struct {
	key       string
	tmp       string
	final     string
	committed bool
}

func (o *localStaged) Key() string {
	return o.key
}

// Commit moves the staged file into place with a rename
func (o *localStaged) Commit(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(o.final), 0o755); err != nil {
		logger.LogStorage("commit", o.key, err)
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.Rename(o.tmp, o.final); err != nil {
		logger.LogStorage("commit", o.key, err)
		return fmt.Errorf("failed to move staged file: %w", err)
	}
	o.committed = true
	logger.LogStorage("commit", o.key, nil)
	return nil
}

func (o *localStaged) Discard(_ context.Context) error {
	target := o.tmp
	if o.committed {
		target = o.final
	}
	err := os.Remove(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	logger.LogStorage("discard", o.key, err)
	return err
}
