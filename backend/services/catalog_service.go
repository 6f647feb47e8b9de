package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance/database/repositories"
)

// CatalogService is the CRUD service shared by every catalog entity
type CatalogService[T any] struct {
	repo        repositories.CrudRepository[T]
	entity      string
	afterDelete func(ctx context.Context, deleted *T)
}

// CatalogOption customizes a CatalogService
type CatalogOption[T any] func(*CatalogService[T])

// WithAfterDelete runs fn once a row is gone. fn cannot fail the delete.
func WithAfterDelete[T any](fn func(ctx context.Context, deleted *T)) CatalogOption[T] {
	return func(s *CatalogService[T]) {
		s.afterDelete = fn
	}
}

func NewCatalogService[T any](repo repositories.CrudRepository[T], entity string, opts ...CatalogOption[T]) *CatalogService[T] {
	s := &CatalogService[T]{
		repo:   repo,
		entity: entity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CatalogService[T]) Entity() string {
	return s.entity
}

func (s *CatalogService[T]) Create(ctx context.Context, model *T) (*T, error) {
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.entity, err)
	}
	return model, nil
}

func (s *CatalogService[T]) Get(ctx context.Context, id int64, filters ...repositories.Filter) (*T, error) {
	model, err := s.repo.GetByID(ctx, id, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.entity, err)
	}
	return model, nil
}

func (s *CatalogService[T]) List(ctx context.Context, filters ...repositories.Filter) ([]*T, error) {
	items, err := s.repo.List(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.entity, err)
	}
	return items, nil
}

// Update loads the row, lets apply change it and writes back the columns
// apply reports. Nothing is written when apply touches no column.
func (s *CatalogService[T]) Update(ctx context.Context, id int64, apply func(*T) []string) (*T, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.entity, err)
	}

	columns := apply(model)
	if len(columns) == 0 {
		return model, nil
	}

	if err := s.repo.Update(ctx, model, columns...); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.entity, err)
	}
	return model, nil
}

func (s *CatalogService[T]) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.entity, err)
	}

	slog.Info("Catalog row deleted",
		slog.String("entity", s.entity),
		slog.Int64("id", id))

	if s.afterDelete != nil {
		s.afterDelete(ctx, deleted)
	}
	return nil
}
