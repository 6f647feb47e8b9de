package repositories

import (
	"context"

	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
)

// Filter narrows a list query
type Filter func(*bun.SelectQuery) *bun.SelectQuery

// WhereArchetype keeps rows scoped to one archetype
func WhereArchetype(archetypeID int64) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.archetype_id = ?", archetypeID)
	}
}

// WithRelation eagerly loads a bun relation
func WithRelation(name string) Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation(name)
	}
}

// TxHook runs inside the write transaction after the row was written.
// Returning an error rolls the write back.
type TxHook func(ctx context.Context, tx bun.Tx) error

// CrudRepository is the storage contract shared by every catalog entity
type CrudRepository[T any] interface {
	Create(ctx context.Context, model *T) error
	CreateWith(ctx context.Context, model *T, hook TxHook) error
	GetByID(ctx context.Context, id int64, filters ...Filter) (*T, error)
	List(ctx context.Context, filters ...Filter) ([]*T, error)
	Update(ctx context.Context, model *T, columns ...string) error
	UpdateWith(ctx context.Context, model *T, hook TxHook, columns ...string) error
	Delete(ctx context.Context, id int64) (*T, error)
}

type crudRepository[T any] struct {
	*BaseRepository
	entity string
}

// NewCrudRepository builds the repository for one table. entity names the
// row kind in errors ("archetype", "effect type").
func NewCrudRepository[T any](db *bun.DB, entity string) CrudRepository[T] {
	return &crudRepository[T]{
		BaseRepository: NewBaseRepository(db),
		entity:         entity,
	}
}

func (r *crudRepository[T]) Create(ctx context.Context, model *T) error {
	return r.CreateWith(ctx, model, nil)
}

func (r *crudRepository[T]) CreateWith(ctx context.Context, model *T, hook TxHook) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(model).Returning("*").Exec(ctx); err != nil {
			return err
		}
		if hook != nil {
			return hook(ctx, tx)
		}
		return nil
	})
	return r.HandleError("create", r.entity, err)
}

func (r *crudRepository[T]) GetByID(ctx context.Context, id int64, filters ...Filter) (*T, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	model := new(T)
	query := r.db.NewSelect().Model(model).Where("?TableAlias.id = ?", id)
	for _, f := range filters {
		query = f(query)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, r.HandleErrorWithID("get", r.entity, id, err)
	}
	return model, nil
}

func (r *crudRepository[T]) List(ctx context.Context, filters ...Filter) ([]*T, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	items := make([]*T, 0)
	query := r.db.NewSelect().Model(&items).OrderExpr("?TableAlias.id ASC")
	for _, f := range filters {
		query = f(query)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, r.HandleError("list", r.entity, err)
	}
	return items, nil
}

func (r *crudRepository[T]) Update(ctx context.Context, model *T, columns ...string) error {
	return r.UpdateWith(ctx, model, nil, columns...)
}

// UpdateWith writes model by primary key. With no columns every column except
// id and created_at is written. The model is reloaded from the database.
func (r *crudRepository[T]) UpdateWith(ctx context.Context, model *T, hook TxHook, columns ...string) error {
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		query := tx.NewUpdate().Model(model).WherePK()
		if len(columns) > 0 {
			cols := append(append(make([]string, 0, len(columns)+1), columns...), "updated_at")
			query = query.Column(cols...)
		} else {
			query = query.ExcludeColumn("id", "created_at")
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return &errs.NotFoundError{Entity: r.entity, ID: idOf(model)}
		}
		if hook != nil {
			if err := hook(ctx, tx); err != nil {
				return err
			}
		}
		return tx.NewSelect().Model(model).WherePK().Scan(ctx)
	})
	return r.HandleErrorWithID("update", r.entity, idOf(model), err)
}

// Delete removes the row and returns it as it was just before deletion
func (r *crudRepository[T]) Delete(ctx context.Context, id int64) (*T, error) {
	model := new(T)
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(model).Where("?TableAlias.id = ?", id).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model(model).WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, r.HandleErrorWithID("delete", r.entity, id, err)
	}
	return model, nil
}

func idOf(model interface{}) interface{} {
	if e, ok := model.(interface{ GetID() int64 }); ok {
		return e.GetID()
	}
	return nil
}
