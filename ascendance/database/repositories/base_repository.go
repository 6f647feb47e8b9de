package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BaseRepository provides common repository functionality
type BaseRepository struct {
	db             *bun.DB
	defaultTimeout time.Duration
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *bun.DB) *BaseRepository {
	return &BaseRepository{
		db:             db,
		defaultTimeout: config.DefaultQueryTimeout,
	}
}

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// WithTimeout creates a context with the default timeout
func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.defaultTimeout)
}

// HandleError standardizes error handling across repositories
func (br *BaseRepository) HandleError(operation, entity string, err error) error {
	return br.HandleErrorWithID(operation, entity, nil, err)
}

// HandleErrorWithID maps driver errors onto domain errors. Missing rows become
// NotFoundError, foreign key violations become NotFoundError on writes and
// ConflictError on deletes, unique violations become ConflictError.
func (br *BaseRepository) HandleErrorWithID(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &errs.NotFoundError{Entity: entity, ID: id}
	}

	// already classified by a nested call
	var notFound *errs.NotFoundError
	var conflict *errs.ConflictError
	if errors.As(err, &notFound) || errors.As(err, &conflict) {
		return err
	}

	switch violation := classifyConstraint(err); violation.kind {
	case foreignKeyViolation:
		if operation == "delete" {
			return &errs.ConflictError{Entity: entity, Reason: "still referenced by other rows"}
		}
		if violation.table != "" {
			return &errs.NotFoundError{Entity: entityName(violation.table), ID: violation.value}
		}
		return &errs.NotFoundError{Entity: "referenced entity"}
	case uniqueViolation:
		return &errs.ConflictError{Entity: entity, Reason: "already exists"}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// Transaction executes a function within a database transaction
func (br *BaseRepository) Transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := br.WithTimeout(ctx)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}

type constraintKind int

const (
	noViolation constraintKind = iota
	foreignKeyViolation
	uniqueViolation
)

type constraintViolation struct {
	kind  constraintKind
	table string
	value interface{}
}

// SQLite result codes with extended codes enabled
const (
	sqliteConstraint           = 19
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

var fkDetailPattern = regexp.MustCompile(`Key \(([^)]+)\)=\(([^)]*)\) is not present in table "([^"]+)"`)

func classifyConstraint(err error) constraintViolation {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case "23503":
			v := constraintViolation{kind: foreignKeyViolation}
			if m := fkDetailPattern.FindStringSubmatch(pgErr.Field('D')); m != nil {
				v.table = m[3]
				if id, convErr := strconv.ParseInt(m[2], 10, 64); convErr == nil {
					v.value = id
				} else {
					v.value = m[2]
				}
			}
			return v
		case "23505":
			return constraintViolation{kind: uniqueViolation}
		}
		return constraintViolation{}
	}

	// modernc.org/sqlite errors expose the result code
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() {
		case sqliteConstraintForeignKey:
			return constraintViolation{kind: foreignKeyViolation}
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return constraintViolation{kind: uniqueViolation}
		}
		if coded.Code()&0xff == sqliteConstraint {
			msg := err.Error()
			switch {
			case strings.Contains(msg, "FOREIGN KEY"):
				return constraintViolation{kind: foreignKeyViolation}
			case strings.Contains(msg, "UNIQUE"):
				return constraintViolation{kind: uniqueViolation}
			}
		}
	}
	return constraintViolation{}
}

// entityName turns a table name into the singular entity name used in errors
func entityName(table string) string {
	switch table {
	case "archetypes":
		return "archetype"
	case "types":
		return "type"
	case "factions":
		return "faction"
	case "effect_types":
		return "effect type"
	case "effects":
		return "effect"
	case "bonuses":
		return "bonus"
	case "illustrations":
		return "illustration"
	case "cards":
		return "card"
	case "decks":
		return "deck"
	}
	return strings.TrimSuffix(table, "s")
}
