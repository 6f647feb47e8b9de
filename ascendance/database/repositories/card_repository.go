package repositories

import (
	"context"
	"fmt"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
)

// association describes one many-to-many link hanging off a card
type association struct {
	entity    string
	table     string
	alias     string
	joinTable string
	joinModel interface{}
	column    string
	newLink   func(cardID, otherID int64) interface{}
}

var (
	effectAssociation = association{
		entity:    "effect",
		table:     "effects",
		alias:     "e",
		joinTable: "card_effects",
		joinModel: (*models.CardEffect)(nil),
		column:    "effect_id",
		newLink: func(cardID, otherID int64) interface{} {
			return &models.CardEffect{CardID: cardID, EffectID: otherID}
		},
	}
	bonusAssociation = association{
		entity:    "bonus",
		table:     "bonuses",
		alias:     "b",
		joinTable: "card_bonuses",
		joinModel: (*models.CardBonus)(nil),
		column:    "bonus_id",
		newLink: func(cardID, otherID int64) interface{} {
			return &models.CardBonus{CardID: cardID, BonusID: otherID}
		},
	}
)

// CardRepository is the card table plus its effect and bonus associations
type CardRepository struct {
	CrudRepository[models.Card]
	base *BaseRepository
}

func NewCardRepository(db *bun.DB) *CardRepository {
	return &CardRepository{
		CrudRepository: NewCrudRepository[models.Card](db, "card"),
		base:           NewBaseRepository(db),
	}
}

// CreateWithAssociations inserts the card and links it to the given effects
// and bonuses in one transaction. extra runs last, still inside it.
func (r *CardRepository) CreateWithAssociations(ctx context.Context, card *models.Card, effectIDs, bonusIDs []int64, extra TxHook) error {
	return r.CreateWith(ctx, card, func(ctx context.Context, tx bun.Tx) error {
		if err := linkAll(ctx, tx, effectAssociation, card.ID, effectIDs); err != nil {
			return err
		}
		if err := linkAll(ctx, tx, bonusAssociation, card.ID, bonusIDs); err != nil {
			return err
		}
		if extra != nil {
			return extra(ctx, tx)
		}
		return nil
	})
}

func linkAll(ctx context.Context, tx bun.Tx, assoc association, cardID int64, ids []int64) error {
	for _, id := range ids {
		if err := link(ctx, tx, assoc, cardID, id); err != nil {
			return err
		}
	}
	return nil
}

func link(ctx context.Context, tx bun.Tx, assoc association, cardID, otherID int64) error {
	exists, err := tx.NewSelect().
		Table(assoc.table).
		Where("id = ?", otherID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return &errs.NotFoundError{Entity: assoc.entity, ID: otherID}
	}

	_, err = tx.NewInsert().
		Model(assoc.newLink(cardID, otherID)).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}

func (r *CardRepository) AddEffect(ctx context.Context, cardID, effectID int64) error {
	return r.addAssociation(ctx, effectAssociation, cardID, effectID)
}

func (r *CardRepository) RemoveEffect(ctx context.Context, cardID, effectID int64) error {
	return r.removeAssociation(ctx, effectAssociation, cardID, effectID)
}

func (r *CardRepository) ListEffects(ctx context.Context, cardID int64) ([]*models.Effect, error) {
	effects := make([]*models.Effect, 0)
	if err := r.listAssociated(ctx, effectAssociation, cardID, &effects); err != nil {
		return nil, err
	}
	return effects, nil
}

func (r *CardRepository) AddBonus(ctx context.Context, cardID, bonusID int64) error {
	return r.addAssociation(ctx, bonusAssociation, cardID, bonusID)
}

func (r *CardRepository) RemoveBonus(ctx context.Context, cardID, bonusID int64) error {
	return r.removeAssociation(ctx, bonusAssociation, cardID, bonusID)
}

func (r *CardRepository) ListBonuses(ctx context.Context, cardID int64) ([]*models.Bonus, error) {
	bonuses := make([]*models.Bonus, 0)
	if err := r.listAssociated(ctx, bonusAssociation, cardID, &bonuses); err != nil {
		return nil, err
	}
	return bonuses, nil
}

// addAssociation links the card to another row. Linking twice is a no-op.
func (r *CardRepository) addAssociation(ctx context.Context, assoc association, cardID, otherID int64) error {
	err := r.base.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := assertCard(ctx, tx, cardID); err != nil {
			return err
		}
		return link(ctx, tx, assoc, cardID, otherID)
	})
	return r.base.HandleError("link", assoc.entity, err)
}

func (r *CardRepository) removeAssociation(ctx context.Context, assoc association, cardID, otherID int64) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	res, err := r.base.db.NewDelete().
		Model(assoc.joinModel).
		Where("card_id = ?", cardID).
		Where(assoc.column+" = ?", otherID).
		Exec(ctx)
	if err != nil {
		return r.base.HandleError("unlink", assoc.entity, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errs.NotFoundError{
			Entity: fmt.Sprintf("%s on card %d", assoc.entity, cardID),
			ID:     otherID,
		}
	}
	return nil
}

func (r *CardRepository) listAssociated(ctx context.Context, assoc association, cardID int64, dest interface{}) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	exists, err := r.base.db.NewSelect().
		Model((*models.Card)(nil)).
		Where("?TableAlias.id = ?", cardID).
		Exists(ctx)
	if err != nil {
		return r.base.HandleError("list", assoc.entity, err)
	}
	if !exists {
		return &errs.NotFoundError{Entity: "card", ID: cardID}
	}

	err = r.base.db.NewSelect().
		Model(dest).
		Join(fmt.Sprintf("JOIN %s AS cl ON cl.%s = %s.id", assoc.joinTable, assoc.column, assoc.alias)).
		Where("cl.card_id = ?", cardID).
		OrderExpr(assoc.alias + ".id ASC").
		Scan(ctx)
	return r.base.HandleError("list", assoc.entity, err)
}

func assertCard(ctx context.Context, tx bun.Tx, cardID int64) error {
	exists, err := tx.NewSelect().
		Model((*models.Card)(nil)).
		Where("?TableAlias.id = ?", cardID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return &errs.NotFoundError{Entity: "card", ID: cardID}
	}
	return nil
}
