package repositories

import (
	"context"
	"fmt"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/uptrace/bun"
)

const deckCardEntity = "deck card"

// DeckRepository stores deck contents. It implements decks.Repository.
type DeckRepository struct {
	*BaseRepository
}

func NewDeckRepository(db *bun.DB) *DeckRepository {
	return &DeckRepository{BaseRepository: NewBaseRepository(db)}
}

func pairID(deckID, cardID int64) string {
	return fmt.Sprintf("deck %d/card %d", deckID, cardID)
}

func (r *DeckRepository) GetCard(ctx context.Context, cardID int64) (*models.Card, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Where("?TableAlias.id = ?", cardID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "card", cardID, err)
	}
	return card, nil
}

// UpsertCard asserts the deck exists, then writes the pair with a single
// conflict-aware insert so concurrent adds of a new pair both succeed.
func (r *DeckRepository) UpsertCard(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error) {
	deckCard := &models.DeckCard{DeckID: deckID, CardID: cardID, Quantity: quantity}

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Deck)(nil)).
			Where("?TableAlias.id = ?", deckID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return &errs.NotFoundError{Entity: "deck", ID: deckID}
		}

		_, err = tx.NewInsert().
			Model(deckCard).
			On("CONFLICT (deck_id, card_id) DO UPDATE").
			Set("quantity = EXCLUDED.quantity").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("*").
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, r.HandleErrorWithID("upsert", deckCardEntity, pairID(deckID, cardID), err)
	}
	return deckCard, nil
}

func (r *DeckRepository) UpdateQuantity(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error) {
	deckCard := &models.DeckCard{DeckID: deckID, CardID: cardID, Quantity: quantity}

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(deckCard).
			Column("quantity", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return &errs.NotFoundError{Entity: deckCardEntity, ID: pairID(deckID, cardID)}
		}
		return tx.NewSelect().Model(deckCard).WherePK().Scan(ctx)
	})
	if err != nil {
		return nil, r.HandleErrorWithID("update", deckCardEntity, pairID(deckID, cardID), err)
	}
	return deckCard, nil
}

func (r *DeckRepository) RemoveCard(ctx context.Context, deckID, cardID int64) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.DeckCard)(nil)).
		Where("deck_id = ?", deckID).
		Where("card_id = ?", cardID).
		Exec(ctx)
	if err != nil {
		return r.HandleError("delete", deckCardEntity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.HandleError("delete", deckCardEntity, err)
	}
	if n == 0 {
		return &errs.NotFoundError{Entity: deckCardEntity, ID: pairID(deckID, cardID)}
	}
	return nil
}

// ListCards returns the deck contents ordered by card id. A deck that does
// not exist simply has no cards.
func (r *DeckRepository) ListCards(ctx context.Context, deckID int64) ([]*models.DeckCard, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	deckCards := make([]*models.DeckCard, 0)
	err := r.db.NewSelect().
		Model(&deckCards).
		Relation("Card").
		Relation("Card.Type").
		Relation("Card.Archetype").
		Relation("Card.Faction").
		Relation("Card.Illustration").
		Where("?TableAlias.deck_id = ?", deckID).
		OrderExpr("?TableAlias.card_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", deckCardEntity, err)
	}
	return deckCards, nil
}

func (r *DeckRepository) GetQuantity(ctx context.Context, deckID, cardID int64) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var quantity int
	err := r.db.NewSelect().
		Model((*models.DeckCard)(nil)).
		Column("quantity").
		Where("deck_id = ?", deckID).
		Where("card_id = ?", cardID).
		Scan(ctx, &quantity)
	if err != nil {
		return 0, r.HandleErrorWithID("get", deckCardEntity, pairID(deckID, cardID), err)
	}
	return quantity, nil
}

// TotalCount sums the quantities of the deck, 0 when it holds nothing
func (r *DeckRepository) TotalCount(ctx context.Context, deckID int64) (int, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var total int
	err := r.db.NewSelect().
		Model((*models.DeckCard)(nil)).
		ColumnExpr("COALESCE(SUM(quantity), 0)").
		Where("deck_id = ?", deckID).
		Scan(ctx, &total)
	if err != nil {
		return 0, r.HandleError("sum", deckCardEntity, err)
	}
	return total, nil
}
