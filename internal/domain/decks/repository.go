package decks

import (
	"context"

	"github.com/ascendance/cardadmin/ascendance/database/models"
)

//go:generate mockgen -destination=mock/repository.go -package=mock . Repository

type Repository interface {
	// GetCard returns the card with its max_occurrence
	GetCard(ctx context.Context, cardID int64) (*models.Card, error)
	// UpsertCard sets the quantity of the pair, creating it when absent.
	// It fails with a not-found error when the deck does not exist.
	UpsertCard(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error)
	// UpdateQuantity changes an existing pair and never creates one
	UpdateQuantity(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error)
	RemoveCard(ctx context.Context, deckID, cardID int64) error
	// ListCards loads every pair of the deck with the card's type, archetype,
	// faction and illustration
	ListCards(ctx context.Context, deckID int64) ([]*models.DeckCard, error)
	GetQuantity(ctx context.Context, deckID, cardID int64) (int, error)
	TotalCount(ctx context.Context, deckID int64) (int, error)
}
