package decks

import (
	"context"
	"fmt"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/internal/domain/errs"
)

// Service is the deck composition engine. It enforces the max_occurrence
// ceiling of every card at the moment a quantity is written.
type Service interface {
	AddCard(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error)
	UpdateQuantity(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error)
	RemoveCard(ctx context.Context, deckID, cardID int64) error
	ListCards(ctx context.Context, deckID int64) ([]Entry, error)
	GetQuantity(ctx context.Context, deckID, cardID int64) (int, error)
	TotalCount(ctx context.Context, deckID int64) (*Total, error)
	Validate(ctx context.Context, deckID int64) (*ValidationReport, error)
}

type service struct {
	repository Repository
}

func NewService(repository Repository) *service {
	return &service{
		repository: repository,
	}
}

// AddCard puts quantity copies of the card in the deck, replacing any
// previous quantity for the pair.
func (s *service) AddCard(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error) {
	if err := s.checkQuantity(ctx, cardID, quantity); err != nil {
		return nil, err
	}

	deckCard, err := s.repository.UpsertCard(ctx, deckID, cardID, quantity)
	if err != nil {
		return nil, fmt.Errorf("add card %d to deck %d: %w", cardID, deckID, err)
	}
	return deckCard, nil
}

func (s *service) UpdateQuantity(ctx context.Context, deckID, cardID int64, quantity int) (*models.DeckCard, error) {
	if err := s.checkQuantity(ctx, cardID, quantity); err != nil {
		return nil, err
	}

	deckCard, err := s.repository.UpdateQuantity(ctx, deckID, cardID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update card %d in deck %d: %w", cardID, deckID, err)
	}
	return deckCard, nil
}

// checkQuantity validates quantity against the floor, then against the
// card's max_occurrence. A missing card is reported before the ceiling.
func (s *service) checkQuantity(ctx context.Context, cardID int64, quantity int) error {
	if quantity < config.MinDeckQuantity {
		return &errs.InvalidArgumentError{
			Field:  "quantity",
			Value:  quantity,
			Reason: fmt.Sprintf("must be at least %d", config.MinDeckQuantity),
		}
	}

	card, err := s.repository.GetCard(ctx, cardID)
	if err != nil {
		return fmt.Errorf("load card %d: %w", cardID, err)
	}

	if quantity > card.MaxOccurrence {
		return &errs.LimitExceededError{
			Field:   "quantity",
			Value:   quantity,
			Limit:   card.MaxOccurrence,
			Subject: fmt.Sprintf("card '%s'", card.Name),
		}
	}
	return nil
}

func (s *service) RemoveCard(ctx context.Context, deckID, cardID int64) error {
	if err := s.repository.RemoveCard(ctx, deckID, cardID); err != nil {
		return fmt.Errorf("remove card %d from deck %d: %w", cardID, deckID, err)
	}
	return nil
}

func (s *service) ListCards(ctx context.Context, deckID int64) ([]Entry, error) {
	deckCards, err := s.repository.ListCards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards of deck %d: %w", deckID, err)
	}

	entries := make([]Entry, 0, len(deckCards))
	for _, dc := range deckCards {
		entries = append(entries, Entry{
			Card:     dc.Card,
			Quantity: dc.Quantity,
			Count:    dc.Quantity,
		})
	}
	return entries, nil
}

func (s *service) GetQuantity(ctx context.Context, deckID, cardID int64) (int, error) {
	quantity, err := s.repository.GetQuantity(ctx, deckID, cardID)
	if err != nil {
		return 0, fmt.Errorf("quantity of card %d in deck %d: %w", cardID, deckID, err)
	}
	return quantity, nil
}

func (s *service) TotalCount(ctx context.Context, deckID int64) (*Total, error) {
	total, err := s.repository.TotalCount(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("total of deck %d: %w", deckID, err)
	}
	return &Total{DeckID: deckID, TotalCards: total}, nil
}

// Validate reports every card whose stored quantity is above its current
// max_occurrence. The total is summed from the same rows that were checked.
func (s *service) Validate(ctx context.Context, deckID int64) (*ValidationReport, error) {
	deckCards, err := s.repository.ListCards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("validate deck %d: %w", deckID, err)
	}

	report := &ValidationReport{Errors: make([]ValidationError, 0)}
	for _, dc := range deckCards {
		report.TotalCards += dc.Quantity
		if dc.Card == nil || dc.Quantity <= dc.Card.MaxOccurrence {
			continue
		}
		report.Errors = append(report.Errors, ValidationError{
			CardID:        dc.Card.ID,
			CardName:      dc.Card.Name,
			Quantity:      dc.Quantity,
			MaxOccurrence: dc.Card.MaxOccurrence,
			Message: fmt.Sprintf("Card '%s' has quantity %d but max_occurrence is %d",
				dc.Card.Name, dc.Quantity, dc.Card.MaxOccurrence),
		})
	}
	report.Valid = len(report.Errors) == 0
	return report, nil
}
