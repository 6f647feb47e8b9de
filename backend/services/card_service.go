package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	"golang.org/x/sync/errgroup"
)

// CardStore is the card table with its effect and bonus links
type CardStore interface {
	repositories.CrudRepository[models.Card]
	CreateWithAssociations(ctx context.Context, card *models.Card, effectIDs, bonusIDs []int64, extra repositories.TxHook) error
	AddEffect(ctx context.Context, cardID, effectID int64) error
	RemoveEffect(ctx context.Context, cardID, effectID int64) error
	ListEffects(ctx context.Context, cardID int64) ([]*models.Effect, error)
	AddBonus(ctx context.Context, cardID, bonusID int64) error
	RemoveBonus(ctx context.Context, cardID, bonusID int64) error
	ListBonuses(ctx context.Context, cardID int64) ([]*models.Bonus, error)
}

// CardService provides card operations for the web interface
type CardService struct {
	*CatalogService[models.Card]
	store CardStore
}

func NewCardService(store CardStore) *CardService {
	return &CardService{
		CatalogService: NewCatalogService[models.Card](store, "card"),
		store:          store,
	}
}

// CreateCard inserts the card and its effect and bonus links atomically.
// A missing effect or bonus rolls the whole card back.
func (cs *CardService) CreateCard(ctx context.Context, req *webmodels.CardCreateRequest) (*models.Card, error) {
	card := req.Model()
	if err := cs.store.CreateWithAssociations(ctx, card, req.EffectIDs, req.BonusIDs, nil); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	slog.Info("Card created",
		slog.Int64("card_id", card.ID),
		slog.String("name", card.Name),
		slog.Int("effects", len(req.EffectIDs)),
		slog.Int("bonuses", len(req.BonusIDs)))
	return card, nil
}

// GetCardDetail loads the card, then its effects and bonuses concurrently
func (cs *CardService) GetCardDetail(ctx context.Context, cardID int64) (*webmodels.CardDetail, error) {
	card, err := cs.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	detail := &webmodels.CardDetail{Card: card}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		effects, err := cs.store.ListEffects(gctx, cardID)
		if err != nil {
			return fmt.Errorf("failed to load effects: %w", err)
		}
		detail.Effects = effects
		return nil
	})
	g.Go(func() error {
		bonuses, err := cs.store.ListBonuses(gctx, cardID)
		if err != nil {
			return fmt.Errorf("failed to load bonuses: %w", err)
		}
		detail.Bonuses = bonuses
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (cs *CardService) AddEffect(ctx context.Context, cardID, effectID int64) error {
	if err := cs.store.AddEffect(ctx, cardID, effectID); err != nil {
		return fmt.Errorf("failed to add effect %d to card %d: %w", effectID, cardID, err)
	}
	return nil
}

func (cs *CardService) RemoveEffect(ctx context.Context, cardID, effectID int64) error {
	if err := cs.store.RemoveEffect(ctx, cardID, effectID); err != nil {
		return fmt.Errorf("failed to remove effect %d from card %d: %w", effectID, cardID, err)
	}
	return nil
}

func (cs *CardService) ListEffects(ctx context.Context, cardID int64) ([]*models.Effect, error) {
	effects, err := cs.store.ListEffects(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list effects of card %d: %w", cardID, err)
	}
	return effects, nil
}

func (cs *CardService) AddBonus(ctx context.Context, cardID, bonusID int64) error {
	if err := cs.store.AddBonus(ctx, cardID, bonusID); err != nil {
		return fmt.Errorf("failed to add bonus %d to card %d: %w", bonusID, cardID, err)
	}
	return nil
}

func (cs *CardService) RemoveBonus(ctx context.Context, cardID, bonusID int64) error {
	if err := cs.store.RemoveBonus(ctx, cardID, bonusID); err != nil {
		return fmt.Errorf("failed to remove bonus %d from card %d: %w", bonusID, cardID, err)
	}
	return nil
}

func (cs *CardService) ListBonuses(ctx context.Context, cardID int64) ([]*models.Bonus, error) {
	bonuses, err := cs.store.ListBonuses(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonuses of card %d: %w", cardID, err)
	}
	return bonuses, nil
}
