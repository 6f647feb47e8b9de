package handlers

import (
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
)

func (w *WebApp) registerCardRoutes(api fiber.Router) {
	(&crudRoutes[models.Card]{
		label:       "Card",
		service:     w.Cards.CatalogService,
		newUpdate:   func() webmodels.UpdateRequest[models.Card] { return &webmodels.CardUpdateRequest{} },
		listFilters: archetypeFilter,
		create:      CardsCreate(w),
		get:         CardsDetail(w),
	}).register(api, "/cards")

	cards := api.Group("/cards/:id")
	cards.Get("/effects", CardEffectsList(w))
	cards.Post("/effects", CardEffectsAdd(w))
	cards.Delete("/effects/:effect_id", CardEffectsRemove(w))
	cards.Get("/bonuses", CardBonusesList(w))
	cards.Post("/bonuses", CardBonusesAdd(w))
	cards.Delete("/bonuses/:bonus_id", CardBonusesRemove(w))
}

func CardsCreate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webmodels.CardCreateRequest
		if err := c.BodyParser(&req); err != nil {
			return sendInvalidBody(c, err)
		}
		if violations := req.Validate(); len(violations) > 0 {
			return utils.SendValidationErrors(c, violations)
		}

		card, err := webApp.Cards.CreateCard(c.UserContext(), &req)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, card, "Card created successfully")
	}
}

// CardsDetail returns the card, with its effects and bonuses when
// load_relationships is set.
func CardsDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		if c.QueryBool("load_relationships") {
			detail, err := webApp.Cards.GetCardDetail(c.UserContext(), cardID)
			if err != nil {
				return utils.SendDomainError(c, err)
			}
			return utils.SendSuccess(c, detail, "")
		}

		card, err := webApp.Cards.Get(c.UserContext(), cardID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, card, "")
	}
}

func CardEffectsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		effects, err := webApp.Cards.ListEffects(c.UserContext(), cardID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, effects, "")
	}
}

func CardEffectsAdd(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		var req webmodels.CardEffectRequest
		if err := c.BodyParser(&req); err != nil {
			return sendInvalidBody(c, err)
		}
		if req.EffectID <= 0 {
			return utils.SendValidationErrors(c, []webmodels.ValidationError{
				{Field: "effect_id", Description: "effect_id must be a positive id"},
			})
		}

		if err := webApp.Cards.AddEffect(c.UserContext(), cardID, req.EffectID); err != nil {
			return utils.SendDomainError(c, err)
		}

		slog.Info("Effect linked to card",
			slog.Int64("card_id", cardID),
			slog.Int64("effect_id", req.EffectID))
		return utils.SendCreated(c, fiber.Map{"card_id": cardID, "effect_id": req.EffectID}, "Effect added to card")
	}
}

func CardEffectsRemove(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}
		effectID, err := parseID(c, "effect_id")
		if err != nil {
			return sendInvalidID(c, "effect_id")
		}

		if err := webApp.Cards.RemoveEffect(c.UserContext(), cardID, effectID); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, nil, "Effect removed from card")
	}
}

func CardBonusesList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		bonuses, err := webApp.Cards.ListBonuses(c.UserContext(), cardID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, bonuses, "")
	}
}

func CardBonusesAdd(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		var req webmodels.CardBonusRequest
		if err := c.BodyParser(&req); err != nil {
			return sendInvalidBody(c, err)
		}
		if req.BonusID <= 0 {
			return utils.SendValidationErrors(c, []webmodels.ValidationError{
				{Field: "bonus_id", Description: "bonus_id must be a positive id"},
			})
		}

		if err := webApp.Cards.AddBonus(c.UserContext(), cardID, req.BonusID); err != nil {
			return utils.SendDomainError(c, err)
		}

		slog.Info("Bonus linked to card",
			slog.Int64("card_id", cardID),
			slog.Int64("bonus_id", req.BonusID))
		return utils.SendCreated(c, fiber.Map{"card_id": cardID, "bonus_id": req.BonusID}, "Bonus added to card")
	}
}

func CardBonusesRemove(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cardID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}
		bonusID, err := parseID(c, "bonus_id")
		if err != nil {
			return sendInvalidID(c, "bonus_id")
		}

		if err := webApp.Cards.RemoveBonus(c.UserContext(), cardID, bonusID); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, nil, "Bonus removed from card")
	}
}
