package handlers

import (
	"github.com/ascendance/cardadmin/ascendance/database/models"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// deckCardLoaders bounds concurrent card lookups when listing decks with cards
const deckCardLoaders = 4

func (w *WebApp) registerDeckRoutes(api fiber.Router) {
	(&crudRoutes[models.Deck]{
		label:     "Deck",
		service:   w.Decks,
		newCreate: func() webmodels.CreateRequest[models.Deck] { return &webmodels.DeckRequest{} },
		newUpdate: func() webmodels.UpdateRequest[models.Deck] { return &webmodels.DeckUpdateRequest{} },
		list:      DecksList(w),
		get:       DecksDetail(w),
	}).register(api, "/decks")

	deck := api.Group("/decks/:id")
	deck.Get("/cards", DeckCardsList(w))
	deck.Post("/cards", DeckCardsAdd(w))
	deck.Put("/cards/:card_id", DeckCardsUpdate(w))
	deck.Delete("/cards/:card_id", DeckCardsRemove(w))
	deck.Get("/cards/:card_id/quantity", DeckCardQuantity(w))
	deck.Get("/total", DeckTotal(w))
	deck.Get("/validate", DeckValidate(w))
}

// DecksList returns every deck, each with its cards when load_cards is set
func DecksList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := webApp.Decks.List(c.UserContext())
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		if !c.QueryBool("load_cards") {
			return utils.SendSuccess(c, items, "")
		}

		details := make([]webmodels.DeckDetail, len(items))
		g, ctx := errgroup.WithContext(c.UserContext())
		g.SetLimit(deckCardLoaders)
		for i, deck := range items {
			g.Go(func() error {
				entries, err := webApp.DeckEngine.ListCards(ctx, deck.ID)
				if err != nil {
					return err
				}
				details[i] = webmodels.DeckDetail{Deck: deck, Cards: entries}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, details, "")
	}
}

// DecksDetail returns the deck, with its cards when load_cards is set
func DecksDetail(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		deck, err := webApp.Decks.Get(c.UserContext(), deckID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		if !c.QueryBool("load_cards") {
			return utils.SendSuccess(c, deck, "")
		}

		entries, err := webApp.DeckEngine.ListCards(c.UserContext(), deckID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, webmodels.DeckDetail{Deck: deck, Cards: entries}, "")
	}
}

func DeckCardsList(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		entries, err := webApp.DeckEngine.ListCards(c.UserContext(), deckID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, entries, "")
	}
}

// DeckCardsAdd puts a card in the deck, replacing any previous quantity
func DeckCardsAdd(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		var req webmodels.AddCardToDeckRequest
		if err := c.BodyParser(&req); err != nil {
			return sendInvalidBody(c, err)
		}
		if violations := req.Validate(); len(violations) > 0 {
			return utils.SendValidationErrors(c, violations)
		}

		deckCard, err := webApp.DeckEngine.AddCard(c.UserContext(), deckID, req.CardID, req.Quantity)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, deckCard, "Card added to deck")
	}
}

func DeckCardsUpdate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}
		cardID, err := parseID(c, "card_id")
		if err != nil {
			return sendInvalidID(c, "card_id")
		}

		var req webmodels.UpdateCardQuantityRequest
		if err := c.BodyParser(&req); err != nil {
			return sendInvalidBody(c, err)
		}

		deckCard, err := webApp.DeckEngine.UpdateQuantity(c.UserContext(), deckID, cardID, req.Quantity)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, deckCard, "Card quantity updated")
	}
}

func DeckCardsRemove(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}
		cardID, err := parseID(c, "card_id")
		if err != nil {
			return sendInvalidID(c, "card_id")
		}

		if err := webApp.DeckEngine.RemoveCard(c.UserContext(), deckID, cardID); err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, nil, "Card removed from deck")
	}
}

func DeckCardQuantity(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}
		cardID, err := parseID(c, "card_id")
		if err != nil {
			return sendInvalidID(c, "card_id")
		}

		quantity, err := webApp.DeckEngine.GetQuantity(c.UserContext(), deckID, cardID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, webmodels.QuantityResponse{
			DeckID:   deckID,
			CardID:   cardID,
			Quantity: quantity,
		}, "")
	}
}

func DeckTotal(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		total, err := webApp.DeckEngine.TotalCount(c.UserContext(), deckID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, total, "")
	}
}

func DeckValidate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deckID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		report, err := webApp.DeckEngine.Validate(c.UserContext(), deckID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, report, "")
	}
}
