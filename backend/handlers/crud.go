package handlers

import (
	"log/slog"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	webservices "github.com/ascendance/cardadmin/backend/services"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
)

// crudRoutes is the route set shared by every catalog entity. create, list
// and get replace the generic handlers when set; newCreate and newUpdate left nil
// disable the matching route.
type crudRoutes[T any] struct {
	label       string
	service     *webservices.CatalogService[T]
	newCreate   func() webmodels.CreateRequest[T]
	newUpdate   func() webmodels.UpdateRequest[T]
	listFilters func(c *fiber.Ctx) ([]repositories.Filter, error)
	present     func(*T) interface{}
	create      fiber.Handler
	list        fiber.Handler
	get         fiber.Handler
}

func (r *crudRoutes[T]) register(router fiber.Router, path string) {
	switch {
	case r.create != nil:
		router.Post(path, r.create)
	case r.newCreate != nil:
		router.Post(path, r.createHandler())
	}

	if r.list != nil {
		router.Get(path, r.list)
	} else {
		router.Get(path, r.listHandler())
	}

	if r.get != nil {
		router.Get(path+"/:id", r.get)
	} else {
		router.Get(path+"/:id", r.getHandler())
	}

	if r.newUpdate != nil {
		router.Put(path+"/:id", r.updateHandler())
	}
	router.Delete(path+"/:id", r.deleteHandler())
}

func (r *crudRoutes[T]) render(model *T) interface{} {
	if r.present != nil {
		return r.present(model)
	}
	return model
}

func (r *crudRoutes[T]) createHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := r.newCreate()
		if err := c.BodyParser(req); err != nil {
			return sendInvalidBody(c, err)
		}
		if violations := req.Validate(); len(violations) > 0 {
			return utils.SendValidationErrors(c, violations)
		}

		model, err := r.service.Create(c.UserContext(), req.Model())
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, r.render(model), r.label+" created successfully")
	}
}

func (r *crudRoutes[T]) listHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filters []repositories.Filter
		if r.listFilters != nil {
			var err error
			if filters, err = r.listFilters(c); err != nil {
				return utils.SendBadRequest(c, err.Error(), nil)
			}
		}

		items, err := r.service.List(c.UserContext(), filters...)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		if r.present == nil {
			return utils.SendSuccess(c, items, "")
		}

		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, r.present(item))
		}
		return utils.SendSuccess(c, out, "")
	}
}

func (r *crudRoutes[T]) getHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		model, err := r.service.Get(c.UserContext(), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, r.render(model), "")
	}
}

func (r *crudRoutes[T]) updateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		req := r.newUpdate()
		if err := c.BodyParser(req); err != nil {
			return sendInvalidBody(c, err)
		}
		if violations := req.Validate(); len(violations) > 0 {
			return utils.SendValidationErrors(c, violations)
		}

		model, err := r.service.Update(c.UserContext(), id, req.Apply)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, r.render(model), r.label+" updated successfully")
	}
}

func (r *crudRoutes[T]) deleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		if err := r.service.Delete(c.UserContext(), id); err != nil {
			slog.Warn("Delete rejected",
				slog.String("entity", r.service.Entity()),
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, nil, r.label+" deleted successfully")
	}
}

func (w *WebApp) registerCatalogRoutes(api fiber.Router) {
	(&crudRoutes[models.Archetype]{
		label:     "Archetype",
		service:   w.Archetypes,
		newCreate: func() webmodels.CreateRequest[models.Archetype] { return &webmodels.ArchetypeRequest{} },
		newUpdate: func() webmodels.UpdateRequest[models.Archetype] { return &webmodels.ArchetypeUpdateRequest{} },
	}).register(api, "/archetypes")

	(&crudRoutes[models.Faction]{
		label:       "Faction",
		service:     w.Factions,
		newCreate:   func() webmodels.CreateRequest[models.Faction] { return &webmodels.FactionRequest{} },
		newUpdate:   func() webmodels.UpdateRequest[models.Faction] { return &webmodels.FactionUpdateRequest{} },
		listFilters: archetypeFilter,
	}).register(api, "/factions")

	(&crudRoutes[models.EffectType]{
		label:     "Effect type",
		service:   w.EffectTypes,
		newCreate: func() webmodels.CreateRequest[models.EffectType] { return &webmodels.EffectTypeRequest{} },
		newUpdate: func() webmodels.UpdateRequest[models.EffectType] { return &webmodels.EffectTypeUpdateRequest{} },
	}).register(api, "/effect_types")

	(&crudRoutes[models.Effect]{
		label:       "Effect",
		service:     w.Effects,
		newCreate:   func() webmodels.CreateRequest[models.Effect] { return &webmodels.EffectRequest{} },
		newUpdate:   func() webmodels.UpdateRequest[models.Effect] { return &webmodels.EffectUpdateRequest{} },
		listFilters: archetypeFilter,
	}).register(api, "/effects")

	(&crudRoutes[models.Bonus]{
		label:       "Bonus",
		service:     w.Bonuses,
		newCreate:   func() webmodels.CreateRequest[models.Bonus] { return &webmodels.BonusRequest{} },
		newUpdate:   func() webmodels.UpdateRequest[models.Bonus] { return &webmodels.BonusUpdateRequest{} },
		listFilters: archetypeFilter,
	}).register(api, "/bonuses")
}
