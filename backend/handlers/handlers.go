package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ascendance/cardadmin/ascendance"
	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/repositories"
	"github.com/ascendance/cardadmin/ascendance/storage"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	webservices "github.com/ascendance/cardadmin/backend/services"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/ascendance/cardadmin/internal/domain/decks"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config  *ascendance.Config
	DB      *bun.DB
	Storage storage.Storage
	Version string

	Archetypes    *webservices.CatalogService[models.Archetype]
	Types         *webservices.TypeService
	Factions      *webservices.CatalogService[models.Faction]
	EffectTypes   *webservices.CatalogService[models.EffectType]
	Effects       *webservices.CatalogService[models.Effect]
	Bonuses       *webservices.CatalogService[models.Bonus]
	Illustrations *webservices.IllustrationService
	Cards         *webservices.CardService
	Decks         *webservices.CatalogService[models.Deck]
	DeckEngine    decks.Service
}

// NewWebApp wires repositories and services over one database handle
func NewWebApp(cfg *ascendance.Config, db *bun.DB, st storage.Storage, version string) *WebApp {
	return &WebApp{
		Config:  cfg,
		DB:      db,
		Storage: st,
		Version: version,

		Archetypes: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.Archetype](db, "archetype"), "archetype"),
		Types: webservices.NewTypeService(
			repositories.NewCrudRepository[models.Type](db, "type"), st, cfg.Storage),
		Factions: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.Faction](db, "faction"), "faction"),
		EffectTypes: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.EffectType](db, "effect type"), "effect type"),
		Effects: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.Effect](db, "effect"), "effect"),
		Bonuses: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.Bonus](db, "bonus"), "bonus"),
		Illustrations: webservices.NewIllustrationService(
			repositories.NewCrudRepository[models.Illustration](db, "illustration"), st, cfg.Storage),
		Cards: webservices.NewCardService(repositories.NewCardRepository(db)),
		Decks: webservices.NewCatalogService(
			repositories.NewCrudRepository[models.Deck](db, "deck"), "deck"),
		DeckEngine: decks.NewService(repositories.NewDeckRepository(db)),
	}
}

// RegisterRoutes mounts the health check and the versioned API on app
func (w *WebApp) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", HealthCheck(w))

	api := app.Group(config.APIPrefix)
	w.registerCatalogRoutes(api)
	w.registerTypeRoutes(api)
	w.registerCardRoutes(api)
	w.registerDeckRoutes(api)
	w.registerIllustrationRoutes(api)
}

// parseID reads a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

func sendInvalidID(c *fiber.Ctx, name string) error {
	return utils.SendError(c, fiber.StatusBadRequest, "INVALID_ID", fmt.Sprintf("Invalid %s", name), map[string]string{
		name: c.Params(name),
	})
}

func sendInvalidBody(c *fiber.Ctx, err error) error {
	return utils.SendError(c, fiber.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", map[string]string{
		"error": err.Error(),
	})
}

// archetypeFilter reads the optional archetype_id query parameter
func archetypeFilter(c *fiber.Ctx) ([]repositories.Filter, error) {
	raw := c.Query("archetype_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("archetype_id must be a positive id")
	}
	return []repositories.Filter{repositories.WhereArchetype(id)}, nil
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), config.HealthCheckTimeout)
		defer cancel()

		health := webmodels.NewHealthCheck(webApp.Version)
		var dbErr, storageErr error

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			dbErr = webApp.DB.PingContext(gctx)
			return nil
		})
		g.Go(func() error {
			storageErr = webApp.Storage.Ping(gctx)
			return nil
		})
		_ = g.Wait()

		addComponent(health, "database", dbErr)
		addComponent(health, "storage", storageErr)

		if health.Status != "healthy" {
			response := webmodels.NewSuccessResponse(health, "Service degraded")
			response.Success = false
			return utils.SendJSON(c, fiber.StatusServiceUnavailable, response)
		}
		return utils.SendSuccess(c, health, "Health check successful")
	}
}

func addComponent(health *webmodels.HealthCheck, name string, err error) {
	if err != nil {
		health.AddComponent(name, "unhealthy", err.Error(), nil)
		return
	}
	health.AddComponent(name, "healthy", "", nil)
}
