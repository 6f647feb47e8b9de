package handlers

import (
	"errors"
	"io"
	"log/slog"
	"strconv"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
)

var (
	errMissingFile    = errors.New("file is required")
	errUnreadableFile = errors.New("failed to read uploaded file")
)

func (w *WebApp) registerIllustrationRoutes(api fiber.Router) {
	api.Post("/illustrations/upload", IllustrationUpload(w))
	api.Get("/illustrations/:id/file", IllustrationFile(w))

	(&crudRoutes[models.Illustration]{
		label:       "Illustration",
		service:     w.Illustrations.CatalogService,
		listFilters: archetypeFilter,
		present: func(il *models.Illustration) interface{} {
			return webmodels.NewIllustrationResponse(il)
		},
	}).register(api, "/illustrations")
}

func IllustrationUpload(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		archetypeID, err := strconv.ParseInt(c.FormValue("archetype_id"), 10, 64)
		if err != nil || archetypeID <= 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "archetype_id must be a positive id", map[string]string{
				"archetype_id": c.FormValue("archetype_id"),
			})
		}

		upload, closeFile, err := formUpload(c)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		defer closeFile()

		illustration, err := webApp.Illustrations.Upload(c.UserContext(), archetypeID, upload)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendCreated(c, webmodels.NewIllustrationResponse(illustration), "Illustration uploaded successfully")
	}
}

func IllustrationFile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		illustration, file, err := webApp.Illustrations.Open(c.UserContext(), id)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return sendFile(c, illustration.Filename, file)
	}
}

// sendFile streams file to the client. The stream is closed once sent.
func sendFile(c *fiber.Ctx, filename string, file io.ReadCloser) error {
	c.Set(fiber.HeaderContentType, contentTypeFor(filename))
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	if err := c.SendStream(file); err != nil {
		file.Close()
		slog.Error("Failed to stream file",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
