package handlers

import (
	"mime"
	"path/filepath"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	webmodels "github.com/ascendance/cardadmin/backend/models"
	webservices "github.com/ascendance/cardadmin/backend/services"
	"github.com/ascendance/cardadmin/backend/utils"
	"github.com/gofiber/fiber/v2"
)

func (w *WebApp) registerTypeRoutes(api fiber.Router) {
	api.Get("/types/icon/:filename", TypeIconFile(w))
	api.Post("/types/:id/icon", TypeIconUpload(w))
	api.Delete("/types/:id/icon", TypeIconDelete(w))

	(&crudRoutes[models.Type]{
		label:     "Type",
		service:   w.Types.CatalogService,
		newCreate: func() webmodels.CreateRequest[models.Type] { return &webmodels.TypeRequest{} },
		newUpdate: func() webmodels.UpdateRequest[models.Type] { return &webmodels.TypeUpdateRequest{} },
		present:   func(t *models.Type) interface{} { return webmodels.NewTypeResponse(t) },
	}).register(api, "/types")
}

func TypeIconUpload(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		typeID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		upload, closeFile, err := formUpload(c)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), nil)
		}
		defer closeFile()

		cardType, err := webApp.Types.SetIcon(c.UserContext(), typeID, upload)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewTypeResponse(cardType), "Icon uploaded successfully")
	}
}

func TypeIconDelete(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		typeID, err := parseID(c, "id")
		if err != nil {
			return sendInvalidID(c, "id")
		}

		cardType, err := webApp.Types.DeleteIcon(c.UserContext(), typeID)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return utils.SendSuccess(c, webmodels.NewTypeResponse(cardType), "Icon deleted successfully")
	}
}

func TypeIconFile(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Params("filename")

		file, err := webApp.Types.OpenIcon(c.UserContext(), filename)
		if err != nil {
			return utils.SendDomainError(c, err)
		}
		return sendFile(c, filename, file)
	}
}

// formUpload reads the multipart "file" field. The returned func closes it.
func formUpload(c *fiber.Ctx) (webservices.Upload, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		return webservices.Upload{}, nil, errMissingFile
	}

	file, err := header.Open()
	if err != nil {
		return webservices.Upload{}, nil, errUnreadableFile
	}

	return webservices.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return fiber.MIMEOctetStream
}
