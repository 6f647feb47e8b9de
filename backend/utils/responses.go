package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/ascendance/cardadmin/backend/models"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/gofiber/fiber/v2"
)

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusCreated, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

// SendBadRequest sends a bad request error response
func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// SendValidationErrors reports field rule violations as a 400
func SendValidationErrors(c *fiber.Ctx, violations []models.ValidationError) error {
	details := make(map[string]string, len(violations))
	for _, e := range violations {
		if _, ok := details[e.Field]; !ok {
			details[e.Field] = e.Description
		}
	}
	return SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", violations[0].Description, details)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// SendConflict sends a conflict error response
func SendConflict(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusConflict, "CONFLICT", message, details)
}

// SendInternalServerError sends an internal server error response
func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

// SendDomainError maps a service error onto the response envelope.
// Anything that is not a known domain error is logged and reported as an
// opaque 500.
func SendDomainError(c *fiber.Ctx, err error) error {
	var (
		notFound *errs.NotFoundError
		invalid  *errs.InvalidArgumentError
		limit    *errs.LimitExceededError
		media    *errs.UnsupportedMediaError
		size     *errs.PayloadTooLargeError
		conflict *errs.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		return SendNotFound(c, notFound.Error())
	case errors.As(err, &limit):
		return SendError(c, http.StatusBadRequest, "LIMIT_EXCEEDED", limit.Error(), map[string]string{
			"field": limit.Field,
		})
	case errors.As(err, &invalid):
		return SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", invalid.Error(), map[string]string{
			invalid.Field: invalid.Reason,
		})
	case errors.As(err, &media):
		return SendError(c, http.StatusBadRequest, "UNSUPPORTED_MEDIA_TYPE", media.Error(), nil)
	case errors.As(err, &size):
		return SendError(c, http.StatusBadRequest, "FILE_TOO_LARGE", size.Error(), nil)
	case errors.As(err, &conflict):
		return SendConflict(c, conflict.Error(), nil)
	}

	logger.LogError("Request failed", err,
		slog.String("method", c.Method()),
		slog.String("path", c.Path()))
	return SendInternalServerError(c, "Internal server error")
}
