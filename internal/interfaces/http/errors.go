package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain"
)

// respondError maps domain errors to status codes. Anything unmapped is logged and
// answered with a generic 500 so internals never reach the client.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", "not allowed"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code, msg = fiber.StatusConflict, "EMAIL_EXISTS", "an account with this email already exists"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		status, code, msg = fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "product spreadsheet is unreachable"
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		if status == fiber.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
