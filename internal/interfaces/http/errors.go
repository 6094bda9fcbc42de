package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/rs/zerolog"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNoLotSelected, fiber.StatusConflict, "NO_LOT_SELECTED"},
	{domain.ErrAlreadyCancelled, fiber.StatusConflict, "ALREADY_CANCELLED"},
	{domain.ErrCannotEditLegacyMovement, fiber.StatusConflict, "LEGACY_MOVEMENT"},
	{domain.ErrCancellationWindowExpired, fiber.StatusUnprocessableEntity, "CANCELLATION_WINDOW_EXPIRED"},
	{domain.ErrOrphanedLot, fiber.StatusInternalServerError, "ORPHANED_LOT"},
}

// mapError traduce un error de dominio a status HTTP y cuerpo. Los errores sin mapeo son 500
// y no exponen su detalle.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.status, dto.ErrorResponse{Code: e.code, Message: err.Error()}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
}

func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, body := mapError(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("code", body.Code).Msg("error atendiendo petición")
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
