package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
	"github.com/jhoicas/seller-catalog-api/internal/domain"
)

// writeError traduce un error de dominio a status HTTP y cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindInvalidReference, domain.KindMissingField, domain.KindInvalidInput:
		return fiber.StatusBadRequest, string(kind)
	case domain.KindNotFound:
		return fiber.StatusNotFound, string(kind)
	default:
		return fiber.StatusInternalServerError, string(domain.KindTransactionFailed)
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
}
