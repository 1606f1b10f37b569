package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrAccountInactive, fiber.StatusForbidden, "ACCOUNT_INACTIVE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrReportNotFound, fiber.StatusNotFound, "REPORT_NOT_FOUND"},
	{domain.ErrWorkerNotFound, fiber.StatusNotFound, "WORKER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	// La app móvil da por sincronizado un reenvío solo si recibe 400; el código distingue el caso.
	{domain.ErrDuplicateClientUUID, fiber.StatusBadRequest, "DUPLICATE_CLIENT_UUID"},
	{domain.ErrDuplicateRUT, fiber.StatusBadRequest, "DUPLICATE_RUT"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrIllegalTransition, fiber.StatusBadRequest, "ILLEGAL_TRANSITION"},
	{domain.ErrInvalidReference, fiber.StatusBadRequest, "INVALID_REFERENCE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// fail traduce un error de dominio a su respuesta HTTP. Los errores desconocidos se
// devuelven tal cual para que ErrorHandler los registre y responda 500.
func fail(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return err
}

// ErrorHandler handler global de Fiber: errores de Fiber con su status, el resto 500
// con mensaje genérico. La causa real solo va al log.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
	}
}
