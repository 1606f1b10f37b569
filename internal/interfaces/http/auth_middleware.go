package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/access"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// LocalWorker key de c.Locals con el *entity.Worker autenticado.
const LocalWorker = "worker"

// TokenResolver resuelve un bearer token al trabajador. Lo implementa *auth.AuthUseCase.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*entity.Worker, error)
}

// AuthMiddleware valida el Bearer Token, carga al trabajador y lo deja en c.Locals.
// El marcador de primer inicio no sirve como token.
func AuthMiddleware(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		token, ok := bearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		w, err := resolver.ResolveToken(c.UserContext(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidToken):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			case errors.Is(err, domain.ErrAccountInactive):
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCOUNT_INACTIVE", Message: domain.ErrAccountInactive.Error()})
			default:
				return err
			}
		}
		c.Locals(LocalWorker, w)
		return c.Next()
	}
}

// RequireAdmin corta con 403 si el trabajador autenticado no es administrador.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !access.CanAdminister(GetWorker(c)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere cargo de administrador"})
		}
		return c.Next()
	}
}

// GetWorker devuelve el trabajador del contexto (después del middleware de auth).
func GetWorker(c *fiber.Ctx) *entity.Worker {
	w, _ := c.Locals(LocalWorker).(*entity.Worker)
	return w
}

// bearerToken extrae el token de "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
