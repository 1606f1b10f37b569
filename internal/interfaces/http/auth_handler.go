package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/auth"
	"github.com/jhoicas/sigra-api/internal/application/dto"
)

// AuthHandler maneja login y cambio de contraseña.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión con RUT
// @Description  Si el trabajador debe cambiar su contraseña, access_token es "primer_inicio".
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "rut, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.Authenticate(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Description  Con Bearer token, o sin token indicando rut si es el primer inicio de sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "password actual y nueva"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/cambiar-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if !parseBody(c, &in) {
		return nil
	}
	token, _ := bearerToken(c.Get(fiber.HeaderAuthorization))
	out, err := h.uc.ChangePassword(c.UserContext(), token, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
