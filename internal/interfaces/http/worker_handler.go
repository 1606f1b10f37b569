package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/usecase"
)

// WorkerHandler gestión de trabajadores (solo administradores).
type WorkerHandler struct {
	uc *usecase.WorkerUseCase
}

// NewWorkerHandler construye el handler.
func NewWorkerHandler(uc *usecase.WorkerUseCase) *WorkerHandler {
	return &WorkerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear trabajador
// @Description  Contraseña inicial = últimos 4 dígitos del RUT; se exige cambio en el primer inicio.
// @Tags         trabajadores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateWorkerRequest  true  "datos del trabajador"
// @Success      201   {object}  dto.WorkerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/usuarios [post]
func (h *WorkerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkerRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.CreateWorker(c.UserContext(), GetWorker(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar trabajadores
// @Tags         trabajadores
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.WorkerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/auth/usuarios [get]
func (h *WorkerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListWorkers(c.UserContext(), GetWorker(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado laboral de un trabajador
// @Tags         trabajadores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        rut   path  int  true  "RUT sin dígito verificador"
// @Param        body  body  dto.UpdateWorkerStatusRequest  true  "nuevo estado"
// @Success      200   {object}  dto.WorkerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/usuarios/{rut}/estado [patch]
func (h *WorkerHandler) UpdateStatus(c *fiber.Ctx) error {
	rut, err := strconv.ParseInt(c.Params("rut"), 10, 64)
	if err != nil || rut <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_RUT", Message: "rut inválido"})
	}
	var in dto.UpdateWorkerStatusRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.uc.UpdateWorkerStatus(c.UserContext(), GetWorker(c), rut, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
