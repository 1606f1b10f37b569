package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/sigra-api/internal/application/analytics"
)

// DashboardHandler resumen para el panel del administrador.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de reportes por estado, severidad y área
// @Description  Incluye los creados hoy y en el mes en curso. Las fechas se calculan en el servidor.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reportes/resumen [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetWorker(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}
