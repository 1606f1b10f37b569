package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/application/reports"
)

// ReportHandler reportes de incidentes, cambios de estado y ficha PDF.
type ReportHandler struct {
	ledger     *reports.LedgerUseCase
	transition *reports.TransitionUseCase
	sheet      *reports.SheetUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(ledger *reports.LedgerUseCase, transition *reports.TransitionUseCase, sheet *reports.SheetUseCase) *ReportHandler {
	return &ReportHandler{ledger: ledger, transition: transition, sheet: sheet}
}

// Create godoc
// @Summary      Enviar reporte
// @Description  uuid_cliente repetido responde 400 DUPLICATE_CLIENT_UUID: la app debe darlo por sincronizado.
// @Tags         reportes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateReportRequest  true  "reporte"
// @Success      201   {object}  dto.CreateReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/reportes [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.ledger.Submit(c.UserContext(), GetWorker(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar todos los reportes (más recientes primero)
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ReportListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reportes [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	out, err := h.ledger.ListAll(c.UserContext(), GetWorker(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar mis reportes
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ReportListResponse
// @Router       /api/reportes/mios [get]
func (h *ReportHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.ledger.ListMine(c.UserContext(), GetWorker(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener reporte
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reportes/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return nil
	}
	out, err := h.ledger.Get(c.UserContext(), GetWorker(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateState godoc
// @Summary      Cambiar estado del reporte
// @Description  Solo transiciones presentes en el grafo de estados. Registra la bitácora.
// @Tags         reportes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int  true  "ID del reporte"
// @Param        body  body  dto.TransitionRequest  true  "nuevo estado y detalle"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reportes/{id}/estado [put]
func (h *ReportHandler) UpdateState(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return nil
	}
	var in dto.TransitionRequest
	if !parseBody(c, &in) {
		return nil
	}
	out, err := h.transition.Transition(c.UserContext(), GetWorker(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Bitácora del reporte
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del reporte"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reportes/{id}/bitacora [get]
func (h *ReportHandler) History(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return nil
	}
	out, err := h.ledger.History(c.UserContext(), GetWorker(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// AllowedTransitions godoc
// @Summary      Estados alcanzables desde el estado actual
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del reporte"
// @Success      200  {object}  dto.AllowedTransitionsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reportes/{id}/transiciones [get]
func (h *ReportHandler) AllowedTransitions(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return nil
	}
	out, err := h.transition.AllowedTransitions(c.UserContext(), GetWorker(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Ficha PDF del reporte con su bitácora
// @Tags         reportes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  int  true  "ID del reporte"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reportes/{id}/pdf [get]
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	id, ok := reportID(c)
	if !ok {
		return nil
	}
	pdfBytes, filename, err := h.sheet.Download(c.UserContext(), GetWorker(c), id)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// reportID lee :id; si no es un entero positivo responde 400 y devuelve false.
func reportID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de reporte inválido"})
		return 0, false
	}
	return id, true
}
