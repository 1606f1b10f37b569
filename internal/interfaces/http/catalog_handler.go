package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/internal/application/catalog"
	"github.com/jhoicas/sigra-api/internal/application/dto"
)

// CatalogHandler catálogos públicos para precargar el caché offline de la app.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// All godoc
// @Summary      Todos los catálogos
// @Tags         catalogos
// @Produce      json
// @Success      200  {object}  dto.CatalogsResponse
// @Router       /api/reportes/catalogos [get]
func (h *CatalogHandler) All(c *fiber.Ctx) error {
	out, err := h.uc.All(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Areas godoc
// @Summary      Catálogo de áreas
// @Tags         catalogos
// @Produce      json
// @Success      200  {array}  dto.CatalogItem
// @Router       /api/reportes/catalogos/areas [get]
func (h *CatalogHandler) Areas(c *fiber.Ctx) error { return h.list(c, h.uc.Areas) }

// Severities godoc
// @Summary      Catálogo de severidades
// @Tags         catalogos
// @Produce      json
// @Success      200  {array}  dto.CatalogItem
// @Router       /api/reportes/catalogos/severidad [get]
func (h *CatalogHandler) Severities(c *fiber.Ctx) error { return h.list(c, h.uc.Severities) }

// States godoc
// @Summary      Catálogo de estados de reporte
// @Tags         catalogos
// @Produce      json
// @Success      200  {array}  dto.CatalogItem
// @Router       /api/reportes/catalogos/estados [get]
func (h *CatalogHandler) States(c *fiber.Ctx) error { return h.list(c, h.uc.ReportStates) }

func (h *CatalogHandler) list(c *fiber.Ctx, f func(context.Context) ([]dto.CatalogItem, error)) error {
	out, err := f(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
