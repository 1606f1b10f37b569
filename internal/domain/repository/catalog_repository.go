package repository

import (
	"context"

	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// CatalogRepository lectura de catálogos de referencia y del grafo de transiciones.
type CatalogRepository interface {
	ListAreas(ctx context.Context) ([]entity.CatalogItem, error)
	ListSeverities(ctx context.Context) ([]entity.CatalogItem, error)
	ListReportStates(ctx context.Context) ([]entity.CatalogItem, error)
	ListRoles(ctx context.Context) ([]entity.CatalogItem, error)
	ListEmploymentStatuses(ctx context.Context) ([]entity.CatalogItem, error)
	ReportStateExists(ctx context.Context, id int) (bool, error)
	ListTransitions(ctx context.Context) ([]entity.StateTransition, error)
}
