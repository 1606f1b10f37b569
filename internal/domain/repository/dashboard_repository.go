package repository

import (
	"context"
	"time"
)

// CountResult cantidad de reportes agrupados por un elemento de catálogo.
type CountResult struct {
	ID    int
	Name  string
	Count int
}

// DashboardRepository consultas de solo lectura para el resumen del administrador.
// Los conteos por catálogo incluyen los elementos sin reportes (Count = 0), ordenados por ID.
type DashboardRepository interface {
	CountByState(ctx context.Context) ([]CountResult, error)
	CountBySeverity(ctx context.Context) ([]CountResult, error)
	CountByArea(ctx context.Context) ([]CountResult, error)
	// CountCreatedBetween reportes con created_at en [from, to).
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}
