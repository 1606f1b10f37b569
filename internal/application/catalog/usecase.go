// Package catalog expone los catálogos de solo lectura (áreas, severidades, estados,
// cargos y estados de trabajador) que la app móvil precarga para trabajar offline.
package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/sigra-api/internal/application/dto"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
	"github.com/jhoicas/sigra-api/internal/domain/repository"
	"github.com/jhoicas/sigra-api/pkg/logger"
	"github.com/jhoicas/sigra-api/pkg/metrics"
)

// Cache almacén opcional de los catálogos. Get devuelve (nil, nil) si no hay entrada.
type Cache interface {
	Get(ctx context.Context) (*entity.Catalogs, error)
	Set(ctx context.Context, c *entity.Catalogs) error
}

// UseCase lectura de catálogos con caché opcional. Un caché caído nunca hace fallar la lectura.
type UseCase struct {
	repo    repository.CatalogRepository
	cache   Cache
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(repo repository.CatalogRepository, cache Cache, m *metrics.Metrics, log *logger.Logger) *UseCase {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, cache: cache, metrics: m, log: log}
}

// All devuelve todos los catálogos.
func (uc *UseCase) All(ctx context.Context) (*dto.CatalogsResponse, error) {
	c, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CatalogsResponse{
		Areas:             toItems(c.Areas),
		Severidades:       toItems(c.Severities),
		Estados:           toItems(c.ReportStates),
		Cargos:            toItems(c.Roles),
		EstadosTrabajador: toItems(c.EmploymentStatuses),
	}, nil
}

// Areas catálogo de áreas.
func (uc *UseCase) Areas(ctx context.Context) ([]dto.CatalogItem, error) {
	return uc.pick(ctx, func(c *entity.Catalogs) []entity.CatalogItem { return c.Areas })
}

// Severities catálogo de severidades.
func (uc *UseCase) Severities(ctx context.Context) ([]dto.CatalogItem, error) {
	return uc.pick(ctx, func(c *entity.Catalogs) []entity.CatalogItem { return c.Severities })
}

// ReportStates catálogo de estados de reporte.
func (uc *UseCase) ReportStates(ctx context.Context) ([]dto.CatalogItem, error) {
	return uc.pick(ctx, func(c *entity.Catalogs) []entity.CatalogItem { return c.ReportStates })
}

func (uc *UseCase) pick(ctx context.Context, f func(*entity.Catalogs) []entity.CatalogItem) ([]dto.CatalogItem, error) {
	c, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(f(c)), nil
}

func (uc *UseCase) load(ctx context.Context) (*entity.Catalogs, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx)
		switch {
		case err != nil:
			uc.metrics.CacheResult("error")
			uc.log.Warn().Err(err).Msg("catálogos: lectura de caché fallida, se consulta la base")
		case cached != nil:
			uc.metrics.CacheResult("hit")
			return cached, nil
		default:
			uc.metrics.CacheResult("miss")
		}
	}

	c, err := uc.fromRepo(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, c); err != nil {
			uc.log.Warn().Err(err).Msg("catálogos: no se pudo escribir el caché")
		}
	}
	return c, nil
}

func (uc *UseCase) fromRepo(ctx context.Context) (*entity.Catalogs, error) {
	var (
		c   entity.Catalogs
		err error
	)
	if c.Areas, err = uc.repo.ListAreas(ctx); err != nil {
		return nil, fmt.Errorf("catálogos: áreas: %w", err)
	}
	if c.Severities, err = uc.repo.ListSeverities(ctx); err != nil {
		return nil, fmt.Errorf("catálogos: severidades: %w", err)
	}
	if c.ReportStates, err = uc.repo.ListReportStates(ctx); err != nil {
		return nil, fmt.Errorf("catálogos: estados: %w", err)
	}
	if c.Roles, err = uc.repo.ListRoles(ctx); err != nil {
		return nil, fmt.Errorf("catálogos: cargos: %w", err)
	}
	if c.EmploymentStatuses, err = uc.repo.ListEmploymentStatuses(ctx); err != nil {
		return nil, fmt.Errorf("catálogos: estados de trabajador: %w", err)
	}
	return &c, nil
}

func toItems(items []entity.CatalogItem) []dto.CatalogItem {
	out := make([]dto.CatalogItem, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CatalogItem{ID: it.ID, Nombre: it.Name})
	}
	return out
}
