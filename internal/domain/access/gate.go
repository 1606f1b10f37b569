// Package access es la compuerta de autorización: decide si un trabajador puede
// ejecutar operaciones privilegiadas o leer un reporte.
package access

import (
	"github.com/jhoicas/sigra-api/internal/domain"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

// CanAdminister es verdadero solo para el cargo administrador.
func CanAdminister(w *entity.Worker) bool {
	return w != nil && w.RoleID == entity.RoleAdministrator
}

// RequireAdmin devuelve domain.ErrForbidden si el trabajador no es administrador.
func RequireAdmin(w *entity.Worker) error {
	if !CanAdminister(w) {
		return domain.ErrForbidden
	}
	return nil
}

// CanView informa si el trabajador puede leer el reporte: administradores o el autor.
func CanView(w *entity.Worker, r *entity.Report) bool {
	if w == nil || r == nil {
		return false
	}
	return CanAdminister(w) || r.IsOwnedBy(w.RUT)
}
