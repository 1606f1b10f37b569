package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrWorkerNotFound      = errors.New("trabajador no encontrado")
	ErrReportNotFound      = errors.New("reporte no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidReference    = errors.New("referencia a catálogo o trabajador inexistente")
	ErrInvalidCredentials  = errors.New("RUT o contraseña incorrectos")
	ErrAccountInactive     = errors.New("el trabajador no está activo")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInvalidToken        = errors.New("token inválido o expirado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrDuplicateRUT        = errors.New("ya existe un trabajador con este RUT")
	ErrDuplicateClientUUID = errors.New("ya existe un reporte con este UUID, posiblemente ya fue sincronizado")
	ErrIllegalTransition   = errors.New("transición de estado no permitida")
)

// IsConflict agrupa los errores de unicidad (RUT y UUID de cliente).
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicateRUT) || errors.Is(err, ErrDuplicateClientUUID)
}
