package entity

import "time"

// ReportStateOpen estado inicial de un reporte cuando el cliente no indica otro.
const ReportStateOpen = 1

// Report es un reporte de incidente de seguridad.
// Solo StateID y UpdatedAt cambian después de creado, y únicamente vía cambio de estado.
type Report struct {
	ID             int64
	Title          string
	Description    *string
	ReportDate     time.Time
	ClientUUID     string
	CreatedAt      time.Time
	SyncedAt       *time.Time
	UpdatedAt      time.Time
	IdempotencyKey *string
	OwnerRUT       *int64
	SeverityID     int
	AreaID         int
	StateID        int
}

// IsOwnedBy informa si el reporte pertenece al RUT indicado.
func (r *Report) IsOwnedBy(rut int64) bool {
	return r.OwnerRUT != nil && *r.OwnerRUT == rut
}

// ReportView es un reporte con los nombres de catálogo y del autor resueltos por join.
type ReportView struct {
	Report
	AreaName     string
	SeverityName string
	StateName    string
	OwnerName    string
}
