package entity

import "time"

// AuditEntry es una fila de la bitácora de un reporte: un cambio de estado.
// Es inmutable; AdminName guarda el nombre del administrador al momento del cambio.
type AuditEntry struct {
	ID        int64
	ReportID  int64
	StateID   int
	StateName string // resuelto por join al listar
	AdminRUT  int64
	AdminName string
	Detail    *string
	CreatedAt time.Time
}
