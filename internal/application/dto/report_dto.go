package dto

import "time"

// CreateReportRequest entrada para enviar un reporte desde la app (online u offline).
// RUT solo puede indicarlo un administrador que reporta en nombre de otro trabajador.
type CreateReportRequest struct {
	Titulo               string  `json:"titulo" validate:"required,min=1,max=255"`
	Descripcion          *string `json:"descripcion"`
	FechaReporte         string  `json:"fecha_reporte" validate:"required,datetime=2006-01-02"`
	UUIDCliente          string  `json:"uuid_cliente" validate:"required,max=36"`
	PeticionIdempotencia *string `json:"peticion_idempotencia" validate:"omitempty,max=255"`
	IDSeveridad          int     `json:"id_severidad" validate:"required,gt=0"`
	IDArea               int     `json:"id_area" validate:"required,gt=0"`
	IDEstadoActual       *int    `json:"id_estado_actual" validate:"omitempty,gt=0"`
	RUT                  *int64  `json:"rut" validate:"omitempty,gt=0"`
}

// CreateReportResponse salida del envío.
type CreateReportResponse struct {
	IDReporte int64  `json:"id_reporte"`
	Mensaje   string `json:"mensaje"`
}

// ReportResponse reporte con nombres de catálogo resueltos.
type ReportResponse struct {
	IDReporte        int64      `json:"id_reporte"`
	Titulo           string     `json:"titulo"`
	Descripcion      *string    `json:"descripcion,omitempty"`
	FechaReporte     string     `json:"fecha_reporte"`
	UUIDCliente      string     `json:"uuid_cliente"`
	HoraCreado       time.Time  `json:"hora_creado"`
	HoraSincronizado *time.Time `json:"hora_sincronizado,omitempty"`
	HoraActualizado  time.Time  `json:"hora_actualizado"`
	RUT              *int64     `json:"rut,omitempty"`
	NombreTrabajador string     `json:"nombre_trabajador,omitempty"`
	IDSeveridad      int        `json:"id_severidad"`
	Severidad        string     `json:"severidad"`
	IDArea           int        `json:"id_area"`
	Area             string     `json:"area"`
	IDEstadoActual   int        `json:"id_estado_actual"`
	Estado           string     `json:"estado"`
}

// ReportListResponse listado de reportes.
type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
	Total int              `json:"total"`
}

// TransitionRequest entrada para cambiar el estado de un reporte.
type TransitionRequest struct {
	NuevoEstadoID int     `json:"nuevo_estado_id" validate:"required,gt=0"`
	Detalle       *string `json:"detalle" validate:"omitempty,max=2000"`
}

// TransitionResponse confirmación del cambio de estado.
type TransitionResponse struct {
	IDReporte      int64     `json:"id_reporte"`
	EstadoAnterior int       `json:"estado_anterior"`
	IDEstadoActual int       `json:"id_estado_actual"`
	IDBitacora     int64     `json:"id_bitacora"`
	Actualizado    time.Time `json:"hora_actualizado"`
	Mensaje        string    `json:"mensaje"`
}

// AuditEntryResponse fila de la bitácora.
type AuditEntryResponse struct {
	IDBitacora          int64     `json:"id_bitacora"`
	IDReporte           int64     `json:"id_reporte"`
	IDEstadoActual      int       `json:"id_estado_actual"`
	Estado              string    `json:"estado,omitempty"`
	RUT                 int64     `json:"rut"`
	NombreAdministrador string    `json:"nombre_administrador"`
	Detalle             *string   `json:"detalle,omitempty"`
	Fecha               time.Time `json:"actualizacion_fecha"`
}

// AllowedTransitionsResponse estados alcanzables desde el estado actual.
type AllowedTransitionsResponse struct {
	IDReporte      int64         `json:"id_reporte"`
	IDEstadoActual int           `json:"id_estado_actual"`
	Siguientes     []CatalogItem `json:"siguientes"`
}
