package dto

// DashboardSummaryResponse respuesta de GET /api/reportes/resumen.
// Alimenta los filtros por estado del panel del administrador.
type DashboardSummaryResponse struct {
	Total        int         `json:"total"`
	Hoy          int         `json:"hoy"` // creados hoy (00:00 – 23:59, hora del servidor)
	Mes          int         `json:"mes"` // creados desde el día 1 del mes en curso
	PorEstado    []CountItem `json:"por_estado"`
	PorSeveridad []CountItem `json:"por_severidad"`
	PorArea      []CountItem `json:"por_area"`
	Periodo      string      `json:"periodo"` // ej: "Octubre 2026"
}

// CountItem cantidad de reportes de un elemento de catálogo.
type CountItem struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}
