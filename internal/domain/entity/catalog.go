package entity

// CatalogItem elemento de un catálogo de referencia (id + nombre).
type CatalogItem struct {
	ID   int
	Name string
}

// Catalogs agrupa todos los catálogos de solo lectura.
type Catalogs struct {
	Areas              []CatalogItem
	Severities         []CatalogItem
	ReportStates       []CatalogItem
	Roles              []CatalogItem
	EmploymentStatuses []CatalogItem
}

// StateTransition arista permitida del grafo de estados de reporte.
type StateTransition struct {
	ID        int
	FromState int
	ToState   int
}
