package dto

// CatalogItem elemento de catálogo.
type CatalogItem struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}

// CatalogsResponse todos los catálogos para precargar el caché offline de la app.
type CatalogsResponse struct {
	Areas             []CatalogItem `json:"areas"`
	Severidades       []CatalogItem `json:"severidades"`
	Estados           []CatalogItem `json:"estados"`
	Cargos            []CatalogItem `json:"cargos"`
	EstadosTrabajador []CatalogItem `json:"estados_trabajador"`
}
