package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sigra-api/internal/application/catalog"
	"github.com/jhoicas/sigra-api/internal/domain/entity"
)

var _ catalog.Cache = (*CatalogCache)(nil)

// catalogKey versionado: cambiar el sufijo invalida el caché tras un cambio de formato.
const catalogKey = "sigra:catalogs:v1"

// CatalogCache guarda todos los catálogos como un único JSON con TTL.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache construye el caché. ttl <= 0 deja la clave sin expiración.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Get devuelve (nil, nil) si la clave no existe o expiró.
func (c *CatalogCache) Get(ctx context.Context) (*entity.Catalogs, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog cache get: %w", err)
	}
	var out entity.Catalogs
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("catalog cache decode: %w", err)
	}
	return &out, nil
}

// Set reemplaza la entrada completa.
func (c *CatalogCache) Set(ctx context.Context, v *entity.Catalogs) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, catalogKey, raw, ttl).Err()
}
