package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsYVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 1440, cfg.JWT.Expiration)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 20, cfg.HTTP.LoginRateLimit)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogCacheTTL)
	assert.Equal(t, "reportes_mineria", cfg.DB.DBName)
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_EnteroInvalidoUsaDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("HTTP_PORT", "ochenta")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "sigra", Password: "p@ss/word", DBName: "reportes", SSLMode: "disable"}
	assert.Equal(t, "postgres://sigra:p%40ss%2Fword@db:5432/reportes?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestValidate_ExpiracionPositiva(t *testing.T) {
	c := &Config{JWT: JWTConfig{Secret: "x", Expiration: 0}}
	assert.Error(t, c.Validate())
}
