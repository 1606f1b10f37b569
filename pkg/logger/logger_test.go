package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "nivel %q", in)
	}
}

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "sigra-api", Out: &buf})

	log.Debug().Msg("no se escribe")
	log.Component("catalog").Warn().Msg("redis caído")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "sigra-api", line["service"])
	assert.Equal(t, "catalog", line["component"])
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "redis caído", line["message"])
}

func TestNewWithWriter_SinServicio(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "debug").Debug().Msg("hola")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "service")
	assert.Equal(t, "debug", line["level"])
}
