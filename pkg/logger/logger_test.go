package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("desconocido"))
}

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "info")

	lg := l.Component("voucher")
	lg.Info().Msg("hola")
	l.Debug().Msg("filtrado por nivel")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "debe haber exactamente una línea JSON")
	assert.Equal(t, "voucher", entry["component"])
	assert.Equal(t, "hola", entry["message"])
}

func TestNew_EscribeEnArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	l := New(Config{Env: "production", Level: "info", File: path})

	l.Info().Str("k", "v").Msg("a archivo")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}
