package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/nutrition-program-api/internal/infrastructure/sanitize"
)

func TestSanitize(t *testing.T) {
	s := sanitize.New()

	cases := map[string]struct {
		in, want string
	}{
		"texto normal":       {"Aprobado sin observaciones", "Aprobado sin observaciones"},
		"script":             {`<script>alert("x")</script>`, "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;"},
		"comillas simples":   {"' OR 1=1 --", "&#39; OR 1=1 --"},
		"caracteres control": {"ok\x00\x07 listo", "ok listo"},
		"saltos de línea":    {"línea 1\nlínea 2", "línea 1\nlínea 2"},
		"ancho completo":     {"ＡＢＣ１２３", "ABC123"},
		"espacios extremos":  {"   hola   ", "hola"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Sanitize(tc.in))
		})
	}
}

func TestSanitize_RecortaLargo(t *testing.T) {
	s := &sanitize.Sanitizer{MaxRunes: 5}
	assert.Equal(t, "ñandú", s.Sanitize("ñandú largo"))

	long := strings.Repeat("a", 5000)
	assert.Len(t, sanitize.New().Sanitize(long), sanitize.DefaultMaxRunes)
}
