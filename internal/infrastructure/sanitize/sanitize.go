// Package sanitize limpia texto libre del usuario antes de guardarlo.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxRunes largo máximo de un comentario.
const DefaultMaxRunes = 1000

// Sanitizer normaliza a NFKC, elimina caracteres de control, escapa HTML y recorta el largo.
// Las consultas SQL son siempre parametrizadas; aquí solo se evita que el texto se renderice como markup.
type Sanitizer struct {
	MaxRunes int
}

// New construye un Sanitizer con el largo por defecto.
func New() *Sanitizer {
	return &Sanitizer{MaxRunes: DefaultMaxRunes}
}

// Sanitize devuelve el texto limpio.
func (s *Sanitizer) Sanitize(in string) string {
	text := norm.NFKC.String(in)

	var b strings.Builder
	b.Grow(len(text))
	count := 0
	for _, r := range text {
		if s.MaxRunes > 0 && count >= s.MaxRunes {
			break
		}
		if r == unicode.ReplacementChar {
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
		count++
	}
	return html.EscapeString(strings.TrimSpace(b.String()))
}
