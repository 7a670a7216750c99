package voucher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
)

// DownloadURLKey campo obligatorio del payload de documento.
const DownloadURLKey = "downloadURL"

// NormalizeDocument convierte el url_data recibido (objeto JSON o string) a su forma canónica serializada.
//   - objeto JSON: se valida que downloadURL sea un string no vacío.
//   - string con JSON de objeto dentro: se decodifica y se valida igual.
//   - cualquier otro string: se envuelve como {"downloadURL": <string>}.
//
// Todo payload guardado queda bien formado; la normalización ocurre una sola vez, al ingreso.
func NormalizeDocument(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", fmt.Errorf("%w: url_data es requerido", domain.ErrInvalidInput)
	}

	var doc map[string]any
	switch trimmed[0] {
	case '{':
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return "", fmt.Errorf("%w: url_data no es JSON válido", domain.ErrInvalidInput)
		}
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: url_data no es JSON válido", domain.ErrInvalidInput)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("%w: url_data es requerido", domain.ErrInvalidInput)
		}
		if err := json.Unmarshal([]byte(s), &doc); err != nil || doc == nil {
			doc = map[string]any{DownloadURLKey: s}
		}
	default:
		return "", fmt.Errorf("%w: url_data debe ser un objeto o una URL", domain.ErrInvalidInput)
	}

	url, ok := doc[DownloadURLKey].(string)
	if !ok || strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: url_data.downloadURL es requerido", domain.ErrInvalidInput)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serializar url_data: %w", err)
	}
	return string(out), nil
}

// DecodeStored devuelve el payload guardado en forma estructurada.
// Si lo guardado no es un objeto JSON válido se devuelve el string crudo sin error.
func DecodeStored(stored string) any {
	var doc map[string]any
	if err := json.Unmarshal([]byte(stored), &doc); err != nil || doc == nil {
		return stored
	}
	return doc
}
