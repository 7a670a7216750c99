package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexBool acepta true/false, "yes"/"no", "true"/"false", "1"/"0" y 1/0.
// Los formularios del cliente envían has_supporter y active como "yes"/"no".
type FlexBool bool

// UnmarshalJSON implementa json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		*b = FlexBool(v)
	case float64:
		*b = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1", "on":
			*b = true
		case "no", "false", "0", "off", "":
			*b = false
		default:
			return fmt.Errorf("valor booleano inválido: %q", v)
		}
	default:
		return fmt.Errorf("valor booleano inválido: %s", string(data))
	}
	return nil
}

// Bool devuelve el valor como bool.
func (b FlexBool) Bool() bool { return bool(b) }
