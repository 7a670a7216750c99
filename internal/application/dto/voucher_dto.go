package dto

import (
	"encoding/json"
	"time"
)

// CreateVoucherRequest entrada del DEO. URLData puede ser objeto JSON o string (URL o JSON serializado).
type CreateVoucherRequest struct {
	URLData json.RawMessage `json:"url_data"`
	Comment *string         `json:"comment,omitempty"`
}

// VerifyVoucherRequest decisión del VO.
type VerifyVoucherRequest struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment,omitempty"`
}

// VoucherResponse voucher con url_data ya deserializado (o crudo si lo guardado está mal formado).
type VoucherResponse struct {
	ID        string      `json:"id"`
	DEOID     string      `json:"deo_id"`
	VOID      string      `json:"vo_id"`
	Status    string      `json:"status"`
	Comment   *string     `json:"comment"`
	URLData   interface{} `json:"url_data"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
