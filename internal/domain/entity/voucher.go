package entity

import "time"

// Estados del voucher. pending es el inicial; approved y rejected son terminales.
const (
	VoucherStatusPending  = "pending"
	VoucherStatusApproved = "approved"
	VoucherStatusRejected = "rejected"
)

// Voucher comprobante de gasto enviado por un DEO al VO activo para su verificación.
type Voucher struct {
	ID        string
	DEOID     string
	VOID      string
	Status    string
	Comment   *string
	URLData   string // JSON serializado con al menos downloadURL
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VoucherFilter filtros opcionales por año y mes de creación (independientes entre sí).
type VoucherFilter struct {
	Year  *int
	Month *int
}
