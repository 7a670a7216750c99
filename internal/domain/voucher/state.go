// Package voucher contiene las reglas de dominio del flujo de vouchers:
// la máquina de estados pending → {approved, rejected} y la normalización
// del payload de referencia al documento (url_data).
package voucher

import (
	"fmt"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// IsTerminal indica si el estado ya no admite transiciones.
func IsTerminal(status string) bool {
	return status == entity.VoucherStatusApproved || status == entity.VoucherStatusRejected
}

// CanTransition solo permite pending → approved y pending → rejected.
func CanTransition(from, to string) bool {
	if from != entity.VoucherStatusPending {
		return false
	}
	return to == entity.VoucherStatusApproved || to == entity.VoucherStatusRejected
}

// ParseDecision valida el estado solicitado por el VO. Debe ser exactamente "approved" o "rejected".
func ParseDecision(raw string) (string, error) {
	switch raw {
	case entity.VoucherStatusApproved, entity.VoucherStatusRejected:
		return raw, nil
	}
	return "", fmt.Errorf("%w: status debe ser approved o rejected", domain.ErrInvalidInput)
}
