package repository

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// VoucherRepository define el puerto de persistencia para Voucher.
type VoucherRepository interface {
	Create(ctx context.Context, voucher *entity.Voucher) error
	GetByID(ctx context.Context, id string) (*entity.Voucher, error)
	// GetForUpdate bloquea la fila del voucher (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Voucher, error)
	// UpdateDecision guarda estado y comentario del VO.
	UpdateDecision(ctx context.Context, voucher *entity.Voucher) error
	ListByDEO(ctx context.Context, deoID string, filter entity.VoucherFilter) ([]*entity.Voucher, error)
	ListByVO(ctx context.Context, voID string, filter entity.VoucherFilter) ([]*entity.Voucher, error)
}
