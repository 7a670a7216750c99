package voucher

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

// TxRunner ejecuta la resolución del VO y la escritura del voucher en una sola transacción.
type TxRunner interface {
	RunVoucher(ctx context.Context, fn func(
		voucherRepo repository.VoucherRepository,
		userRepo repository.UserRepository,
	) error) error
}

// WorkflowRecorder contadores del flujo de vouchers.
type WorkflowRecorder interface {
	IncVoucherCreated()
	IncVoucherDecision(status string)
	IncActiveVOAmbiguity()
}

// CommentSanitizer limpia el comentario del VO antes de guardarlo.
type CommentSanitizer interface {
	Sanitize(comment string) string
}
