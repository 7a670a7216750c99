package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
	voucherrules "github.com/jhoicas/nutrition-program-api/internal/domain/voucher"
)

// WorkflowUseCase casos de uso del flujo DEO → VO de vouchers.
type WorkflowUseCase struct {
	txRunner    TxRunner
	voucherRepo repository.VoucherRepository
	sanitizer   CommentSanitizer
	metrics     WorkflowRecorder
	log         zerolog.Logger
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(
	txRunner TxRunner,
	voucherRepo repository.VoucherRepository,
	sanitizer CommentSanitizer,
	metrics WorkflowRecorder,
	log zerolog.Logger,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner:    txRunner,
		voucherRepo: voucherRepo,
		sanitizer:   sanitizer,
		metrics:     metrics,
		log:         log,
	}
}

// Create registra un voucher pending del DEO y lo asigna al VO activo.
// Sin VO activo devuelve ErrPreconditionFailed y no escribe nada.
func (uc *WorkflowUseCase) Create(ctx context.Context, caller entity.Identity, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	urlData, err := voucherrules.NormalizeDocument(in.URLData)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	v := &entity.Voucher{
		ID:        uuid.New().String(),
		DEOID:     caller.UserID,
		Status:    entity.VoucherStatusPending,
		Comment:   uc.cleanComment(in.Comment),
		URLData:   urlData,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunVoucher(ctx, func(voucherRepo repository.VoucherRepository, userRepo repository.UserRepository) error {
		officers, err := userRepo.ActiveVerificationOfficers(ctx)
		if err != nil {
			return err
		}
		if len(officers) == 0 {
			return domain.ErrPreconditionFailed
		}
		if len(officers) > 1 {
			uc.metrics.IncActiveVOAmbiguity()
			uc.log.Warn().
				Int("active_vo_count", len(officers)).
				Str("assigned_vo", officers[0].ID).
				Msg("más de un Verification Officer activo; se asigna el primero")
		}
		v.VOID = officers[0].ID
		return voucherRepo.Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncVoucherCreated()
	return toVoucherResponse(v), nil
}

// List devuelve los vouchers visibles para el llamante, más recientes primero:
// el DEO ve los que creó y el VO los que tiene asignados.
func (uc *WorkflowUseCase) List(ctx context.Context, caller entity.Identity, filter entity.VoucherFilter) ([]*dto.VoucherResponse, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		list []*entity.Voucher
		err  error
	)
	switch caller.Role {
	case entity.RoleDEO:
		list, err = uc.voucherRepo.ListByDEO(ctx, caller.UserID, filter)
	case entity.RoleVO:
		list, err = uc.voucherRepo.ListByVO(ctx, caller.UserID, filter)
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	out := make([]*dto.VoucherResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVoucherResponse(v))
	}
	return out, nil
}

// Get obtiene un voucher. Solo su DEO creador o su VO asignado pueden leerlo; cualquier otro recibe ErrForbidden.
func (uc *WorkflowUseCase) Get(ctx context.Context, caller entity.Identity, id string) (*dto.VoucherResponse, error) {
	if !caller.Is(entity.RoleDEO) && !caller.Is(entity.RoleVO) {
		return nil, domain.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	v, err := uc.voucherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if !canRead(caller, v) {
		return nil, domain.ErrForbidden
	}
	return toVoucherResponse(v), nil
}

// Verify aplica la decisión del VO asignado: pending → approved | rejected.
//   - status distinto de approved/rejected → ErrInvalidInput
//   - voucher inexistente o asignado a otro VO → ErrNotFound
//   - voucher ya decidido → ErrConflict
func (uc *WorkflowUseCase) Verify(ctx context.Context, caller entity.Identity, id string, in dto.VerifyVoucherRequest) (*dto.VoucherResponse, error) {
	if !caller.Is(entity.RoleVO) {
		return nil, domain.ErrForbidden
	}
	status, err := voucherrules.ParseDecision(in.Status)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	comment := uc.cleanComment(in.Comment)

	var updated *entity.Voucher
	err = uc.txRunner.RunVoucher(ctx, func(voucherRepo repository.VoucherRepository, _ repository.UserRepository) error {
		v, err := voucherRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil || v.VOID != caller.UserID {
			return domain.ErrNotFound
		}
		if voucherrules.IsTerminal(v.Status) {
			return fmt.Errorf("%w: el voucher ya está %s", domain.ErrConflict, v.Status)
		}
		if !voucherrules.CanTransition(v.Status, status) {
			return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, v.Status, status)
		}
		v.Status = status
		// sin comentario del VO se conserva el del DEO
		if comment != nil {
			v.Comment = comment
		}
		v.UpdatedAt = time.Now()
		if err := voucherRepo.UpdateDecision(ctx, v); err != nil {
			return err
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.IncVoucherDecision(status)
	uc.log.Info().
		Str("voucher_id", updated.ID).
		Str("vo_id", caller.UserID).
		Str("status", status).
		Msg("voucher decidido")
	return toVoucherResponse(updated), nil
}

func (uc *WorkflowUseCase) cleanComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	clean := strings.TrimSpace(uc.sanitizer.Sanitize(*comment))
	if clean == "" {
		return nil
	}
	return &clean
}

func canRead(caller entity.Identity, v *entity.Voucher) bool {
	switch caller.Role {
	case entity.RoleDEO:
		return v.DEOID == caller.UserID
	case entity.RoleVO:
		return v.VOID == caller.UserID
	}
	return false
}

func validateFilter(f entity.VoucherFilter) error {
	if f.Year != nil && (*f.Year < 1 || *f.Year > 9999) {
		return fmt.Errorf("%w: year fuera de rango", domain.ErrInvalidInput)
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		return fmt.Errorf("%w: month debe estar entre 1 y 12", domain.ErrInvalidInput)
	}
	return nil
}

func toVoucherResponse(v *entity.Voucher) *dto.VoucherResponse {
	return &dto.VoucherResponse{
		ID:        v.ID,
		DEOID:     v.DEOID,
		VOID:      v.VOID,
		Status:    v.Status,
		Comment:   v.Comment,
		URLData:   voucherrules.DecodeStored(v.URLData),
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
