package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo implementación de VoucherRepository sobre PostgreSQL (usable con pool o tx).
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador de vouchers.
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

const voucherColumns = `id, deo_id, vo_id, status, comment, url_data, created_at, updated_at`

// Create inserta un voucher.
func (r *VoucherRepo) Create(ctx context.Context, v *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, v.ID, v.DEOID, v.VOID, v.Status, v.Comment, v.URLData, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert voucher: %w", err)
	}
	return nil
}

// GetByID obtiene un voucher. nil si no existe.
func (r *VoucherRepo) GetByID(ctx context.Context, id string) (*entity.Voucher, error) {
	return r.get(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id)
}

// GetForUpdate obtiene el voucher y bloquea la fila (SELECT FOR UPDATE).
func (r *VoucherRepo) GetForUpdate(ctx context.Context, id string) (*entity.Voucher, error) {
	return r.get(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1 FOR UPDATE`, id)
}

func (r *VoucherRepo) get(ctx context.Context, query, id string) (*entity.Voucher, error) {
	v, err := scanVoucher(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// UpdateDecision guarda estado y comentario. Solo aplica sobre vouchers pending.
func (r *VoucherRepo) UpdateDecision(ctx context.Context, v *entity.Voucher) error {
	query := `
		UPDATE vouchers
		SET status = $2, comment = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(ctx, query, v.ID, v.Status, v.Comment, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update voucher decision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListByDEO lista los vouchers creados por el DEO, más recientes primero.
func (r *VoucherRepo) ListByDEO(ctx context.Context, deoID string, filter entity.VoucherFilter) ([]*entity.Voucher, error) {
	return r.list(ctx, "deo_id", deoID, filter)
}

// ListByVO lista los vouchers asignados al VO, más recientes primero.
func (r *VoucherRepo) ListByVO(ctx context.Context, voID string, filter entity.VoucherFilter) ([]*entity.Voucher, error) {
	return r.list(ctx, "vo_id", voID, filter)
}

// list filtra por la columna de dueño (constante interna, nunca input del cliente) y año/mes opcionales.
func (r *VoucherRepo) list(ctx context.Context, ownerColumn, ownerID string, filter entity.VoucherFilter) ([]*entity.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE ` + ownerColumn + ` = $1
		  AND ($2::int IS NULL OR EXTRACT(YEAR FROM created_at)::int = $2)
		  AND ($3::int IS NULL OR EXTRACT(MONTH FROM created_at)::int = $3)
		ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, ownerID, filter.Year, filter.Month)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	err := row.Scan(&v.ID, &v.DEOID, &v.VOID, &v.Status, &v.Comment, &v.URLData, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
