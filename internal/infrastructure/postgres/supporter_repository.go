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

var _ repository.SupporterRepository = (*SupporterRepo)(nil)

// SupporterRepo implementación de SupporterRepository sobre PostgreSQL (usable con pool o tx).
type SupporterRepo struct {
	q Querier
}

// NewSupporterRepository construye el adaptador de supporters.
func NewSupporterRepository(q Querier) *SupporterRepo {
	return &SupporterRepo{q: q}
}

// Create inserta el supporter de un contratista.
func (r *SupporterRepo) Create(ctx context.Context, s *entity.Supporter) error {
	query := `
		INSERT INTO supporters (id, contractor_id, nic_number, name, contact_number, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ContractorID, s.NICNumber, s.Name, s.ContactNumber, s.Address, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return supporterWriteError("insert supporter", err)
	}
	return nil
}

// Update actualiza el supporter en sitio.
func (r *SupporterRepo) Update(ctx context.Context, s *entity.Supporter) error {
	query := `
		UPDATE supporters
		SET nic_number = $2, name = $3, contact_number = $4, address = $5, active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, s.NICNumber, s.Name, s.ContactNumber, s.Address, s.Active, s.UpdatedAt)
	if err != nil {
		return supporterWriteError("update supporter", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByContractor elimina el supporter del contratista (no-op si no tiene).
func (r *SupporterRepo) DeleteByContractor(ctx context.Context, contractorID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM supporters WHERE contractor_id = $1`, contractorID); err != nil {
		return fmt.Errorf("delete supporter: %w", err)
	}
	return nil
}

// GetByContractor obtiene el supporter del contratista y bloquea la fila. nil si no tiene.
func (r *SupporterRepo) GetByContractor(ctx context.Context, contractorID string) (*entity.Supporter, error) {
	query := `
		SELECT id, contractor_id, nic_number, name, contact_number, address, active, created_at, updated_at
		FROM supporters WHERE contractor_id = $1
		FOR UPDATE`
	var s entity.Supporter
	err := r.q.QueryRow(ctx, query, contractorID).Scan(
		&s.ID, &s.ContractorID, &s.NICNumber, &s.Name, &s.ContactNumber, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supporter: %w", err)
	}
	return &s, nil
}

func supporterWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case constraintSupporterContractor:
			return fmt.Errorf("%w: el contratista ya tiene un supporter", domain.ErrDuplicate)
		default:
			return fmt.Errorf("%w: ya existe un supporter con ese NIC", domain.ErrDuplicate)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
