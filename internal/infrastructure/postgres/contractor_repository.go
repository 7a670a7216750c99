package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

var _ repository.ContractorRepository = (*ContractorRepo)(nil)

// ContractorRepo implementación de ContractorRepository sobre PostgreSQL (usable con pool o tx).
type ContractorRepo struct {
	q Querier
}

// NewContractorRepository construye el adaptador de contratistas. Pasar pool o tx (Querier).
func NewContractorRepository(q Querier) *ContractorRepo {
	return &ContractorRepo{q: q}
}

// Vista unida contratista + supporter; has_supporter se deriva del join.
const contractorViewSelect = `
	SELECT c.id, c.nic_number, c.full_name, c.contact_number, c.address, c.agreement_number,
	       c.agreement_start_date, c.agreement_end_date, c.active, c.created_at, c.updated_at,
	       s.id IS NOT NULL AS has_supporter,
	       s.id, s.nic_number, s.name, s.contact_number, s.address, s.active, s.created_at, s.updated_at
	FROM contractors c
	LEFT JOIN supporters s ON s.contractor_id = c.id`

// Create inserta un contratista.
func (r *ContractorRepo) Create(ctx context.Context, c *entity.Contractor) error {
	query := `
		INSERT INTO contractors (id, nic_number, full_name, contact_number, address, agreement_number,
		                         agreement_start_date, agreement_end_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.NICNumber, c.FullName, c.ContactNumber, c.Address, c.AgreementNumber,
		c.AgreementStartDate, c.AgreementEndDate, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return contractorWriteError("insert contractor", err)
	}
	return nil
}

// Update reemplaza los campos mutables. El NIC es inmutable.
func (r *ContractorRepo) Update(ctx context.Context, c *entity.Contractor) error {
	query := `
		UPDATE contractors
		SET full_name = $2, contact_number = $3, address = $4, agreement_number = $5,
		    agreement_start_date = $6, agreement_end_date = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.FullName, c.ContactNumber, c.Address, c.AgreementNumber,
		c.AgreementStartDate, c.AgreementEndDate, c.Active, c.UpdatedAt,
	)
	if err != nil {
		return contractorWriteError("update contractor", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el contratista. El supporter debe eliminarse antes.
func (r *ContractorRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contractors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contractor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByNIC obtiene la vista unida por NIC. nil si no existe.
func (r *ContractorRepo) GetByNIC(ctx context.Context, nic string) (*entity.ContractorView, error) {
	v, err := scanContractorView(r.q.QueryRow(ctx, contractorViewSelect+` WHERE c.nic_number = $1`, nic))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contractor by nic: %w", err)
	}
	return v, nil
}

// GetByNICForUpdate obtiene el contratista y bloquea la fila (SELECT FOR UPDATE).
func (r *ContractorRepo) GetByNICForUpdate(ctx context.Context, nic string) (*entity.Contractor, error) {
	query := `
		SELECT id, nic_number, full_name, contact_number, address, agreement_number,
		       agreement_start_date, agreement_end_date, active, created_at, updated_at
		FROM contractors WHERE nic_number = $1
		FOR UPDATE`
	var c entity.Contractor
	err := r.q.QueryRow(ctx, query, nic).Scan(
		&c.ID, &c.NICNumber, &c.FullName, &c.ContactNumber, &c.Address, &c.AgreementNumber,
		&c.AgreementStartDate, &c.AgreementEndDate, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contractor for update: %w", err)
	}
	return &c, nil
}

// GetActive obtiene el contratista activo. nil si no hay ninguno.
func (r *ContractorRepo) GetActive(ctx context.Context) (*entity.ContractorView, error) {
	v, err := scanContractorView(r.q.QueryRow(ctx, contractorViewSelect+` WHERE c.active LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active contractor: %w", err)
	}
	return v, nil
}

// FindOtherActive devuelve el contratista activo con NIC distinto de excludeNIC. nil si no hay.
func (r *ContractorRepo) FindOtherActive(ctx context.Context, excludeNIC string) (*domain.ContractorRef, error) {
	query := `
		SELECT id, nic_number, full_name
		FROM contractors
		WHERE active AND nic_number <> $1
		LIMIT 1`
	var ref domain.ContractorRef
	err := r.q.QueryRow(ctx, query, excludeNIC).Scan(&ref.ID, &ref.NICNumber, &ref.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find other active contractor: %w", err)
	}
	return &ref, nil
}

// List lista todos los contratistas con su supporter, más recientes primero.
func (r *ContractorRepo) List(ctx context.Context) ([]*entity.ContractorView, error) {
	rows, err := r.q.Query(ctx, contractorViewSelect+` ORDER BY c.created_at DESC, c.id`)
	if err != nil {
		return nil, fmt.Errorf("list contractors: %w", err)
	}
	defer rows.Close()

	var list []*entity.ContractorView
	for rows.Next() {
		v, err := scanContractorView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// supporterColumns columnas anulables del LEFT JOIN.
type supporterColumns struct {
	id, nic, name, contact, address *string
	active                          *bool
	createdAt, updatedAt            *time.Time
}

func scanContractorView(row pgx.Row) (*entity.ContractorView, error) {
	var (
		v entity.ContractorView
		s supporterColumns
	)
	err := row.Scan(
		&v.ID, &v.NICNumber, &v.FullName, &v.ContactNumber, &v.Address, &v.AgreementNumber,
		&v.AgreementStartDate, &v.AgreementEndDate, &v.Active, &v.CreatedAt, &v.UpdatedAt,
		&v.HasSupporter,
		&s.id, &s.nic, &s.name, &s.contact, &s.address, &s.active, &s.createdAt, &s.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if v.HasSupporter && s.id != nil {
		v.Supporter = &entity.Supporter{
			ID:            *s.id,
			ContractorID:  v.ID,
			NICNumber:     deref(s.nic),
			Name:          deref(s.name),
			ContactNumber: deref(s.contact),
			Address:       deref(s.address),
			Active:        s.active != nil && *s.active,
			CreatedAt:     derefTime(s.createdAt),
			UpdatedAt:     derefTime(s.updatedAt),
		}
	}
	return &v, nil
}

// contractorWriteError traduce violaciones de unicidad a errores de dominio.
// El índice de activo único se devuelve como conflicto sin datos; el caso de uso
// completa el contratista ganador fuera de la transacción abortada.
func contractorWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case constraintSingleActive:
			return &domain.ExclusivityConflictError{}
		case constraintContractorNIC:
			return fmt.Errorf("%w: ya existe un contratista con ese NIC", domain.ErrDuplicate)
		default:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
