package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Nombres de constraints que el dominio distingue.
const (
	constraintContractorNIC       = "uq_contractors_nic"
	constraintSingleActive        = "uq_contractors_single_active"
	constraintSupporterNIC        = "uq_supporters_nic"
	constraintSupporterContractor = "uq_supporters_contractor"
	constraintUserEmail           = "uq_users_email"
)

// uniqueViolation devuelve el nombre del constraint si err es una violación de unicidad (23505).
func uniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
