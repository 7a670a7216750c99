package repository

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	CreateVODetails(ctx context.Context, details *entity.VODetails) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	// ActiveVerificationOfficers devuelve los VO activos (con vo_details) en orden determinista:
	// created_at ASC, id ASC. Dentro de una transacción bloquea las filas en modo compartido.
	ActiveVerificationOfficers(ctx context.Context) ([]*entity.User, error)
}
