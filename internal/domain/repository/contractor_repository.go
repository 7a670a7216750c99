package repository

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// ContractorRepository define el puerto de persistencia para Contractor.
// Las lecturas devuelven la vista unida con el Supporter (si existe).
type ContractorRepository interface {
	Create(ctx context.Context, contractor *entity.Contractor) error
	Update(ctx context.Context, contractor *entity.Contractor) error
	Delete(ctx context.Context, id string) error
	GetByNIC(ctx context.Context, nic string) (*entity.ContractorView, error)
	// GetByNICForUpdate bloquea la fila del contratista (SELECT ... FOR UPDATE).
	GetByNICForUpdate(ctx context.Context, nic string) (*entity.Contractor, error)
	GetActive(ctx context.Context) (*entity.ContractorView, error)
	// FindOtherActive busca un contratista activo distinto de excludeNIC (vacío = ninguno excluido).
	FindOtherActive(ctx context.Context, excludeNIC string) (*domain.ContractorRef, error)
	List(ctx context.Context) ([]*entity.ContractorView, error)
}
