package repository

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// SupporterRepository define el puerto de persistencia para Supporter.
// Solo se usa dentro de la transacción de escritura del contratista.
type SupporterRepository interface {
	Create(ctx context.Context, supporter *entity.Supporter) error
	Update(ctx context.Context, supporter *entity.Supporter) error
	DeleteByContractor(ctx context.Context, contractorID string) error
	GetByContractor(ctx context.Context, contractorID string) (*entity.Supporter, error)
}
