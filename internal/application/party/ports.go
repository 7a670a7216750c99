package party

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que contratista y supporter se escriban (o se descarten) juntos.
type TxRunner interface {
	RunParty(ctx context.Context, fn func(
		contractorRepo repository.ContractorRepository,
		supporterRepo repository.SupporterRepository,
	) error) error
}

// ConflictRecorder registra conflictos de exclusividad (métricas).
type ConflictRecorder interface {
	IncExclusivityConflict()
}
