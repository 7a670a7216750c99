package auth

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

// UsersTxRunner ejecuta la creación de usuario y sus vo_details en una sola transacción.
type UsersTxRunner interface {
	RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error
}

// IdentityCache guarda identidades resueltas por user_id. Get devuelve (nil, nil) si no hay entrada.
type IdentityCache interface {
	Get(ctx context.Context, userID string) (*entity.Identity, error)
	Set(ctx context.Context, identity entity.Identity) error
	Delete(ctx context.Context, userID string) error
}

// UserLookup lectura mínima de usuarios que necesita el resolver.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
