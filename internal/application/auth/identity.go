package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// IdentityResolver resuelve el user_id de un token a {user_id, role, active}.
// Consulta primero la caché y, si no hay entrada, la base de datos.
// Un fallo de la caché no bloquea la autenticación: se degrada a la BD.
type IdentityResolver struct {
	users UserLookup
	cache IdentityCache // nil = sin caché
	log   zerolog.Logger
}

// NewIdentityResolver construye el resolver. cache puede ser nil.
func NewIdentityResolver(users UserLookup, cache IdentityCache, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, cache: cache, log: log}
}

// Resolve devuelve la identidad del usuario.
//   - usuario inexistente → domain.ErrUnauthorized
//   - usuario inactivo → domain.ErrInactiveUser (junto con la identidad)
func (r *IdentityResolver) Resolve(ctx context.Context, userID string) (entity.Identity, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, userID)
		if err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("caché de identidades no disponible")
		} else if cached != nil {
			return checkActive(*cached)
		}
	}

	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return entity.Identity{}, err
	}
	if user == nil {
		return entity.Identity{}, domain.ErrUnauthorized
	}
	identity := entity.Identity{UserID: user.ID, Role: user.Role, Active: user.Active}

	if r.cache != nil {
		if err := r.cache.Set(ctx, identity); err != nil {
			r.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo cachear la identidad")
		}
	}
	return checkActive(identity)
}

func checkActive(identity entity.Identity) (entity.Identity, error) {
	if !identity.Active {
		return identity, domain.ErrInactiveUser
	}
	return identity, nil
}
