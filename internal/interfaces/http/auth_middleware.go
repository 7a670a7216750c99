package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// identityResolver es el contrato mínimo para revalidar al usuario del token.
// Lo implementa *auth.IdentityResolver.
type identityResolver interface {
	Resolve(ctx context.Context, userID string) (entity.Identity, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga UserID y Role en c.Locals.
// Con resolver, el rol y el estado se toman del usuario guardado (no del token):
//   - usuario inexistente → 401 INVALID_TOKEN
//   - usuario inactivo → 403 INACTIVE_USER
func AuthMiddleware(jwtSecret string, resolver identityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_TOKEN", "token vacío"))
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "token inválido o expirado"))
		}

		if resolver != nil {
			identity, err := resolver.Resolve(c.UserContext(), userID)
			switch {
			case errors.Is(err, domain.ErrInactiveUser):
				return c.Status(fiber.StatusForbidden).JSON(dto.Fail("INACTIVE_USER", "usuario inactivo"))
			case errors.Is(err, domain.ErrUnauthorized):
				return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("INVALID_TOKEN", "usuario no encontrado"))
			case err != nil:
				return writeError(c, err)
			}
			role = identity.Role
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del usuario está entre roles.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("MISSING_ROLE", "el token no incluye rol"))
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", "rol sin permiso para este recurso"))
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetIdentity arma la identidad que se pasa explícitamente a los casos de uso.
func GetIdentity(c *fiber.Ctx) entity.Identity {
	return entity.Identity{UserID: GetUserID(c), Role: GetRole(c), Active: true}
}
