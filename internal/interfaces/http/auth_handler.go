package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// authService lo implementa *auth.AuthUseCase.
type authService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, caller entity.Identity, in dto.CreateUserRequest) (*dto.UserResponse, error)
	SetActive(ctx context.Context, caller entity.Identity, userID string, active bool) (*dto.UserResponse, error)
	Me(ctx context.Context, caller entity.Identity) (*dto.UserResponse, error)
}

// AuthHandler maneja el login (público).
type AuthHandler struct {
	uc authService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc authService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}
