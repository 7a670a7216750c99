package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
)

// UserHandler administración de usuarios (admin) y perfil propio.
type UserHandler struct {
	uc authService
}

// NewUserHandler construye el handler.
func NewUserHandler(uc authService) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create godoc
// @Summary      Crear usuario
// @Description  Solo admin. Para role=vo se guardan también designation y office.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateUser(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// SetStatus godoc
// @Summary      Activar o desactivar usuario
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del usuario"
// @Param        body  body  dto.SetUserStatusRequest   true  "Estado"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/status [patch]
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetUserStatusRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetActive(c.UserContext(), GetIdentity(c), c.Params("id"), *in.Active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}
