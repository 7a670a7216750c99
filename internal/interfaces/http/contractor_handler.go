package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// contractorService lo implementa *party.RegistryUseCase.
type contractorService interface {
	Create(ctx context.Context, caller entity.Identity, in dto.ContractorRequest) (*dto.ContractorResponse, error)
	Update(ctx context.Context, caller entity.Identity, nic string, in dto.ContractorRequest) (*dto.ContractorResponse, error)
	Delete(ctx context.Context, caller entity.Identity, nic string) error
	List(ctx context.Context, caller entity.Identity) ([]*dto.ContractorResponse, error)
	GetByNIC(ctx context.Context, caller entity.Identity, nic string) (*dto.ContractorResponse, error)
	GetActive(ctx context.Context, caller entity.Identity) (*dto.ContractorResponse, error)
}

// ContractorHandler registro de contratistas y supporters (DEO).
type ContractorHandler struct {
	uc contractorService
}

// NewContractorHandler construye el handler.
func NewContractorHandler(uc contractorService) *ContractorHandler {
	return &ContractorHandler{uc: uc}
}

// List godoc
// @Summary      Listar contratistas
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ContractorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/contractors [get]
func (h *ContractorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// GetActive godoc
// @Summary      Contratista activo
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ContractorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/active [get]
func (h *ContractorHandler) GetActive(c *fiber.Ctx) error {
	out, err := h.uc.GetActive(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// GetByNIC godoc
// @Summary      Obtener contratista por NIC
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        nic  path  string  true  "NIC del contratista"
// @Success      200  {object}  dto.ContractorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{nic} [get]
func (h *ContractorHandler) GetByNIC(c *fiber.Ctx) error {
	out, err := h.uc.GetByNIC(c.UserContext(), GetIdentity(c), c.Params("nic"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Create godoc
// @Summary      Crear contratista
// @Description  Crea el contratista y, si has_supporter=yes, su supporter en la misma transacción.
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContractorRequest  true  "Datos del contratista"
// @Success      201   {object}  dto.ContractorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contractors [post]
func (h *ContractorHandler) Create(c *fiber.Ctx) error {
	var in dto.ContractorRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// Update godoc
// @Summary      Reemplazar contratista
// @Description  El NIC de la ruta es inmutable. Reconcilia el supporter según has_supporter.
// @Tags         contractors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        nic   path  string                 true  "NIC del contratista"
// @Param        body  body  dto.ContractorRequest  true  "Datos del contratista"
// @Success      200   {object}  dto.ContractorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/contractors/{nic} [put]
func (h *ContractorHandler) Update(c *fiber.Ctx) error {
	var in dto.ContractorRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("nic"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Delete godoc
// @Summary      Eliminar contratista
// @Description  Elimina primero el supporter y luego el contratista.
// @Tags         contractors
// @Security     Bearer
// @Produce      json
// @Param        nic  path  string  true  "NIC del contratista"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contractors/{nic} [delete]
func (h *ContractorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("nic")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "contratista eliminado"})
}
