package http

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

// voucherService lo implementa *voucher.WorkflowUseCase.
type voucherService interface {
	Create(ctx context.Context, caller entity.Identity, in dto.CreateVoucherRequest) (*dto.VoucherResponse, error)
	List(ctx context.Context, caller entity.Identity, filter entity.VoucherFilter) ([]*dto.VoucherResponse, error)
	Get(ctx context.Context, caller entity.Identity, id string) (*dto.VoucherResponse, error)
	Verify(ctx context.Context, caller entity.Identity, id string, in dto.VerifyVoucherRequest) (*dto.VoucherResponse, error)
}

// VoucherHandler flujo de vouchers DEO → VO.
type VoucherHandler struct {
	uc voucherService
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc voucherService) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// Create godoc
// @Summary      Enviar voucher
// @Description  Solo DEO. Se asigna al VO activo; 400 NO_ACTIVE_VO si no hay ninguno.
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVoucherRequest  true  "url_data (objeto o string) y comentario opcional"
// @Success      201   {object}  dto.VoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/vouchers [post]
func (h *VoucherHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVoucherRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar vouchers
// @Description  El DEO ve los que creó; el VO los que tiene asignados.
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  false  "Año de creación"
// @Param        month  query  int  false  "Mes de creación (1-12)"
// @Success      200    {array}   dto.VoucherResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/vouchers [get]
func (h *VoucherHandler) List(c *fiber.Ctx) error {
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		return writeError(c, err)
	}
	month, err := optionalIntQuery(c, "month")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), entity.VoucherFilter{Year: year, Month: month})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Get godoc
// @Summary      Obtener voucher
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del voucher"
// @Success      200  {object}  dto.VoucherResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Verify godoc
// @Summary      Aprobar o rechazar voucher
// @Description  Solo el VO asignado. Un voucher ya decidido responde 409 ALREADY_DECIDED.
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del voucher"
// @Param        body  body  dto.VerifyVoucherRequest  true  "status: approved|rejected"
// @Success      200   {object}  dto.VoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/verify [put]
func (h *VoucherHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyVoucherRequest
	if err := bindBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Verify(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// optionalIntQuery devuelve nil si el parámetro no viene o está vacío.
func optionalIntQuery(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser numérico", domain.ErrInvalidInput, key)
	}
	return &n, nil
}
