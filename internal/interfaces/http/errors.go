package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindBody parsea el JSON del body y aplica las reglas `validate` del DTO.
func bindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &domain.ValidationError{Problems: []string{"cuerpo JSON inválido"}}
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, describeField(fe))
			}
			return &domain.ValidationError{Problems: problems}
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func describeField(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "email":
		return field + " debe ser un email válido"
	case "min":
		return fmt.Sprintf("%s debe tener al menos %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s debe tener como máximo %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	}
	return field + " inválido"
}

// writeError traduce errores de dominio a respuestas HTTP.
// Los 5xx se registran con el error real; al cliente solo llega un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	var (
		conflict *domain.ExclusivityConflictError
		verr     *domain.ValidationError
	)
	switch {
	case errors.As(err, &conflict):
		body := dto.Fail("ACTIVE_CONTRACTOR_EXISTS", "ya existe un contratista activo; desactívelo antes de activar otro")
		// el ganador pudo desactivarse antes de releerlo: sin payload vacío
		if conflict.Active.ID != "" {
			active := conflict.Active
			body.ActiveContractor = &active
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &verr):
		body := dto.Fail("VALIDATION", "datos inválidos")
		body.Errors = verr.Problems
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("DUPLICATE", err.Error()))
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("DUPLICATE", err.Error()))
	case errors.Is(err, domain.ErrPreconditionFailed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("NO_ACTIVE_VO", err.Error()))
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("FORBIDDEN", "acceso denegado"))
	case errors.Is(err, domain.ErrInactiveUser):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("INACTIVE_USER", "usuario inactivo"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("UNAUTHORIZED", "credenciales inválidas"))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("ALREADY_DECIDED", err.Error()))
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", "error interno del servidor"))
}
