package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInactiveUser       = errors.New("usuario inactivo")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPreconditionFailed = errors.New("no hay un Verification Officer activo")

	// ErrExclusivityConflict se usa con errors.Is; el detalle viaja en *ExclusivityConflictError.
	ErrExclusivityConflict = errors.New("ya existe un contratista activo")
)

// ContractorRef identifica al contratista activo que bloquea una activación.
type ContractorRef struct {
	ID        string `json:"id"`
	NICNumber string `json:"nic_number"`
	FullName  string `json:"full_name"`
}

// ExclusivityConflictError indica que otro contratista ya está activo.
// Se obtiene con errors.As para devolver el contratista activo al cliente.
type ExclusivityConflictError struct {
	Active ContractorRef
}

func (e *ExclusivityConflictError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrExclusivityConflict.Error(), e.Active.FullName, e.Active.NICNumber)
}

// Is permite errors.Is(err, ErrExclusivityConflict).
func (e *ExclusivityConflictError) Is(target error) bool {
	return target == ErrExclusivityConflict
}

// ValidationError agrupa los problemas de validación de un request.
// errors.Is(err, ErrInvalidInput) es verdadero.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidInput.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
