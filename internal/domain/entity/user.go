package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleDEO   = "deo" // Data Entry Officer
	RoleVO    = "vo"  // Verification Officer
)

// IsValidRole indica si el rol es uno de los soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDEO, RoleVO:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, deo, vo
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// VODetails datos propios de un Verification Officer (tabla vo_details).
type VODetails struct {
	UserID      string
	Designation string
	Office      string
	CreatedAt   time.Time
}

// Identity es el resultado de resolver un bearer token: quién llama, con qué rol y si está activo.
// Se pasa explícitamente a los casos de uso.
type Identity struct {
	UserID string
	Role   string
	Active bool
}

// Is indica si la identidad tiene el rol dado.
func (i Identity) Is(role string) bool {
	return i.Role == role
}
