package entity

import "time"

// Roles válidos para User.
const (
	RoleCustomer   = "customer"
	RoleTSU        = "tsu"
	RoleSR         = "sr"
	RoleOpsManager = "ops_manager"
)

// IsValidRole verifica que el rol sea uno de los conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleTSU, RoleSR, RoleOpsManager:
		return true
	}
	return false
}

// User representa un usuario del sistema. La identidad llega por cabeceras
// (placeholder); aquí no se guardan credenciales.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
