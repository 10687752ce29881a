package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
	RoleCliente  = "cliente"
)

// User representa un usuario del sistema: cliente de la tienda o personal
// (admin/vendedor, opcionalmente asignado a una sucursal).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string  // admin, vendedor, cliente
	Status       string  // active, inactive, suspended
	BranchID     *string // sucursal asignada (solo personal)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
