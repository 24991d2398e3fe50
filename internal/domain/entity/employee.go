package entity

import "time"

// Roles válidos para Employee.
const (
	RoleAdmin    = "admin"
	RoleEmpleado = "empleado"
)

// Employee representa una cuenta de empleado de la farmacia.
type Employee struct {
	ID           string
	Email        string // único
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, empleado
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
