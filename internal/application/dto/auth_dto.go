package dto

import "time"

// RegisterRequest entrada para registrar un empleado.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Role     string `json:"role"` // admin, empleado; por defecto empleado
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateEmployeeRequest cambios parciales de una cuenta (solo admin).
type UpdateEmployeeRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`   // admin, empleado
	Status *string `json:"status"` // active, inactive
}

// EmployeeResponse salida de un empleado (sin hash).
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token + empleado autenticado.
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee EmployeeResponse `json:"employee"`
}
