package entity

import "time"

// Category representa una categoría de productos (antibióticos, analgésicos, etc.).
type Category struct {
	ID        string
	Name      string // único
	CreatedAt time.Time
	UpdatedAt time.Time
}
