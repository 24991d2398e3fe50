package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KitComponentRequest componente de un kit.
type KitComponentRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

// CreateKitRequest entrada para crear un kit.
type CreateKitRequest struct {
	Name       string                `json:"name" validate:"required,min=1,max=200"`
	Price      decimal.Decimal       `json:"price"`
	Components []KitComponentRequest `json:"components" validate:"required,min=1"`
}

// SellKitRequest entrada para vender N unidades de un kit.
type SellKitRequest struct {
	Count int64  `json:"count" validate:"min=1"`
	Note  string `json:"note"`
}

// KitComponentResponse componente en respuestas.
type KitComponentResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// KitResponse salida de un kit.
type KitResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Price      decimal.Decimal        `json:"price"`
	Components []KitComponentResponse `json:"components"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// KitListResponse lista paginada de kits.
type KitListResponse struct {
	Items []KitResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
