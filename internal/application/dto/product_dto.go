package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Quantity es la existencia inicial; genera el movimiento INITIAL.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	CategoryID     string          `json:"category_id" validate:"required"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
	Price          decimal.Decimal `json:"price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	Quantity       int64           `json:"quantity" validate:"min=0"`
	ExpirationDate string          `json:"expiration_date"` // YYYY-MM-DD
	LotNumber      string          `json:"lot_number"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Quantity presente dispara un ajuste vía el Ledger (ADJUST_IN/OUT);
// igual a la existencia actual es un no-op sin movimiento. No hay campo
// cost: el costo es el promedio ponderado que mantiene el Ledger.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID     *string          `json:"category_id"`
	SupplierID     *string          `json:"supplier_id"`
	Price          *decimal.Decimal `json:"price"`
	DiscountPct    *decimal.Decimal `json:"discount_pct"`
	Quantity       *int64           `json:"quantity"`
	ExpirationDate *string          `json:"expiration_date"`
	LotNumber      *string          `json:"lot_number"`
	Note           string           `json:"note"` // nota del ajuste de existencia
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CategoryID     string          `json:"category_id"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Cost           decimal.Decimal `json:"cost"`
	Price          decimal.Decimal `json:"price"`
	DiscountPct    decimal.Decimal `json:"discount_pct"`
	Quantity       int64           `json:"quantity"`
	ExpirationDate time.Time       `json:"expiration_date"`
	LotNumber      string          `json:"lot_number"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
