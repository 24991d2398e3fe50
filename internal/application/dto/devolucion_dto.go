package dto

import "time"

// CreateDevolucionRequest entrada para registrar una devolución a proveedor.
// Registra la salida de stock en el mismo acto.
type CreateDevolucionRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	ProductID  string `json:"product_id" validate:"required"`
	Quantity   int64  `json:"quantity" validate:"min=1"`
	Reason     string `json:"reason"`
}

// DevolucionResponse salida de una devolución.
type DevolucionResponse struct {
	ID         string    `json:"id"`
	SupplierID string    `json:"supplier_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DevolucionListResponse lista paginada de devoluciones.
type DevolucionListResponse struct {
	Items []DevolucionResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
