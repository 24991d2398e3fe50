package dto

import "time"

// RecetaItemRequest medicamento de una receta.
type RecetaItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
	Dosage    string `json:"dosage"`
}

// CreateRecetaRequest entrada para registrar una receta.
type CreateRecetaRequest struct {
	Patient string              `json:"patient" validate:"required"`
	Doctor  string              `json:"doctor" validate:"required"`
	Note    string              `json:"note"`
	Items   []RecetaItemRequest `json:"items" validate:"required,min=1"`
}

// RecetaItemResponse medicamento en respuestas.
type RecetaItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Dosage    string `json:"dosage,omitempty"`
}

// RecetaResponse salida de una receta.
type RecetaResponse struct {
	ID        string               `json:"id"`
	Patient   string               `json:"patient"`
	Doctor    string               `json:"doctor"`
	Status    string               `json:"status"`
	Note      string               `json:"note,omitempty"`
	Items     []RecetaItemResponse `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// RecetaListResponse lista paginada de recetas.
type RecetaListResponse struct {
	Items []RecetaResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
