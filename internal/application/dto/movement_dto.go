package dto

import "time"

// RegisterExitRequest body para POST /api/movements/exit.
type RegisterExitRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note"`
}

// RegisterEntryRequest body para POST /api/movements/entry.
type RegisterEntryRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Note      string `json:"note"`
}

// MovementResponse registro de movimiento en respuestas.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	LotNumber   string    `json:"lot_number"`
	Kind        string    `json:"kind"`
	Quantity    int64     `json:"quantity"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// MovementResultResponse resultado de registrar un movimiento.
type MovementResultResponse struct {
	NewQuantity int64            `json:"new_quantity"`
	Movement    MovementResponse `json:"movement"`
}

// MovementListResponse lista de movimientos (más recientes primero).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
