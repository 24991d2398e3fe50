package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PedidoItemRequest línea de un pedido a proveedor.
type PedidoItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePedidoRequest entrada para crear un pedido.
type CreatePedidoRequest struct {
	SupplierID string              `json:"supplier_id" validate:"required"`
	Note       string              `json:"note"`
	Items      []PedidoItemRequest `json:"items" validate:"required,min=1"`
}

// UpdatePedidoStatusRequest cambio de estado de un pedido.
// La transición a RECIBIDO recibe la mercancía: registra las entradas de
// inventario de todas las líneas en una sola transacción.
type UpdatePedidoStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PedidoItemResponse línea de pedido en respuestas.
type PedidoItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PedidoResponse salida de un pedido.
type PedidoResponse struct {
	ID         string               `json:"id"`
	SupplierID string               `json:"supplier_id"`
	Status     string               `json:"status"`
	Note       string               `json:"note,omitempty"`
	Items      []PedidoItemResponse `json:"items"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// PedidoListResponse lista paginada de pedidos.
type PedidoListResponse struct {
	Items []PedidoResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
