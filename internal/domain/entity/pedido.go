package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido a proveedor. Las transiciones son solo hacia
// adelante: PENDIENTE → ENVIADO → RECIBIDO, o cancelación antes de
// recibir. Únicamente la transición a RECIBIDO muta inventario.
const (
	PedidoStatusPendiente = "PENDIENTE"
	PedidoStatusEnviado   = "ENVIADO"
	PedidoStatusRecibido  = "RECIBIDO"
	PedidoStatusCancelado = "CANCELADO"
)

// pedidoTransitions define las transiciones permitidas por estado.
var pedidoTransitions = map[string][]string{
	PedidoStatusPendiente: {PedidoStatusEnviado, PedidoStatusCancelado},
	PedidoStatusEnviado:   {PedidoStatusRecibido, PedidoStatusCancelado},
	PedidoStatusRecibido:  {},
	PedidoStatusCancelado: {},
}

// CanTransitionPedido indica si el cambio de estado es válido.
func CanTransitionPedido(from, to string) bool {
	for _, s := range pedidoTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Pedido representa una orden de compra a un proveedor.
type Pedido struct {
	ID         string
	SupplierID string
	Status     string
	Note       string
	Items      []PedidoItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
	CreatedBy  string
}

// PedidoItem es una línea del pedido (fila hija, no blob).
type PedidoItem struct {
	ID        string
	PedidoID  string
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal // costo acordado con el proveedor
}
