package dto

import "time"

// LowStockItemDTO producto por debajo del umbral de existencia.
type LowStockItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// ExpiringItemDTO producto cuyo lote vence pronto.
type ExpiringItemDTO struct {
	ProductID      string    `json:"product_id"`
	Name           string    `json:"name"`
	LotNumber      string    `json:"lot_number"`
	ExpirationDate time.Time `json:"expiration_date"`
	Quantity       int64     `json:"quantity"`
}

// DashboardResponse resumen para el tablero de la farmacia.
type DashboardResponse struct {
	LowStock          []LowStockItemDTO  `json:"low_stock"`
	Expiring          []ExpiringItemDTO  `json:"expiring"`
	RecentMovements   []MovementResponse `json:"recent_movements"`
	PedidosPendientes int                `json:"pedidos_pendientes"`
	RecetasPendientes int                `json:"recetas_pendientes"`
	GeneratedAt       time.Time          `json:"generated_at"`
}
