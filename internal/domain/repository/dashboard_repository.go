package repository

import (
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// DashboardRepository consultas de solo lectura para el tablero.
type DashboardRepository interface {
	// LowStock lista productos con existencia igual o menor al umbral.
	LowStock(threshold int64, limit int) ([]*entity.Product, error)
	// ExpiringBefore lista productos cuyo lote vence antes de la fecha dada.
	ExpiringBefore(deadline time.Time, limit int) ([]*entity.Product, error)
	// CountsByStatus cuenta pedidos y recetas pendientes.
	CountsByStatus() (pedidosPendientes, recetasPendientes int, err error)
}
