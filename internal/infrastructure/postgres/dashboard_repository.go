package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador de consultas del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// LowStock lista productos con existencia igual o menor al umbral,
// los más escasos primero.
func (r *DashboardRepo) LowStock(threshold int64, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE quantity <= $1
		ORDER BY quantity ASC, name LIMIT $2`
	return r.listProducts(query, threshold, limit)
}

// ExpiringBefore lista productos cuyo lote vence antes de la fecha dada,
// los más próximos a vencer primero.
func (r *DashboardRepo) ExpiringBefore(deadline time.Time, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE expiration_date <= $1 AND quantity > 0
		ORDER BY expiration_date ASC, name LIMIT $2`
	return r.listProducts(query, deadline, limit)
}

func (r *DashboardRepo) listProducts(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("dashboard products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var supplierID *string
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &supplierID, &p.Cost, &p.Price,
			&p.DiscountPct, &p.Quantity, &p.ExpirationDate, &p.LotNumber,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if supplierID != nil {
			p.SupplierID = *supplierID
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CountsByStatus cuenta pedidos y recetas pendientes de atención.
func (r *DashboardRepo) CountsByStatus() (pedidosPendientes, recetasPendientes int, err error) {
	ctx := context.Background()
	err = r.q.QueryRow(ctx,
		`SELECT count(*) FROM pedidos WHERE status IN ($1, $2)`,
		entity.PedidoStatusPendiente, entity.PedidoStatusEnviado,
	).Scan(&pedidosPendientes)
	if err != nil {
		return 0, 0, fmt.Errorf("count pedidos: %w", err)
	}
	err = r.q.QueryRow(ctx,
		`SELECT count(*) FROM recetas WHERE status = $1`,
		entity.RecetaStatusPendiente,
	).Scan(&recetasPendientes)
	if err != nil {
		return 0, 0, fmt.Errorf("count recetas: %w", err)
	}
	return pedidosPendientes, recetasPendientes, nil
}
