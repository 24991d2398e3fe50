package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, lot_number, kind, quantity, stock_before, stock_after, note, created_at, created_by`

// MovementRepo implementación del log de movimientos sobre PostgreSQL.
// La tabla es append-only: este adaptador no tiene UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del log de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento. Nunca se modifica después.
func (r *MovementRepo) Append(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, lot_number, kind, quantity, stock_before, stock_after, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.LotNumber, movement.Kind,
		movement.Quantity, movement.StockBefore, movement.StockAfter,
		movement.Note, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto, del más reciente al más antiguo.
func (r *MovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	return scanMovements(rows)
}

// ListByLot lista movimientos por número de lote, sin distinguir mayúsculas,
// a través de todos los productos que comparten el lote.
func (r *MovementRepo) ListByLot(lotNumber string, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements WHERE lower(lot_number) = lower($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, lotNumber, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by lot: %w", err)
	}
	return scanMovements(rows)
}

// ListRecent lista los últimos movimientos del sistema (para el tablero).
func (r *MovementRepo) ListRecent(limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + `
		FROM movements ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent movements: %w", err)
	}
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LotNumber, &m.Kind, &m.Quantity,
			&m.StockBefore, &m.StockAfter, &m.Note, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
