package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.DevolucionRepository = (*DevolucionRepo)(nil)

const devolucionColumns = `id, supplier_id, product_id, quantity, reason, created_at, created_by`

// DevolucionRepo implementación del puerto DevolucionRepository sobre PostgreSQL.
type DevolucionRepo struct {
	q Querier
}

// NewDevolucionRepository construye el adaptador de persistencia para devoluciones.
func NewDevolucionRepository(q Querier) *DevolucionRepo {
	return &DevolucionRepo{q: q}
}

func (r *DevolucionRepo) Create(devolucion *entity.Devolucion) error {
	query := `
		INSERT INTO devoluciones (id, supplier_id, product_id, quantity, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		devolucion.ID, devolucion.SupplierID, devolucion.ProductID,
		devolucion.Quantity, devolucion.Reason, devolucion.CreatedAt, devolucion.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert devolucion: %w", err)
	}
	return nil
}

func (r *DevolucionRepo) GetByID(id string) (*entity.Devolucion, error) {
	var d entity.Devolucion
	query := `SELECT ` + devolucionColumns + ` FROM devoluciones WHERE id = $1`
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.SupplierID, &d.ProductID, &d.Quantity, &d.Reason, &d.CreatedAt, &d.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get devolucion: %w", err)
	}
	return &d, nil
}

func (r *DevolucionRepo) List(limit, offset int) ([]*entity.Devolucion, error) {
	query := `SELECT ` + devolucionColumns + ` FROM devoluciones ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list devoluciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Devolucion
	for rows.Next() {
		var d entity.Devolucion
		if err := rows.Scan(&d.ID, &d.SupplierID, &d.ProductID, &d.Quantity,
			&d.Reason, &d.CreatedAt, &d.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan devolucion: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Delete borra solo el registro de negocio; el movimiento SUPPLIER_RETURN
// asociado permanece en el log.
func (r *DevolucionRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM devoluciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete devolucion: %w", err)
	}
	return nil
}
