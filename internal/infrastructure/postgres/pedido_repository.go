package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.PedidoRepository = (*PedidoRepo)(nil)

// PedidoRepo implementación del puerto PedidoRepository sobre PostgreSQL.
// Los ítems viven en pedido_items como filas hijas, no como blob.
type PedidoRepo struct {
	q Querier
}

// NewPedidoRepository construye el adaptador de persistencia para pedidos.
func NewPedidoRepository(q Querier) *PedidoRepo {
	return &PedidoRepo{q: q}
}

// Create persiste cabecera e ítems en una transacción.
func (r *PedidoRepo) Create(pedido *entity.Pedido) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		query := `
			INSERT INTO pedidos (id, supplier_id, status, note, created_at, updated_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := q.Exec(ctx, query,
			pedido.ID, pedido.SupplierID, pedido.Status, pedido.Note,
			pedido.CreatedAt, pedido.UpdatedAt, pedido.CreatedBy)
		if err != nil {
			return fmt.Errorf("insert pedido: %w", err)
		}
		itemQuery := `
			INSERT INTO pedido_items (id, pedido_id, product_id, quantity, unit_cost)
			VALUES ($1, $2, $3, $4, $5)`
		for _, item := range pedido.Items {
			if _, err := q.Exec(ctx, itemQuery,
				item.ID, item.PedidoID, item.ProductID, item.Quantity, item.UnitCost); err != nil {
				return fmt.Errorf("insert pedido item: %w", err)
			}
		}
		return nil
	})
}

func (r *PedidoRepo) GetByID(id string) (*entity.Pedido, error) {
	ctx := context.Background()
	var p entity.Pedido
	query := `SELECT id, supplier_id, status, note, created_at, updated_at, created_by FROM pedidos WHERE id = $1`
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierID, &p.Status, &p.Note, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	items, err := r.loadItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (r *PedidoRepo) loadItems(ctx context.Context, pedidoID string) ([]entity.PedidoItem, error) {
	query := `
		SELECT id, pedido_id, product_id, quantity, unit_cost
		FROM pedido_items WHERE pedido_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, pedidoID)
	if err != nil {
		return nil, fmt.Errorf("list pedido items: %w", err)
	}
	defer rows.Close()
	var items []entity.PedidoItem
	for rows.Next() {
		var it entity.PedidoItem
		if err := rows.Scan(&it.ID, &it.PedidoID, &it.ProductID, &it.Quantity, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan pedido item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatusFrom cambia el estado solo si sigue siendo `from`. Cero
// filas afectadas significa que otro proceso ganó la transición: el
// caller recibe ErrConflict y su transacción hace rollback.
func (r *PedidoRepo) UpdateStatusFrom(id, from, to string) error {
	query := `UPDATE pedidos SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	ct, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return fmt.Errorf("update pedido status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *PedidoRepo) List(limit, offset int) ([]*entity.Pedido, error) {
	ctx := context.Background()
	query := `
		SELECT id, supplier_id, status, note, created_at, updated_at, created_by
		FROM pedidos ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pedidos: %w", err)
	}
	var list []*entity.Pedido
	for rows.Next() {
		var p entity.Pedido
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Status, &p.Note,
			&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, p := range list {
		items, err := r.loadItems(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Items = items
	}
	return list, nil
}

// Delete elimina cabecera e ítems. No revierte los movimientos de stock
// de un pedido ya recibido.
func (r *PedidoRepo) Delete(id string) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		if _, err := q.Exec(ctx, `DELETE FROM pedido_items WHERE pedido_id = $1`, id); err != nil {
			return fmt.Errorf("delete pedido items: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete pedido: %w", err)
		}
		return nil
	})
}
