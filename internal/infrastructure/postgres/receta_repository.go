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

var _ repository.RecetaRepository = (*RecetaRepo)(nil)

// RecetaRepo implementación del puerto RecetaRepository sobre PostgreSQL.
type RecetaRepo struct {
	q Querier
}

// NewRecetaRepository construye el adaptador de persistencia para recetas.
func NewRecetaRepository(q Querier) *RecetaRepo {
	return &RecetaRepo{q: q}
}

// Create persiste cabecera e ítems en una transacción.
func (r *RecetaRepo) Create(receta *entity.Receta) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		query := `
			INSERT INTO recetas (id, patient, doctor, status, note, created_at, updated_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		_, err := q.Exec(ctx, query,
			receta.ID, receta.Patient, receta.Doctor, receta.Status, receta.Note,
			receta.CreatedAt, receta.UpdatedAt, receta.CreatedBy)
		if err != nil {
			return fmt.Errorf("insert receta: %w", err)
		}
		itemQuery := `
			INSERT INTO receta_items (id, receta_id, product_id, quantity, dosage)
			VALUES ($1, $2, $3, $4, $5)`
		for _, item := range receta.Items {
			if _, err := q.Exec(ctx, itemQuery,
				item.ID, item.RecetaID, item.ProductID, item.Quantity, item.Dosage); err != nil {
				return fmt.Errorf("insert receta item: %w", err)
			}
		}
		return nil
	})
}

func (r *RecetaRepo) GetByID(id string) (*entity.Receta, error) {
	ctx := context.Background()
	var rec entity.Receta
	query := `SELECT id, patient, doctor, status, note, created_at, updated_at, created_by FROM recetas WHERE id = $1`
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Patient, &rec.Doctor, &rec.Status, &rec.Note,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receta: %w", err)
	}
	items, err := r.loadItems(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return &rec, nil
}

func (r *RecetaRepo) loadItems(ctx context.Context, recetaID string) ([]entity.RecetaItem, error) {
	query := `
		SELECT id, receta_id, product_id, quantity, dosage
		FROM receta_items WHERE receta_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, recetaID)
	if err != nil {
		return nil, fmt.Errorf("list receta items: %w", err)
	}
	defer rows.Close()
	var items []entity.RecetaItem
	for rows.Next() {
		var it entity.RecetaItem
		if err := rows.Scan(&it.ID, &it.RecetaID, &it.ProductID, &it.Quantity, &it.Dosage); err != nil {
			return nil, fmt.Errorf("scan receta item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatusFrom es compare-and-set: cero filas afectadas indica que
// la receta ya no está en `from` y se devuelve ErrConflict.
func (r *RecetaRepo) UpdateStatusFrom(id, from, to string) error {
	query := `UPDATE recetas SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`
	ct, err := r.q.Exec(context.Background(), query, id, from, to)
	if err != nil {
		return fmt.Errorf("update receta status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *RecetaRepo) List(limit, offset int) ([]*entity.Receta, error) {
	ctx := context.Background()
	query := `
		SELECT id, patient, doctor, status, note, created_at, updated_at, created_by
		FROM recetas ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recetas: %w", err)
	}
	var list []*entity.Receta
	for rows.Next() {
		var rec entity.Receta
		if err := rows.Scan(&rec.ID, &rec.Patient, &rec.Doctor, &rec.Status, &rec.Note,
			&rec.CreatedAt, &rec.UpdatedAt, &rec.CreatedBy); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan receta: %w", err)
		}
		list = append(list, &rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, rec := range list {
		items, err := r.loadItems(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		rec.Items = items
	}
	return list, nil
}

// Delete elimina cabecera e ítems. No revierte los movimientos de una
// receta ya dispensada.
func (r *RecetaRepo) Delete(id string) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		if _, err := q.Exec(ctx, `DELETE FROM receta_items WHERE receta_id = $1`, id); err != nil {
			return fmt.Errorf("delete receta items: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM recetas WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete receta: %w", err)
		}
		return nil
	})
}
