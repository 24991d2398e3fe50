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

var _ repository.KitRepository = (*KitRepo)(nil)

// KitRepo implementación del puerto KitRepository sobre PostgreSQL.
type KitRepo struct {
	q Querier
}

// NewKitRepository construye el adaptador de persistencia para kits.
func NewKitRepository(q Querier) *KitRepo {
	return &KitRepo{q: q}
}

// Create persiste cabecera y componentes en una transacción.
func (r *KitRepo) Create(kit *entity.Kit) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		query := `INSERT INTO kits (id, name, price, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
		_, err := q.Exec(ctx, query, kit.ID, kit.Name, kit.Price, kit.CreatedAt, kit.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert kit: %w", err)
		}
		return insertKitComponents(ctx, q, kit.Components)
	})
}

func insertKitComponents(ctx context.Context, q Querier, components []entity.KitComponent) error {
	query := `INSERT INTO kit_components (id, kit_id, product_id, quantity) VALUES ($1, $2, $3, $4)`
	for _, c := range components {
		if _, err := q.Exec(ctx, query, c.ID, c.KitID, c.ProductID, c.Quantity); err != nil {
			return fmt.Errorf("insert kit component: %w", err)
		}
	}
	return nil
}

func (r *KitRepo) GetByID(id string) (*entity.Kit, error) {
	return r.getBy(`SELECT id, name, price, created_at, updated_at FROM kits WHERE id = $1`, id)
}

func (r *KitRepo) GetByName(name string) (*entity.Kit, error) {
	return r.getBy(`SELECT id, name, price, created_at, updated_at FROM kits WHERE name = $1`, name)
}

func (r *KitRepo) getBy(query string, arg any) (*entity.Kit, error) {
	ctx := context.Background()
	var k entity.Kit
	err := r.q.QueryRow(ctx, query, arg).Scan(&k.ID, &k.Name, &k.Price, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kit: %w", err)
	}
	components, err := r.loadComponents(ctx, k.ID)
	if err != nil {
		return nil, err
	}
	k.Components = components
	return &k, nil
}

func (r *KitRepo) loadComponents(ctx context.Context, kitID string) ([]entity.KitComponent, error) {
	query := `
		SELECT id, kit_id, product_id, quantity
		FROM kit_components WHERE kit_id = $1 ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, kitID)
	if err != nil {
		return nil, fmt.Errorf("list kit components: %w", err)
	}
	defer rows.Close()
	var components []entity.KitComponent
	for rows.Next() {
		var c entity.KitComponent
		if err := rows.Scan(&c.ID, &c.KitID, &c.ProductID, &c.Quantity); err != nil {
			return nil, fmt.Errorf("scan kit component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// Update reemplaza cabecera y componentes (borrar e insertar) en una
// transacción, para no dejar el kit sin componentes a medio camino.
func (r *KitRepo) Update(kit *entity.Kit) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		query := `UPDATE kits SET name = $2, price = $3, updated_at = $4 WHERE id = $1`
		_, err := q.Exec(ctx, query, kit.ID, kit.Name, kit.Price, kit.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("update kit: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM kit_components WHERE kit_id = $1`, kit.ID); err != nil {
			return fmt.Errorf("delete kit components: %w", err)
		}
		return insertKitComponents(ctx, q, kit.Components)
	})
}

func (r *KitRepo) List(limit, offset int) ([]*entity.Kit, error) {
	ctx := context.Background()
	query := `SELECT id, name, price, created_at, updated_at FROM kits ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list kits: %w", err)
	}
	var list []*entity.Kit
	for rows.Next() {
		var k entity.Kit
		if err := rows.Scan(&k.ID, &k.Name, &k.Price, &k.CreatedAt, &k.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan kit: %w", err)
		}
		list = append(list, &k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, k := range list {
		components, err := r.loadComponents(ctx, k.ID)
		if err != nil {
			return nil, err
		}
		k.Components = components
	}
	return list, nil
}

func (r *KitRepo) Delete(id string) error {
	return inTx(r.q, func(q Querier) error {
		ctx := context.Background()
		if _, err := q.Exec(ctx, `DELETE FROM kit_components WHERE kit_id = $1`, id); err != nil {
			return fmt.Errorf("delete kit components: %w", err)
		}
		if _, err := q.Exec(ctx, `DELETE FROM kits WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete kit: %w", err)
		}
		return nil
	})
}
