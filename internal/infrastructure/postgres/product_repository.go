package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, category_id, supplier_id, cost, price, discount_pct, quantity, expiration_date, lot_number, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, category_id, supplier_id, cost, price, discount_pct, quantity, expiration_date, lot_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	supplierID := (*string)(nil)
	if product.SupplierID != "" {
		supplierID = &product.SupplierID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.CategoryID, supplierID,
		product.Cost, product.Price, product.DiscountPct, product.Quantity,
		product.ExpirationDate, product.LotNumber, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`
	return r.scanOne(query, name)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Serializa las mutaciones por producto; usar solo dentro de una tx.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *ProductRepo) scanOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	var supplierID *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Name, &p.CategoryID, &supplierID, &p.Cost, &p.Price,
		&p.DiscountPct, &p.Quantity, &p.ExpirationDate, &p.LotNumber,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	return &p, nil
}

// Update actualiza metadatos del producto. Quantity y Cost se tocan solo
// vía UpdateStock dentro del Ledger.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category_id = $3, supplier_id = $4, price = $5, discount_pct = $6,
		    expiration_date = $7, lot_number = $8, updated_at = $9
		WHERE id = $1`
	supplierID := (*string)(nil)
	if product.SupplierID != "" {
		supplierID = &product.SupplierID
	}
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.CategoryID, supplierID,
		product.Price, product.DiscountPct, product.ExpirationDate,
		product.LotNumber, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija existencia y costo promedio (solo desde el Ledger,
// con la fila ya bloqueada).
func (r *ProductRepo) UpdateStock(productID string, quantity int64, cost decimal.Decimal) error {
	query := `UPDATE products SET quantity = $2, cost = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, quantity, cost)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// List lista productos con paginación, por nombre.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
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

// Delete elimina un producto por ID. Sus movimientos permanecen.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
