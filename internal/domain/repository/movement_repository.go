package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// MovementRepository define el puerto del log de movimientos.
// Es append-only: no expone update ni delete.
type MovementRepository interface {
	Append(movement *entity.Movement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.Movement, error)
	// ListByLot busca por número de lote exacto, sin distinguir mayúsculas,
	// a través de todos los productos que comparten el lote.
	ListByLot(lotNumber string, limit, offset int) ([]*entity.Movement, error)
	ListRecent(limit int) ([]*entity.Movement, error)
}
