package ledger

import (
	"context"

	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el Ledger:
// cambio de stock y registro de movimiento se confirman juntos o no se
// confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
