package usecase

import (
	"context"

	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// FulfillmentTxRunner ejecuta una función dentro de una transacción que
// abarca inventario y agregados de negocio: cambiar el estado de un
// pedido o receta y aplicar sus líneas al Ledger es una sola unidad.
type FulfillmentTxRunner interface {
	RunFulfillment(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		pedidoRepo repository.PedidoRepository,
		recetaRepo repository.RecetaRepository,
		devolucionRepo repository.DevolucionRepository,
	) error) error
}
