package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// PedidoRepository define el puerto de persistencia para pedidos a proveedor.
// Create persiste cabecera e ítems (filas hijas).
// UpdateStatusFrom es compare-and-set: solo aplica la transición si el
// estado actual sigue siendo `from`; si otro proceso ya lo movió,
// devuelve ErrConflict. Así dos recepciones concurrentes del mismo
// pedido no pueden confirmar ambas.
type PedidoRepository interface {
	Create(pedido *entity.Pedido) error
	GetByID(id string) (*entity.Pedido, error)
	UpdateStatusFrom(id, from, to string) error
	List(limit, offset int) ([]*entity.Pedido, error)
	Delete(id string) error
}
