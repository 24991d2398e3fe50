package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// DevolucionRepository define el puerto de persistencia para devoluciones
// a proveedor. Delete borra solo el registro de negocio: el movimiento de
// stock asociado permanece en el log (asimetría documentada).
type DevolucionRepository interface {
	Create(devolucion *entity.Devolucion) error
	GetByID(id string) (*entity.Devolucion, error)
	List(limit, offset int) ([]*entity.Devolucion, error)
	Delete(id string) error
}
