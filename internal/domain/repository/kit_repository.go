package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// KitRepository define el puerto de persistencia para kits.
// Update reemplaza cabecera y componentes.
type KitRepository interface {
	Create(kit *entity.Kit) error
	GetByID(id string) (*entity.Kit, error)
	GetByName(name string) (*entity.Kit, error)
	Update(kit *entity.Kit) error
	List(limit, offset int) ([]*entity.Kit, error)
	Delete(id string) error
}
