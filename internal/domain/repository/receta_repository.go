package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// RecetaRepository define el puerto de persistencia para recetas.
// UpdateStatusFrom es compare-and-set: la transición solo aplica si el
// estado actual sigue siendo `from` (ErrConflict si otro proceso ya la
// dispensó o canceló).
type RecetaRepository interface {
	Create(receta *entity.Receta) error
	GetByID(id string) (*entity.Receta, error)
	UpdateStatusFrom(id, from, to string) error
	List(limit, offset int) ([]*entity.Receta, error)
	Delete(id string) error
}
