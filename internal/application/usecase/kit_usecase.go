package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// KitUseCase gestiona kits y su venta. Vender N kits descuenta cada
// componente (cantidad × N) vía el Ledger en una sola transacción; si un
// componente no alcanza, ningún otro queda descontado.
type KitUseCase struct {
	ledger      *ledger.Ledger
	kitRepo     repository.KitRepository
	productRepo repository.ProductRepository
}

// NewKitUseCase construye el caso de uso.
func NewKitUseCase(ldg *ledger.Ledger, kitRepo repository.KitRepository, productRepo repository.ProductRepository) *KitUseCase {
	return &KitUseCase{ledger: ldg, kitRepo: kitRepo, productRepo: productRepo}
}

// Create crea un kit con sus componentes. Nombre repetido → ErrDuplicate.
func (uc *KitUseCase) Create(in dto.CreateKitRequest) (*dto.KitResponse, error) {
	if in.Name == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.kitRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	kit := &entity.Kit{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, comp := range in.Components {
		if comp.ProductID == "" || comp.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(comp.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		kit.Components = append(kit.Components, entity.KitComponent{
			ID:        uuid.New().String(),
			KitID:     kit.ID,
			ProductID: comp.ProductID,
			Quantity:  comp.Quantity,
		})
	}
	if err := uc.kitRepo.Create(kit); err != nil {
		return nil, err
	}
	return toKitResponse(kit), nil
}

// Sell vende count unidades del kit: cada componente sale del inventario
// (KIT_SALE) como una sola unidad atómica.
func (uc *KitUseCase) Sell(ctx context.Context, kitID string, count int64, note, actorID string) error {
	if count <= 0 {
		return domain.ErrInvalidInput
	}
	kit, err := uc.kitRepo.GetByID(kitID)
	if err != nil {
		return err
	}
	if kit == nil {
		return domain.ErrNotFound
	}
	lines := make([]ledger.Line, 0, len(kit.Components))
	for _, comp := range kit.Components {
		lines = append(lines, ledger.Line{ProductID: comp.ProductID, Quantity: comp.Quantity * count})
	}
	if note == "" {
		note = fmt.Sprintf("venta kit %s x%d", kit.Name, count)
	}
	return uc.ledger.ApplyLines(ctx, lines, entity.MovementKindKitSale, note, actorID)
}

// Update reemplaza nombre, precio y componentes del kit. No toca
// inventario: las ventas ya registradas quedan como se vendieron.
func (uc *KitUseCase) Update(id string, in dto.CreateKitRequest) (*dto.KitResponse, error) {
	if in.Name == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	kit, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	other, err := uc.kitRepo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	kit.Name = in.Name
	kit.Price = in.Price
	kit.Components = nil
	for _, comp := range in.Components {
		if comp.ProductID == "" || comp.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(comp.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		kit.Components = append(kit.Components, entity.KitComponent{
			ID:        uuid.New().String(),
			KitID:     kit.ID,
			ProductID: comp.ProductID,
			Quantity:  comp.Quantity,
		})
	}
	kit.UpdatedAt = time.Now()
	if err := uc.kitRepo.Update(kit); err != nil {
		return nil, err
	}
	return toKitResponse(kit), nil
}

// GetByID obtiene un kit con sus componentes.
func (uc *KitUseCase) GetByID(id string) (*dto.KitResponse, error) {
	kit, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, nil
	}
	return toKitResponse(kit), nil
}

// List lista kits con paginación.
func (uc *KitUseCase) List(limit, offset int) (*dto.KitListResponse, error) {
	list, err := uc.kitRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.KitResponse, 0, len(list))
	for _, k := range list {
		items = append(items, *toKitResponse(k))
	}
	return &dto.KitListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un kit. Las ventas ya registradas permanecen en el log.
func (uc *KitUseCase) Delete(id string) error {
	kit, err := uc.kitRepo.GetByID(id)
	if err != nil {
		return err
	}
	if kit == nil {
		return domain.ErrNotFound
	}
	return uc.kitRepo.Delete(id)
}

func toKitResponse(k *entity.Kit) *dto.KitResponse {
	if k == nil {
		return nil
	}
	components := make([]dto.KitComponentResponse, 0, len(k.Components))
	for _, comp := range k.Components {
		components = append(components, dto.KitComponentResponse{
			ProductID: comp.ProductID,
			Quantity:  comp.Quantity,
		})
	}
	return &dto.KitResponse{
		ID:         k.ID,
		Name:       k.Name,
		Price:      k.Price,
		Components: components,
		CreatedAt:  k.CreatedAt,
		UpdatedAt:  k.UpdatedAt,
	}
}
