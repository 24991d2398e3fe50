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

// DevolucionUseCase gestiona devoluciones a proveedor. Crear una
// devolución registra la salida de stock (SUPPLIER_RETURN) y el registro
// de negocio en la misma transacción. Borrarla después NO revierte el
// movimiento: decisión de negocio documentada, no un descuido.
type DevolucionUseCase struct {
	txRunner       FulfillmentTxRunner
	ledger         *ledger.Ledger
	devolucionRepo repository.DevolucionRepository
	supplierRepo   repository.SupplierRepository
}

// NewDevolucionUseCase construye el caso de uso.
func NewDevolucionUseCase(
	txRunner FulfillmentTxRunner,
	ldg *ledger.Ledger,
	devolucionRepo repository.DevolucionRepository,
	supplierRepo repository.SupplierRepository,
) *DevolucionUseCase {
	return &DevolucionUseCase{
		txRunner:       txRunner,
		ledger:         ldg,
		devolucionRepo: devolucionRepo,
		supplierRepo:   supplierRepo,
	}
}

// Create registra la devolución y descuenta el stock como unidad atómica.
func (uc *DevolucionUseCase) Create(ctx context.Context, actorID string, in dto.CreateDevolucionRequest) (*dto.DevolucionResponse, error) {
	if in.SupplierID == "" || in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	devolucion := &entity.Devolucion{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		CreatedAt:  now,
		CreatedBy:  actorID,
	}
	note := fmt.Sprintf("devolución a proveedor %s: %s", supplier.Name, in.Reason)
	err = uc.txRunner.RunFulfillment(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.PedidoRepository,
		_ repository.RecetaRepository,
		devolucionRepo repository.DevolucionRepository,
	) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		input := ledger.MovementInput{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Kind:      entity.MovementKindSupplierReturn,
			Note:      note,
			ActorID:   actorID,
		}
		if _, err := uc.ledger.ExitInTx(movRepo, productRepo, product, input, now); err != nil {
			return err
		}
		return devolucionRepo.Create(devolucion)
	})
	if err != nil {
		return nil, err
	}
	return toDevolucionResponse(devolucion), nil
}

// GetByID obtiene una devolución por ID.
func (uc *DevolucionUseCase) GetByID(id string) (*dto.DevolucionResponse, error) {
	devolucion, err := uc.devolucionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if devolucion == nil {
		return nil, nil
	}
	return toDevolucionResponse(devolucion), nil
}

// List lista devoluciones con paginación.
func (uc *DevolucionUseCase) List(limit, offset int) (*dto.DevolucionListResponse, error) {
	list, err := uc.devolucionRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DevolucionResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDevolucionResponse(d))
	}
	return &dto.DevolucionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete borra el registro de la devolución. El movimiento de stock
// asociado permanece en el log: esta operación no afecta el stock.
func (uc *DevolucionUseCase) Delete(id string) error {
	devolucion, err := uc.devolucionRepo.GetByID(id)
	if err != nil {
		return err
	}
	if devolucion == nil {
		return domain.ErrNotFound
	}
	return uc.devolucionRepo.Delete(id)
}

func toDevolucionResponse(d *entity.Devolucion) *dto.DevolucionResponse {
	if d == nil {
		return nil
	}
	return &dto.DevolucionResponse{
		ID:         d.ID,
		SupplierID: d.SupplierID,
		ProductID:  d.ProductID,
		Quantity:   d.Quantity,
		Reason:     d.Reason,
		CreatedAt:  d.CreatedAt,
	}
}
