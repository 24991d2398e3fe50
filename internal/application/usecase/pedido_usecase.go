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

// PedidoUseCase gestiona pedidos a proveedor. Solo la transición a
// RECIBIDO muta inventario: registra las entradas de todas las líneas y
// el cambio de estado en una sola transacción.
type PedidoUseCase struct {
	txRunner     FulfillmentTxRunner
	ledger       *ledger.Ledger
	pedidoRepo   repository.PedidoRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewPedidoUseCase construye el caso de uso.
func NewPedidoUseCase(
	txRunner FulfillmentTxRunner,
	ldg *ledger.Ledger,
	pedidoRepo repository.PedidoRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
) *PedidoUseCase {
	return &PedidoUseCase{
		txRunner:     txRunner,
		ledger:       ldg,
		pedidoRepo:   pedidoRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// Create registra un pedido en estado PENDIENTE. Valida proveedor y
// productos; no toca inventario.
func (uc *PedidoUseCase) Create(actorID string, in dto.CreatePedidoRequest) (*dto.PedidoResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
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
	pedido := &entity.Pedido{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Status:     entity.PedidoStatusPendiente,
		Note:       in.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
		CreatedBy:  actorID,
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		pedido.Items = append(pedido.Items, entity.PedidoItem{
			ID:        uuid.New().String(),
			PedidoID:  pedido.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}
	if err := uc.pedidoRepo.Create(pedido); err != nil {
		return nil, err
	}
	return toPedidoResponse(pedido), nil
}

// UpdateStatus aplica una transición de estado. Transiciones inválidas
// (hacia atrás, o desde un estado terminal) devuelven ErrConflict. La
// transición a RECIBIDO recibe la mercancía: todas las líneas entran al
// Ledger (ORDER_RECEIPT, con costo unitario para el promedio ponderado)
// junto con el cambio de estado, en una transacción.
func (uc *PedidoUseCase) UpdateStatus(ctx context.Context, id, newStatus, actorID string) (*dto.PedidoResponse, error) {
	pedido, err := uc.pedidoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pedido == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionPedido(pedido.Status, newStatus) {
		return nil, domain.ErrConflict
	}

	if newStatus != entity.PedidoStatusRecibido {
		// Transición solo de metadatos. El compare-and-set evita que dos
		// actualizaciones concurrentes apliquen ambas.
		if err := uc.pedidoRepo.UpdateStatusFrom(id, pedido.Status, newStatus); err != nil {
			return nil, err
		}
		pedido.Status = newStatus
		pedido.UpdatedAt = time.Now()
		return toPedidoResponse(pedido), nil
	}

	lines := make([]ledger.Line, 0, len(pedido.Items))
	for i := range pedido.Items {
		item := pedido.Items[i]
		unitCost := item.UnitCost
		lines = append(lines, ledger.Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  &unitCost,
		})
	}
	note := fmt.Sprintf("recepción pedido %s", pedido.ID)
	err = uc.txRunner.RunFulfillment(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		pedidoRepo repository.PedidoRepository,
		_ repository.RecetaRepository,
		_ repository.DevolucionRepository,
	) error {
		if err := uc.ledger.ApplyLinesInTx(movRepo, productRepo, lines, entity.MovementKindOrderReceipt, note, actorID, time.Now()); err != nil {
			return err
		}
		// Dentro de la transacción: si otra recepción del mismo pedido ganó
		// la carrera, el CAS falla y todo (entradas incluidas) se revierte.
		return pedidoRepo.UpdateStatusFrom(id, pedido.Status, entity.PedidoStatusRecibido)
	})
	if err != nil {
		return nil, err
	}
	pedido.Status = entity.PedidoStatusRecibido
	pedido.UpdatedAt = time.Now()
	return toPedidoResponse(pedido), nil
}

// GetByID obtiene un pedido con sus líneas.
func (uc *PedidoUseCase) GetByID(id string) (*dto.PedidoResponse, error) {
	pedido, err := uc.pedidoRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pedido == nil {
		return nil, nil
	}
	return toPedidoResponse(pedido), nil
}

// List lista pedidos con paginación.
func (uc *PedidoUseCase) List(limit, offset int) (*dto.PedidoListResponse, error) {
	list, err := uc.pedidoRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPedidoResponse(p))
	}
	return &dto.PedidoListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete borra el registro del pedido. Si ya fue recibido, las entradas
// de inventario que generó NO se revierten: el historial prevalece.
func (uc *PedidoUseCase) Delete(id string) error {
	pedido, err := uc.pedidoRepo.GetByID(id)
	if err != nil {
		return err
	}
	if pedido == nil {
		return domain.ErrNotFound
	}
	return uc.pedidoRepo.Delete(id)
}

func toPedidoResponse(p *entity.Pedido) *dto.PedidoResponse {
	if p == nil {
		return nil
	}
	items := make([]dto.PedidoItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.PedidoItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}
	return &dto.PedidoResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Status:     p.Status,
		Note:       p.Note,
		Items:      items,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
