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

// RecetaUseCase gestiona recetas médicas. Dispensar descuenta todos los
// medicamentos y marca la receta DISPENSADA en una sola transacción; si
// algún medicamento no alcanza, nada cambia.
type RecetaUseCase struct {
	txRunner    FulfillmentTxRunner
	ledger      *ledger.Ledger
	recetaRepo  repository.RecetaRepository
	productRepo repository.ProductRepository
}

// NewRecetaUseCase construye el caso de uso.
func NewRecetaUseCase(
	txRunner FulfillmentTxRunner,
	ldg *ledger.Ledger,
	recetaRepo repository.RecetaRepository,
	productRepo repository.ProductRepository,
) *RecetaUseCase {
	return &RecetaUseCase{
		txRunner:    txRunner,
		ledger:      ldg,
		recetaRepo:  recetaRepo,
		productRepo: productRepo,
	}
}

// Create registra una receta en estado PENDIENTE; no toca inventario.
func (uc *RecetaUseCase) Create(actorID string, in dto.CreateRecetaRequest) (*dto.RecetaResponse, error) {
	if in.Patient == "" || in.Doctor == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	receta := &entity.Receta{
		ID:        uuid.New().String(),
		Patient:   in.Patient,
		Doctor:    in.Doctor,
		Status:    entity.RecetaStatusPendiente,
		Note:      in.Note,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: actorID,
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
		receta.Items = append(receta.Items, entity.RecetaItem{
			ID:        uuid.New().String(),
			RecetaID:  receta.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Dosage:    item.Dosage,
		})
	}
	if err := uc.recetaRepo.Create(receta); err != nil {
		return nil, err
	}
	return toRecetaResponse(receta), nil
}

// Dispense descuenta todos los medicamentos de la receta (PRESCRIPTION)
// y la marca DISPENSADA, como unidad atómica. Receta ya dispensada o
// cancelada devuelve ErrConflict.
func (uc *RecetaUseCase) Dispense(ctx context.Context, id, actorID string) (*dto.RecetaResponse, error) {
	receta, err := uc.recetaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta == nil {
		return nil, domain.ErrNotFound
	}
	if receta.Status != entity.RecetaStatusPendiente {
		return nil, domain.ErrConflict
	}
	lines := make([]ledger.Line, 0, len(receta.Items))
	for _, item := range receta.Items {
		lines = append(lines, ledger.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	note := fmt.Sprintf("dispensación receta %s (paciente %s)", receta.ID, receta.Patient)
	err = uc.txRunner.RunFulfillment(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.PedidoRepository,
		recetaRepo repository.RecetaRepository,
		_ repository.DevolucionRepository,
	) error {
		if err := uc.ledger.ApplyLinesInTx(movRepo, productRepo, lines, entity.MovementKindPrescription, note, actorID, time.Now()); err != nil {
			return err
		}
		// Compare-and-set dentro de la transacción: si otra dispensación
		// concurrente ya la marcó, falla con ErrConflict y los descuentos
		// de esta transacción se revierten.
		return recetaRepo.UpdateStatusFrom(id, entity.RecetaStatusPendiente, entity.RecetaStatusDispensada)
	})
	if err != nil {
		return nil, err
	}
	receta.Status = entity.RecetaStatusDispensada
	receta.UpdatedAt = time.Now()
	return toRecetaResponse(receta), nil
}

// Cancel marca la receta CANCELADA. Solo metadatos; una receta ya
// dispensada no se puede cancelar (ErrConflict).
func (uc *RecetaUseCase) Cancel(id string) (*dto.RecetaResponse, error) {
	receta, err := uc.recetaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta == nil {
		return nil, domain.ErrNotFound
	}
	if receta.Status != entity.RecetaStatusPendiente {
		return nil, domain.ErrConflict
	}
	if err := uc.recetaRepo.UpdateStatusFrom(id, entity.RecetaStatusPendiente, entity.RecetaStatusCancelada); err != nil {
		return nil, err
	}
	receta.Status = entity.RecetaStatusCancelada
	receta.UpdatedAt = time.Now()
	return toRecetaResponse(receta), nil
}

// GetByID obtiene una receta con sus medicamentos.
func (uc *RecetaUseCase) GetByID(id string) (*dto.RecetaResponse, error) {
	receta, err := uc.recetaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta == nil {
		return nil, nil
	}
	return toRecetaResponse(receta), nil
}

// List lista recetas con paginación.
func (uc *RecetaUseCase) List(limit, offset int) (*dto.RecetaListResponse, error) {
	list, err := uc.recetaRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RecetaResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRecetaResponse(r))
	}
	return &dto.RecetaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toRecetaResponse(r *entity.Receta) *dto.RecetaResponse {
	if r == nil {
		return nil
	}
	items := make([]dto.RecetaItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, dto.RecetaItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Dosage:    item.Dosage,
		})
	}
	return &dto.RecetaResponse{
		ID:        r.ID,
		Patient:   r.Patient,
		Doctor:    r.Doctor,
		Status:    r.Status,
		Note:      r.Note,
		Items:     items,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
