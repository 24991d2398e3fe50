package usecase

import (
	"context"

	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// MovementUseCase expone los movimientos manuales y las consultas de
// historial (por producto y por lote, para trazabilidad).
type MovementUseCase struct {
	ledger       *ledger.Ledger
	movementRepo repository.MovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(ldg *ledger.Ledger, movementRepo repository.MovementRepository) *MovementUseCase {
	return &MovementUseCase{ledger: ldg, movementRepo: movementRepo}
}

// RegisterExit registra una salida manual (venta en mostrador, merma).
func (uc *MovementUseCase) RegisterExit(ctx context.Context, actorID string, in dto.RegisterExitRequest) (*dto.MovementResultResponse, error) {
	newQty, mov, err := uc.ledger.RegisterExit(ctx, ledger.MovementInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Kind:      entity.MovementKindManualExit,
		Note:      in.Note,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResultResponse{
		NewQuantity: newQty,
		Movement:    ToMovementResponse(mov),
	}, nil
}

// RegisterEntry registra una entrada manual como ajuste positivo.
func (uc *MovementUseCase) RegisterEntry(ctx context.Context, actorID string, in dto.RegisterEntryRequest) (*dto.MovementResultResponse, error) {
	newQty, mov, err := uc.ledger.RegisterEntry(ctx, ledger.MovementInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Kind:      entity.MovementKindAdjustIn,
		Note:      in.Note,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResultResponse{
		NewQuantity: newQty,
		Movement:    ToMovementResponse(mov),
	}, nil
}

// HistoryForProduct devuelve el historial del producto, más reciente primero.
func (uc *MovementUseCase) HistoryForProduct(productID string, limit, offset int) (*dto.MovementListResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(list, limit, offset), nil
}

// HistoryForLot devuelve los movimientos de todos los productos que
// comparten el lote (comparación exacta sin distinguir mayúsculas),
// más reciente primero.
func (uc *MovementUseCase) HistoryForLot(lotNumber string, limit, offset int) (*dto.MovementListResponse, error) {
	if lotNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.ListByLot(lotNumber, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementList(list, limit, offset), nil
}

func toMovementList(list []*entity.Movement, limit, offset int) *dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
