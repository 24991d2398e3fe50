package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// Ledger es la única autoridad para cambiar la existencia de un producto.
// Cada mutación corre en una transacción con bloqueo de fila
// (SELECT FOR UPDATE) y deja exactamente un registro en movements, así
// dos salidas concurrentes sobre el mismo producto nunca pasan la
// verificación de suficiencia con una cantidad vieja.
type Ledger struct {
	txRunner TxRunner
}

// New construye el Ledger.
func New(txRunner TxRunner) *Ledger {
	return &Ledger{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento individual.
// UnitCost solo aplica a entradas: recalcula el costo promedio ponderado.
type MovementInput struct {
	ProductID string
	Quantity  int64
	Kind      string
	Note      string
	ActorID   string
	UnitCost  *decimal.Decimal
}

// RegisterEntry suma stock. Precondiciones: Quantity > 0, el producto
// existe y Kind es un tipo de entrada. Sin tope superior.
func (l *Ledger) RegisterEntry(ctx context.Context, in MovementInput) (int64, *entity.Movement, error) {
	if in.Quantity <= 0 || !entity.IsEntryKind(in.Kind) {
		return 0, nil, domain.ErrInvalidInput
	}
	var (
		newQty int64
		mov    *entity.Movement
	)
	err := l.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		mov, err = applyEntry(movRepo, productRepo, product, in, time.Now())
		if err != nil {
			return err
		}
		newQty = product.Quantity
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return newQty, mov, nil
}

// RegisterExit resta stock. Falla con InsufficientStockError (envuelve
// domain.ErrInsufficientStock) si la existencia no alcanza; en ese caso
// no queda ningún efecto parcial.
func (l *Ledger) RegisterExit(ctx context.Context, in MovementInput) (int64, *entity.Movement, error) {
	if in.Quantity <= 0 || entity.IsEntryKind(in.Kind) || !entity.IsValidMovementKind(in.Kind) {
		return 0, nil, domain.ErrInvalidInput
	}
	var (
		newQty int64
		mov    *entity.Movement
	)
	err := l.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		mov, err = applyExit(movRepo, productRepo, product, in, time.Now())
		if err != nil {
			return err
		}
		newQty = product.Quantity
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return newQty, mov, nil
}

// RegisterAdjustment fija la existencia en newQuantity (edición directa
// desde el formulario). Calcula el delta contra la fila bloqueada y lo
// registra como ADJUST_IN o ADJUST_OUT. Delta cero es un no-op: no se
// crea movimiento, comportamiento deliberado y preservado.
func (l *Ledger) RegisterAdjustment(ctx context.Context, productID string, newQuantity int64, note, actorID string) (*entity.Movement, error) {
	if newQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := newQuantity - product.Quantity
		if delta == 0 {
			return nil
		}
		in := MovementInput{ProductID: productID, Note: note, ActorID: actorID}
		now := time.Now()
		if delta > 0 {
			in.Quantity = delta
			in.Kind = entity.MovementKindAdjustIn
			mov, err = applyEntry(movRepo, productRepo, product, in, now)
		} else {
			in.Quantity = -delta
			in.Kind = entity.MovementKindAdjustOut
			mov, err = applyExit(movRepo, productRepo, product, in, now)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateWithInitialStock crea el producto y, si trae existencia inicial,
// registra el movimiento de alta (INITIAL o CSV_IMPORT) en la misma
// transacción. Con existencia cero no se crea movimiento.
func (l *Ledger) CreateWithInitialStock(ctx context.Context, product *entity.Product, kind, note, actorID string) error {
	if kind != entity.MovementKindInitial && kind != entity.MovementKindCSVImport {
		return domain.ErrInvalidInput
	}
	if product.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	return l.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if product.Quantity == 0 {
			return nil
		}
		mov := &entity.Movement{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			LotNumber:   product.LotNumber,
			Kind:        kind,
			Quantity:    product.Quantity,
			StockBefore: 0,
			StockAfter:  product.Quantity,
			Note:        note,
			CreatedAt:   time.Now(),
			CreatedBy:   actorID,
		}
		return movRepo.Append(mov)
	})
}

// ExitInTx aplica una salida usando los repositorios de la transacción
// del caller (flujos compuestos). El caller debe haber obtenido el
// producto con GetForUpdate en esa misma transacción.
func (l *Ledger) ExitInTx(movRepo repository.MovementRepository, productRepo repository.ProductRepository, product *entity.Product, in MovementInput, now time.Time) (*entity.Movement, error) {
	return applyExit(movRepo, productRepo, product, in, now)
}

// EntryInTx aplica una entrada en la transacción del caller.
func (l *Ledger) EntryInTx(movRepo repository.MovementRepository, productRepo repository.ProductRepository, product *entity.Product, in MovementInput, now time.Time) (*entity.Movement, error) {
	return applyEntry(movRepo, productRepo, product, in, now)
}

// applyEntry asume la fila de product ya bloqueada en la tx actual.
func applyEntry(movRepo repository.MovementRepository, productRepo repository.ProductRepository, product *entity.Product, in MovementInput, now time.Time) (*entity.Movement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	before := product.Quantity
	product.Quantity = before + in.Quantity
	if in.UnitCost != nil {
		product.Cost = inventory.CostCalculator(before, product.Cost, in.Quantity, *in.UnitCost)
	}
	if err := productRepo.UpdateStock(product.ID, product.Quantity, product.Cost); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		LotNumber:   product.LotNumber,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  product.Quantity,
		Note:        in.Note,
		CreatedAt:   now,
		CreatedBy:   in.ActorID,
	}
	if err := movRepo.Append(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// applyExit asume la fila de product ya bloqueada en la tx actual.
// La verificación de suficiencia ocurre aquí, contra la fila bloqueada;
// nunca se recorta la cantidad en silencio.
func applyExit(movRepo repository.MovementRepository, productRepo repository.ProductRepository, product *entity.Product, in MovementInput, now time.Time) (*entity.Movement, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if product.Quantity < in.Quantity {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   in.Quantity,
			Available:   product.Quantity,
		}
	}
	before := product.Quantity
	product.Quantity = before - in.Quantity
	if err := productRepo.UpdateStock(product.ID, product.Quantity, product.Cost); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		LotNumber:   product.LotNumber,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  product.Quantity,
		Note:        in.Note,
		CreatedAt:   now,
		CreatedBy:   in.ActorID,
	}
	if err := movRepo.Append(mov); err != nil {
		return nil, err
	}
	return mov, nil
}
