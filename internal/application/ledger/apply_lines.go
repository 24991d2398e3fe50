package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// Line es una línea (producto, cantidad) de una operación compuesta:
// recepción de pedido, dispensación de receta o venta de kit.
// UnitCost solo aplica a entradas (recepción de pedido).
type Line struct {
	ProductID string
	Quantity  int64
	UnitCost  *decimal.Decimal
}

// ApplyLines aplica todas las líneas como una sola unidad: o todas las
// operaciones del Ledger se confirman, o ninguna. Abre su propia
// transacción; para correr dentro de la transacción del caller usar
// ApplyLinesInTx.
func (l *Ledger) ApplyLines(ctx context.Context, lines []Line, kind, note, actorID string) error {
	return l.txRunner.Run(ctx, func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		return l.ApplyLinesInTx(movRepo, productRepo, lines, kind, note, actorID, time.Now())
	})
}

// ApplyLinesInTx implementa el protocolo de dos fases dentro de una
// transacción ya abierta:
//
//  1. Pre-check: bloquea la fila de cada producto (GetForUpdate) en
//     orden fijo por ID y verifica suficiencia para salidas. Cualquier
//     falla aborta antes de mutar nada, nombrando producto y faltante.
//  2. Commit: aplica entrada/salida por línea. Un error a mitad de la
//     fase hace rollback de toda la transacción: ninguna línea queda
//     aplicada a medias.
//
// El orden fijo de bloqueo evita deadlocks entre dos operaciones
// compuestas concurrentes que tocan productos en común.
func (l *Ledger) ApplyLinesInTx(movRepo repository.MovementRepository, productRepo repository.ProductRepository, lines []Line, kind, note, actorID string, now time.Time) error {
	if len(lines) == 0 || !entity.IsValidMovementKind(kind) {
		return domain.ErrInvalidInput
	}
	entry := entity.IsEntryKind(kind)

	// Líneas repetidas del mismo producto se suman en una sola, así la
	// verificación de suficiencia cubre el total pedido.
	merged := mergeLines(lines)
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })

	// Fase 1: bloquear en orden y verificar.
	products := make(map[string]*entity.Product, len(merged))
	for _, ln := range merged {
		if ln.Quantity <= 0 || ln.ProductID == "" {
			return domain.ErrInvalidInput
		}
		product, err := productRepo.GetForUpdate(ln.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !entry && product.Quantity < ln.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   ln.Quantity,
				Available:   product.Quantity,
			}
		}
		products[ln.ProductID] = product
	}

	// Fase 2: aplicar todas las líneas.
	for _, ln := range merged {
		in := MovementInput{
			ProductID: ln.ProductID,
			Quantity:  ln.Quantity,
			Kind:      kind,
			Note:      note,
			ActorID:   actorID,
			UnitCost:  ln.UnitCost,
		}
		var err error
		if entry {
			_, err = applyEntry(movRepo, productRepo, products[ln.ProductID], in, now)
		} else {
			_, err = applyExit(movRepo, productRepo, products[ln.ProductID], in, now)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeLines(lines []Line) []Line {
	index := make(map[string]int, len(lines))
	var merged []Line
	for _, ln := range lines {
		if i, ok := index[ln.ProductID]; ok {
			merged[i].Quantity += ln.Quantity
			if merged[i].UnitCost == nil {
				merged[i].UnitCost = ln.UnitCost
			}
			continue
		}
		index[ln.ProductID] = len(merged)
		merged = append(merged, ln)
	}
	return merged
}
