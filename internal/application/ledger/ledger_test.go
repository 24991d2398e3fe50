package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: simulan la transacción con snapshot + rollback y la
// serialización de FOR UPDATE con un mutex por store.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.Movement

	// failAppendAt provoca un error en el N-ésimo Append (1-based) para
	// probar el rollback de operaciones compuestas. 0 = sin fallo.
	failAppendAt int
	appendCount  int
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

func (s *memStore) snapshot() (map[string]*entity.Product, int) {
	prods := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		prods[id] = &cp
	}
	return prods, len(s.movements)
}

func (s *memStore) restore(prods map[string]*entity.Product, movLen int) {
	s.products = prods
	s.movements = s.movements[:movLen]
}

// memTxRunner serializa las "transacciones" con el mutex del store y
// revierte todo efecto si fn retorna error.
type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prods, movLen := r.store.snapshot()
	if err := fn(&memMovementRepo{store: r.store}, &memProductRepo{store: r.store}); err != nil {
		r.store.restore(prods, movLen)
		return err
	}
	return nil
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) Create(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProductRepo) Update(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(productID string, quantity int64, cost decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.Cost = cost
	return nil
}

func (r *memProductRepo) List(_, _ int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

type memMovementRepo struct {
	store *memStore
}

func (r *memMovementRepo) Append(m *entity.Movement) error {
	r.store.appendCount++
	if r.store.failAppendAt > 0 && r.store.appendCount == r.store.failAppendAt {
		return errors.New("fallo inyectado en append")
	}
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *memMovementRepo) ListByProduct(productID string, _, _ int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) ListByLot(_ string, _, _ int) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListRecent(_ int) ([]*entity.Movement, error) { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func producto(id, name string, quantity int64, cost string) *entity.Product {
	return &entity.Product{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		Cost:      decimal.RequireFromString(cost),
		LotNumber: "LOTE-" + id,
	}
}

func buildLedger(products ...*entity.Product) (*ledger.Ledger, *memStore) {
	store := newMemStore(products...)
	return ledger.New(&memTxRunner{store: store}), store
}

// replayQuantity reproduce la existencia de un producto aplicando sus
// movimientos en orden sobre cero. Verifica el invariante de que el log
// explica por completo la cantidad actual.
func replayQuantity(t *testing.T, store *memStore, productID string) int64 {
	t.Helper()
	var qty int64
	for _, m := range store.movements {
		if m.ProductID != productID {
			continue
		}
		require.Equal(t, qty, m.StockBefore, "la cadena stock_before debe ser causal")
		if entity.IsEntryKind(m.Kind) {
			qty += m.Quantity
		} else {
			qty -= m.Quantity
		}
		require.Equal(t, qty, m.StockAfter, "stock_after debe reflejar el delta")
		require.GreaterOrEqual(t, qty, int64(0), "la existencia nunca puede ser negativa")
	}
	return qty
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos individuales
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterExit_DescuentaStockYRegistraMovimiento(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Ibuprofeno 400mg", 10, "5.00"))

	newQty, mov, err := ldg.RegisterExit(context.Background(), ledger.MovementInput{
		ProductID: "p1",
		Quantity:  3,
		Kind:      entity.MovementKindManualExit,
		Note:      "venta mostrador",
		ActorID:   "emp1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), newQty)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementKindManualExit, mov.Kind)
	assert.Equal(t, int64(3), mov.Quantity)
	assert.Equal(t, int64(10), mov.StockBefore)
	assert.Equal(t, int64(7), mov.StockAfter)
	assert.Equal(t, "emp1", mov.CreatedBy)
	assert.Equal(t, "LOTE-p1", mov.LotNumber, "el lote se desnormaliza al momento de escribir")

	assert.Equal(t, int64(7), store.products["p1"].Quantity)
	assert.Len(t, store.movements, 1)
}

func TestRegisterExit_StockInsuficiente_SinEfectoParcial(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Ibuprofeno 400mg", 7, "5.00"))

	_, _, err := ldg.RegisterExit(context.Background(), ledger.MovementInput{
		ProductID: "p1",
		Quantity:  10,
		Kind:      entity.MovementKindManualExit,
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "debe ser el error tipado de stock insuficiente")
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Equal(t, "Ibuprofeno 400mg", stockErr.ProductName)
	assert.Equal(t, int64(10), stockErr.Requested)
	assert.Equal(t, int64(7), stockErr.Available)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nunca se recorta en silencio ni queda efecto parcial.
	assert.Equal(t, int64(7), store.products["p1"].Quantity)
	assert.Empty(t, store.movements)
}

func TestRegisterExit_CantidadInvalida(t *testing.T) {
	ldg, _ := buildLedger(producto("p1", "Ibuprofeno 400mg", 10, "5.00"))

	_, _, err := ldg.RegisterExit(context.Background(), ledger.MovementInput{
		ProductID: "p1", Quantity: 0, Kind: entity.MovementKindManualExit,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Kind de entrada no es válido para una salida.
	_, _, err = ldg.RegisterExit(context.Background(), ledger.MovementInput{
		ProductID: "p1", Quantity: 1, Kind: entity.MovementKindAdjustIn,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterEntry_SumaStockYRecalculaCostoPromedio(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Amoxicilina 500mg", 10, "10.00"))

	unitCost := decimal.RequireFromString("20.00")
	newQty, mov, err := ldg.RegisterEntry(context.Background(), ledger.MovementInput{
		ProductID: "p1",
		Quantity:  10,
		Kind:      entity.MovementKindAdjustIn,
		UnitCost:  &unitCost,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), newQty)
	assert.Equal(t, int64(10), mov.StockBefore)
	assert.Equal(t, int64(20), mov.StockAfter)

	// Promedio ponderado: (10*10 + 10*20) / 20 = 15.00
	assert.True(t, store.products["p1"].Cost.Equal(decimal.RequireFromString("15.00")),
		"costo promedio esperado 15.00, obtenido %s", store.products["p1"].Cost)
}

func TestRegisterEntry_SinCostoNoTocaElCosto(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Amoxicilina 500mg", 10, "10.00"))

	_, _, err := ldg.RegisterEntry(context.Background(), ledger.MovementInput{
		ProductID: "p1",
		Quantity:  5,
		Kind:      entity.MovementKindAdjustIn,
	})
	require.NoError(t, err)

	assert.True(t, store.products["p1"].Cost.Equal(decimal.RequireFromString("10.00")))
}

func TestRegisterEntry_ProductoInexistente(t *testing.T) {
	ldg, _ := buildLedger()

	_, _, err := ldg.RegisterEntry(context.Background(), ledger.MovementInput{
		ProductID: "nope", Quantity: 1, Kind: entity.MovementKindAdjustIn,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterAdjustment_DeltaPositivo(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Paracetamol", 10, "1.00"))

	mov, err := ldg.RegisterAdjustment(context.Background(), "p1", 15, "conteo físico", "emp1")
	require.NoError(t, err)

	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementKindAdjustIn, mov.Kind)
	assert.Equal(t, int64(5), mov.Quantity)
	assert.Equal(t, int64(15), store.products["p1"].Quantity)
}

func TestRegisterAdjustment_DeltaNegativo(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Paracetamol", 10, "1.00"))

	mov, err := ldg.RegisterAdjustment(context.Background(), "p1", 4, "merma", "emp1")
	require.NoError(t, err)

	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementKindAdjustOut, mov.Kind)
	assert.Equal(t, int64(6), mov.Quantity)
	assert.Equal(t, int64(4), store.products["p1"].Quantity)
}

// Delta cero es un no-op deliberado: no se crea ningún movimiento.
func TestRegisterAdjustment_DeltaCero_NoOp(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Paracetamol", 10, "1.00"))

	mov, err := ldg.RegisterAdjustment(context.Background(), "p1", 10, "sin cambio", "emp1")
	require.NoError(t, err)

	assert.Nil(t, mov)
	assert.Empty(t, store.movements)
	assert.Equal(t, int64(10), store.products["p1"].Quantity)
}

func TestRegisterAdjustment_NegativoRechazado(t *testing.T) {
	ldg, _ := buildLedger(producto("p1", "Paracetamol", 10, "1.00"))

	_, err := ldg.RegisterAdjustment(context.Background(), "p1", -1, "", "emp1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta de producto con existencia inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateWithInitialStock_RegistraMovimientoInitial(t *testing.T) {
	ldg, store := buildLedger()

	p := producto("p1", "Omeprazol", 25, "3.50")
	err := ldg.CreateWithInitialStock(context.Background(), p, entity.MovementKindInitial, "alta de producto", "emp1")
	require.NoError(t, err)

	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.MovementKindInitial, mov.Kind)
	assert.Equal(t, int64(0), mov.StockBefore)
	assert.Equal(t, int64(25), mov.StockAfter)
	assert.Equal(t, int64(25), store.products["p1"].Quantity)
}

func TestCreateWithInitialStock_CeroSinMovimiento(t *testing.T) {
	ldg, store := buildLedger()

	p := producto("p1", "Omeprazol", 0, "3.50")
	err := ldg.CreateWithInitialStock(context.Background(), p, entity.MovementKindInitial, "", "emp1")
	require.NoError(t, err)

	assert.Empty(t, store.movements)
	assert.Contains(t, store.products, "p1")
}

func TestCreateWithInitialStock_KindInvalido(t *testing.T) {
	ldg, _ := buildLedger()

	p := producto("p1", "Omeprazol", 5, "3.50")
	err := ldg.CreateWithInitialStock(context.Background(), p, entity.MovementKindManualExit, "", "emp1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones compuestas (ApplyLines)
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyLines_VentaKit_DescuentaTodosLosComponentes(t *testing.T) {
	ldg, store := buildLedger(
		producto("pA", "Gasas", 10, "1.00"),
		producto("pB", "Alcohol", 8, "2.00"),
	)

	err := ldg.ApplyLines(context.Background(), []ledger.Line{
		{ProductID: "pA", Quantity: 2},
		{ProductID: "pB", Quantity: 1},
	}, entity.MovementKindKitSale, "venta kit botiquín", "emp1")
	require.NoError(t, err)

	assert.Equal(t, int64(8), store.products["pA"].Quantity)
	assert.Equal(t, int64(7), store.products["pB"].Quantity)
	assert.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, entity.MovementKindKitSale, m.Kind)
		assert.Equal(t, "venta kit botiquín", m.Note)
	}
}

// Si un componente no alcanza, NINGÚN componente se descuenta.
func TestApplyLines_ComponenteSinStock_NadaSeAplica(t *testing.T) {
	ldg, store := buildLedger(
		producto("pA", "Gasas", 5, "1.00"),
		producto("pB", "Alcohol", 0, "2.00"),
	)

	err := ldg.ApplyLines(context.Background(), []ledger.Line{
		{ProductID: "pA", Quantity: 1},
		{ProductID: "pB", Quantity: 1},
	}, entity.MovementKindKitSale, "", "emp1")
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "pB", stockErr.ProductID)
	assert.Equal(t, "Alcohol", stockErr.ProductName)

	// pA quedó intacto: el pre-check aborta antes de mutar.
	assert.Equal(t, int64(5), store.products["pA"].Quantity)
	assert.Equal(t, int64(0), store.products["pB"].Quantity)
	assert.Empty(t, store.movements)
}

// Líneas duplicadas del mismo producto se suman: la suficiencia se
// verifica contra el total, no línea por línea.
func TestApplyLines_LineasDuplicadasSeSuman(t *testing.T) {
	ldg, store := buildLedger(producto("pA", "Gasas", 5, "1.00"))

	err := ldg.ApplyLines(context.Background(), []ledger.Line{
		{ProductID: "pA", Quantity: 3},
		{ProductID: "pA", Quantity: 3},
	}, entity.MovementKindPrescription, "", "emp1")
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(6), stockErr.Requested)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(5), store.products["pA"].Quantity)
}

func TestApplyLines_RecepcionPedido_EntradasConCosto(t *testing.T) {
	ldg, store := buildLedger(
		producto("pA", "Gasas", 10, "10.00"),
		producto("pB", "Alcohol", 0, "0"),
	)

	costA := decimal.RequireFromString("20.00")
	costB := decimal.RequireFromString("5.00")
	err := ldg.ApplyLines(context.Background(), []ledger.Line{
		{ProductID: "pA", Quantity: 10, UnitCost: &costA},
		{ProductID: "pB", Quantity: 4, UnitCost: &costB},
	}, entity.MovementKindOrderReceipt, "recepción pedido x", "emp1")
	require.NoError(t, err)

	assert.Equal(t, int64(20), store.products["pA"].Quantity)
	assert.True(t, store.products["pA"].Cost.Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, int64(4), store.products["pB"].Quantity)
	assert.True(t, store.products["pB"].Cost.Equal(decimal.RequireFromString("5.00")))
}

// Un fallo a mitad de la fase de aplicación revierte la transacción
// completa: ninguna línea queda aplicada.
func TestApplyLines_FalloAMitad_RollbackTotal(t *testing.T) {
	store := newMemStore(
		producto("pA", "Gasas", 10, "1.00"),
		producto("pB", "Alcohol", 10, "2.00"),
	)
	store.failAppendAt = 2
	ldg := ledger.New(&memTxRunner{store: store})

	err := ldg.ApplyLines(context.Background(), []ledger.Line{
		{ProductID: "pA", Quantity: 1},
		{ProductID: "pB", Quantity: 1},
	}, entity.MovementKindKitSale, "", "emp1")
	require.Error(t, err)

	assert.Equal(t, int64(10), store.products["pA"].Quantity)
	assert.Equal(t, int64(10), store.products["pB"].Quantity)
	assert.Empty(t, store.movements)
}

func TestApplyLines_SinLineasOKindInvalido(t *testing.T) {
	ldg, _ := buildLedger(producto("pA", "Gasas", 10, "1.00"))

	err := ldg.ApplyLines(context.Background(), nil, entity.MovementKindKitSale, "", "emp1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = ldg.ApplyLines(context.Background(), []ledger.Line{{ProductID: "pA", Quantity: 1}}, "RARO", "", "emp1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia e invariantes
// ──────────────────────────────────────────────────────────────────────────────

// Dos salidas concurrentes compitiendo por la última unidad: exactamente
// una gana, la otra recibe stock insuficiente, el stock nunca baja de cero.
func TestRegisterExit_Concurrente_SoloUnaGana(t *testing.T) {
	ldg, store := buildLedger(producto("p1", "Insulina", 1, "50.00"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = ldg.RegisterExit(context.Background(), ledger.MovementInput{
				ProductID: "p1",
				Quantity:  1,
				Kind:      entity.MovementKindManualExit,
			})
		}(i)
	}
	wg.Wait()

	var okCount, stockErrCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			stockErrCount++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, okCount, "exactamente una salida debe ganar")
	assert.Equal(t, 1, stockErrCount, "la otra debe fallar por stock insuficiente")
	assert.Equal(t, int64(0), store.products["p1"].Quantity)
	assert.Len(t, store.movements, 1)
}

// El log de movimientos explica por completo la existencia actual:
// reproducirlo desde cero da exactamente la cantidad del producto.
func TestMovimientos_ReplayReproduceExistencia(t *testing.T) {
	ldg, store := buildLedger()
	ctx := context.Background()

	p := producto("p1", "Loratadina", 30, "2.00")
	require.NoError(t, ldg.CreateWithInitialStock(ctx, p, entity.MovementKindInitial, "alta", "emp1"))

	_, _, err := ldg.RegisterExit(ctx, ledger.MovementInput{ProductID: "p1", Quantity: 12, Kind: entity.MovementKindManualExit})
	require.NoError(t, err)

	cost := decimal.RequireFromString("3.00")
	_, _, err = ldg.RegisterEntry(ctx, ledger.MovementInput{ProductID: "p1", Quantity: 20, Kind: entity.MovementKindOrderReceipt, UnitCost: &cost})
	require.NoError(t, err)

	_, err = ldg.RegisterAdjustment(ctx, "p1", 35, "conteo", "emp1")
	require.NoError(t, err)

	_, _, err = ldg.RegisterExit(ctx, ledger.MovementInput{ProductID: "p1", Quantity: 5, Kind: entity.MovementKindSupplierReturn})
	require.NoError(t, err)

	replayed := replayQuantity(t, store, "p1")
	assert.Equal(t, store.products["p1"].Quantity, replayed,
		"reproducir los movimientos debe dar la existencia actual")
	assert.Equal(t, int64(30), replayed)
}

// ──────────────────────────────────────────────────────────────────────────────
// ExitInTx / EntryInTx (uso dentro de la tx del caller)
// ──────────────────────────────────────────────────────────────────────────────

func TestExitInTx_UsaLaTransaccionDelCaller(t *testing.T) {
	store := newMemStore(producto("p1", "Vendas", 6, "1.00"))
	runner := &memTxRunner{store: store}
	ldg := ledger.New(runner)

	err := runner.Run(context.Background(), func(movRepo repository.MovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetForUpdate("p1")
		if err != nil {
			return err
		}
		_, err = ldg.ExitInTx(movRepo, productRepo, product, ledger.MovementInput{
			ProductID: "p1", Quantity: 2, Kind: entity.MovementKindSupplierReturn,
		}, time.Now())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), store.products["p1"].Quantity)
	assert.Len(t, store.movements, 1)
}
