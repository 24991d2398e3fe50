package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmacia-pro/internal/application/ledger"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// newTestEnv arma el store compartido, el runner transaccional y el
// Ledger sobre el que se montan los casos de uso bajo prueba.
func newTestEnv() (*fakeStore, *fakeTxRunner, *ledger.Ledger) {
	store := newFakeStore()
	runner := &fakeTxRunner{store: store}
	return store, runner, ledger.New(runner)
}

// producto fabrica un producto con los campos que importan en estos tests.
func producto(id, name string, qty int64, cost string) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     name,
		Quantity: qty,
		Cost:     decimal.RequireFromString(cost),
		Price:    decimal.RequireFromString(cost).Mul(decimal.NewFromInt(2)),
	}
}

// fakeStore es la "base de datos" en memoria de los tests de casos de
// uso. La transacción se simula con snapshot + rollback y el bloqueo de
// filas con el mutex del store.
type fakeStore struct {
	mu           sync.Mutex
	products     map[string]*entity.Product
	movements    []*entity.Movement
	pedidos      map[string]*entity.Pedido
	recetas      map[string]*entity.Receta
	kits         map[string]*entity.Kit
	devoluciones map[string]*entity.Devolucion
	categories   map[string]*entity.Category
	suppliers    map[string]*entity.Supplier
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     make(map[string]*entity.Product),
		pedidos:      make(map[string]*entity.Pedido),
		recetas:      make(map[string]*entity.Receta),
		kits:         make(map[string]*entity.Kit),
		devoluciones: make(map[string]*entity.Devolucion),
		categories:   make(map[string]*entity.Category),
		suppliers:    make(map[string]*entity.Supplier),
	}
}

func (s *fakeStore) addProduct(p *entity.Product) {
	cp := *p
	s.products[p.ID] = &cp
}

func (s *fakeStore) addSupplier(sp *entity.Supplier) {
	cp := *sp
	s.suppliers[sp.ID] = &cp
}

func (s *fakeStore) addCategory(c *entity.Category) {
	cp := *c
	s.categories[c.ID] = &cp
}

type storeSnapshot struct {
	products map[string]*entity.Product
	movLen   int
	pedidos  map[string]string // id -> status
	recetas  map[string]string
	devolIDs map[string]bool
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products: make(map[string]*entity.Product, len(s.products)),
		movLen:   len(s.movements),
		pedidos:  make(map[string]string, len(s.pedidos)),
		recetas:  make(map[string]string, len(s.recetas)),
		devolIDs: make(map[string]bool, len(s.devoluciones)),
	}
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for id, p := range s.pedidos {
		snap.pedidos[id] = p.Status
	}
	for id, r := range s.recetas {
		snap.recetas[id] = r.Status
	}
	for id := range s.devoluciones {
		snap.devolIDs[id] = true
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.products = snap.products
	s.movements = s.movements[:snap.movLen]
	for id, status := range snap.pedidos {
		if p, ok := s.pedidos[id]; ok {
			p.Status = status
		}
	}
	for id, status := range snap.recetas {
		if r, ok := s.recetas[id]; ok {
			r.Status = status
		}
	}
	// Las devoluciones creadas dentro de la tx se descartan.
	for id := range s.devoluciones {
		if !snap.devolIDs[id] {
			delete(s.devoluciones, id)
		}
	}
}

// fakeTxRunner implementa ledger.TxRunner y usecase.FulfillmentTxRunner
// sobre el mismo store.
type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.MovementRepository, repository.ProductRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	if err := fn(&fakeMovementRepo{r.store}, &fakeProductRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunFulfillment(_ context.Context, fn func(
	repository.MovementRepository,
	repository.ProductRepository,
	repository.PedidoRepository,
	repository.RecetaRepository,
	repository.DevolucionRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&fakeMovementRepo{r.store},
		&fakeProductRepo{r.store},
		&fakePedidoRepo{r.store},
		&fakeRecetaRepo{r.store},
		&fakeDevolucionRepo{r.store},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.store.products {
		if existing.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByName(name string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

// Update replica el contrato del adaptador real: solo metadatos.
// quantity y cost pertenecen al Ledger y se tocan vía UpdateStock.
func (r *fakeProductRepo) Update(p *entity.Product) error {
	stored, ok := r.store.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Quantity = stored.Quantity
	cp.Cost = stored.Cost
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, quantity int64, cost decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	p.Cost = cost
	return nil
}

func (r *fakeProductRepo) List(_, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.store.products, id)
	return nil
}

type fakeMovementRepo struct{ store *fakeStore }

func (r *fakeMovementRepo) Append(m *entity.Movement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, _, _ int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListByLot imita al adaptador real: lote sin distinguir mayúsculas,
// a través de productos, del más reciente al más antiguo.
func (r *fakeMovementRepo) ListByLot(lotNumber string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if strings.EqualFold(m.LotNumber, lotNumber) {
			out = append(out, m)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMovementRepo) ListRecent(limit int) ([]*entity.Movement, error) {
	if len(r.store.movements) <= limit {
		return r.store.movements, nil
	}
	return r.store.movements[len(r.store.movements)-limit:], nil
}

type fakePedidoRepo struct{ store *fakeStore }

func (r *fakePedidoRepo) Create(p *entity.Pedido) error {
	cp := *p
	r.store.pedidos[p.ID] = &cp
	return nil
}

func (r *fakePedidoRepo) GetByID(id string) (*entity.Pedido, error) {
	p, ok := r.store.pedidos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePedidoRepo) UpdateStatusFrom(id, from, to string) error {
	p, ok := r.store.pedidos[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != from {
		return domain.ErrConflict
	}
	p.Status = to
	return nil
}

func (r *fakePedidoRepo) List(_, _ int) ([]*entity.Pedido, error) {
	var out []*entity.Pedido
	for _, p := range r.store.pedidos {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePedidoRepo) Delete(id string) error {
	delete(r.store.pedidos, id)
	return nil
}

type fakeRecetaRepo struct{ store *fakeStore }

func (r *fakeRecetaRepo) Create(rec *entity.Receta) error {
	cp := *rec
	r.store.recetas[rec.ID] = &cp
	return nil
}

func (r *fakeRecetaRepo) GetByID(id string) (*entity.Receta, error) {
	rec, ok := r.store.recetas[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRecetaRepo) UpdateStatusFrom(id, from, to string) error {
	rec, ok := r.store.recetas[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status != from {
		return domain.ErrConflict
	}
	rec.Status = to
	return nil
}

func (r *fakeRecetaRepo) List(_, _ int) ([]*entity.Receta, error) {
	var out []*entity.Receta
	for _, rec := range r.store.recetas {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRecetaRepo) Delete(id string) error {
	delete(r.store.recetas, id)
	return nil
}

type fakeKitRepo struct{ store *fakeStore }

func (r *fakeKitRepo) Create(k *entity.Kit) error {
	cp := *k
	r.store.kits[k.ID] = &cp
	return nil
}

func (r *fakeKitRepo) GetByID(id string) (*entity.Kit, error) {
	k, ok := r.store.kits[id]
	if !ok {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (r *fakeKitRepo) GetByName(name string) (*entity.Kit, error) {
	for _, k := range r.store.kits {
		if k.Name == name {
			cp := *k
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeKitRepo) Update(k *entity.Kit) error {
	cp := *k
	r.store.kits[k.ID] = &cp
	return nil
}

func (r *fakeKitRepo) List(_, _ int) ([]*entity.Kit, error) {
	var out []*entity.Kit
	for _, k := range r.store.kits {
		cp := *k
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeKitRepo) Delete(id string) error {
	delete(r.store.kits, id)
	return nil
}

type fakeDevolucionRepo struct{ store *fakeStore }

func (r *fakeDevolucionRepo) Create(d *entity.Devolucion) error {
	cp := *d
	r.store.devoluciones[d.ID] = &cp
	return nil
}

func (r *fakeDevolucionRepo) GetByID(id string) (*entity.Devolucion, error) {
	d, ok := r.store.devoluciones[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDevolucionRepo) List(_, _ int) ([]*entity.Devolucion, error) {
	var out []*entity.Devolucion
	for _, d := range r.store.devoluciones {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDevolucionRepo) Delete(id string) error {
	delete(r.store.devoluciones, id)
	return nil
}

type fakeCategoryRepo struct{ store *fakeStore }

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	for _, existing := range r.store.categories {
		if existing.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.store.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	c, ok := r.store.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(name string) (*entity.Category, error) {
	for _, c := range r.store.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) Update(c *entity.Category) error {
	cp := *c
	r.store.categories[c.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) List(_, _ int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.store.categories {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Delete(id string) error {
	delete(r.store.categories, id)
	return nil
}

type fakeSupplierRepo struct{ store *fakeStore }

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error {
	for _, existing := range r.store.suppliers {
		if existing.Name == s.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.store.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) GetByName(name string) (*entity.Supplier, error) {
	for _, s := range r.store.suppliers {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSupplierRepo) Update(s *entity.Supplier) error {
	cp := *s
	r.store.suppliers[s.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) List(_, _ int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.store.suppliers {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Delete(id string) error {
	delete(r.store.suppliers, id)
	return nil
}
