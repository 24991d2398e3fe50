package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

func kitBotiquin(store *fakeStore) *entity.Kit {
	kit := &entity.Kit{
		ID: "kit-1", Name: "Botiquín básico", Price: decimal.RequireFromString("45.00"),
		Components: []entity.KitComponent{
			{ID: "c1", KitID: "kit-1", ProductID: "p1", Quantity: 2},
			{ID: "c2", KitID: "kit-1", ProductID: "p2", Quantity: 1},
		},
	}
	store.kits[kit.ID] = kit
	return kit
}

func TestKitCreate_ValidaComponentes(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	resp, err := uc.Create(dto.CreateKitRequest{
		Name:       "Botiquín básico",
		Price:      decimal.RequireFromString("45.00"),
		Components: []dto.KitComponentRequest{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Components, 1)
	assert.Empty(t, store.movements, "crear un kit no toca inventario")

	// Nombre repetido.
	_, err = uc.Create(dto.CreateKitRequest{
		Name:       "Botiquín básico",
		Components: []dto.KitComponentRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// Componente inexistente.
	_, err = uc.Create(dto.CreateKitRequest{
		Name:       "Botiquín viajero",
		Components: []dto.KitComponentRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKitSell_MultiplicaComponentesPorCantidad(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	store.addProduct(producto("p2", "Alcohol 70%", 20, "3.00"))
	kitBotiquin(store)
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	// 3 kits: 3×2 gasas, 3×1 alcohol.
	err := uc.Sell(context.Background(), "kit-1", 3, "", "emp-1")
	require.NoError(t, err)

	assert.Equal(t, int64(44), store.products["p1"].Quantity)
	assert.Equal(t, int64(17), store.products["p2"].Quantity)

	require.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, entity.MovementKindKitSale, m.Kind)
		assert.Equal(t, "venta kit Botiquín básico x3", m.Note)
	}
}

func TestKitSell_NotaPersonalizada(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	store.addProduct(producto("p2", "Alcohol 70%", 20, "3.00"))
	kitBotiquin(store)
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	require.NoError(t, uc.Sell(context.Background(), "kit-1", 1, "venta mostrador turno tarde", "emp-1"))
	require.NotEmpty(t, store.movements)
	assert.Equal(t, "venta mostrador turno tarde", store.movements[0].Note)
}

func TestKitSell_ComponenteSinStock_NadaSeDescuenta(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	store.addProduct(producto("p2", "Alcohol 70%", 2, "3.00"))
	kitBotiquin(store)
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	// 3 kits piden 3 alcoholes y solo hay 2.
	err := uc.Sell(context.Background(), "kit-1", 3, "", "emp-1")

	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "p2", insuf.ProductID)
	assert.Equal(t, int64(3), insuf.Requested)
	assert.Equal(t, int64(2), insuf.Available)

	assert.Equal(t, int64(50), store.products["p1"].Quantity, "el componente con stock tampoco se descuenta")
	assert.Equal(t, int64(2), store.products["p2"].Quantity)
	assert.Empty(t, store.movements)
}

func TestKitSell_KitInexistenteYCantidadInvalida(t *testing.T) {
	store, _, ldg := newTestEnv()
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	require.ErrorIs(t, uc.Sell(context.Background(), "fantasma", 1, "", "emp-1"), domain.ErrNotFound)
	require.ErrorIs(t, uc.Sell(context.Background(), "fantasma", 0, "", "emp-1"), domain.ErrInvalidInput)
}

func TestKitUpdate_ReemplazaComponentesSinTocarStock(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	store.addProduct(producto("p2", "Alcohol 70%", 20, "3.00"))
	store.addProduct(producto("p3", "Vendas elásticas", 15, "2.00"))
	kitBotiquin(store)
	store.kits["kit-2"] = &entity.Kit{ID: "kit-2", Name: "Botiquín viajero"}
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	resp, err := uc.Update("kit-1", dto.CreateKitRequest{
		Name:       "Botiquín básico v2",
		Price:      decimal.RequireFromString("52.00"),
		Components: []dto.KitComponentRequest{{ProductID: "p3", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Botiquín básico v2", resp.Name)
	require.Len(t, resp.Components, 1)
	assert.Equal(t, "p3", resp.Components[0].ProductID)
	assert.Empty(t, store.movements, "actualizar un kit no toca inventario")

	// El nombre de otro kit existente se rechaza.
	_, err = uc.Update("kit-1", dto.CreateKitRequest{
		Name:       "Botiquín viajero",
		Components: []dto.KitComponentRequest{{ProductID: "p3", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestKitDelete_LasVentasPermanecen(t *testing.T) {
	store, _, ldg := newTestEnv()
	store.addProduct(producto("p1", "Gasas estériles", 50, "1.00"))
	store.addProduct(producto("p2", "Alcohol 70%", 20, "3.00"))
	kitBotiquin(store)
	uc := usecase.NewKitUseCase(ldg, &fakeKitRepo{store}, &fakeProductRepo{store})

	require.NoError(t, uc.Sell(context.Background(), "kit-1", 1, "", "emp-1"))
	movimientosAntes := len(store.movements)

	require.NoError(t, uc.Delete("kit-1"))
	_, ok := store.kits["kit-1"]
	assert.False(t, ok)
	assert.Len(t, store.movements, movimientosAntes, "borrar el kit no borra sus ventas del log")
	assert.Equal(t, int64(48), store.products["p1"].Quantity)
}
