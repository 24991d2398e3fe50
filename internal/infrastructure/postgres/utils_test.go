package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// stubQuerier registra los SQL ejecutados; sirve para verificar el
// comportamiento de los adaptadores sin una base real.
type stubQuerier struct {
	execs  []string
	tag    string // command tag a devolver, p.ej. "UPDATE 1"
	failOn string // falla el Exec cuyo SQL contenga este fragmento
}

func (s *stubQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, sql)
	if s.failOn != "" && strings.Contains(sql, s.failOn) {
		return pgconn.CommandTag{}, errors.New("exec falló")
	}
	tag := s.tag
	if tag == "" {
		tag = "INSERT 0 1"
	}
	return pgconn.NewCommandTag(tag), nil
}

func (s *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no implementado")
}

func (s *stubQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

// Un Querier que ya es transacción debe pasar directo, sin abrir otra.
func TestInTx_QuerierNoPoolPasaDirecto(t *testing.T) {
	q := &stubQuerier{}
	var recibido Querier
	err := inTx(q, func(inner Querier) error {
		recibido = inner
		return nil
	})
	require.NoError(t, err)
	assert.Same(t, q, recibido.(*stubQuerier), "debe ejecutar sobre el mismo Querier")
}

func TestInTx_PropagaError(t *testing.T) {
	q := &stubQuerier{}
	quiso := errors.New("algo salió mal")
	err := inTx(q, func(Querier) error { return quiso })
	assert.ErrorIs(t, err, quiso)
}

func TestKitRepoCreate_InsertaCabeceraYComponentes(t *testing.T) {
	q := &stubQuerier{}
	repo := NewKitRepository(q)

	kit := &entity.Kit{
		ID: "kit-1", Name: "Botiquín",
		Components: []entity.KitComponent{
			{ID: "c1", KitID: "kit-1", ProductID: "p1", Quantity: 2},
			{ID: "c2", KitID: "kit-1", ProductID: "p2", Quantity: 1},
		},
	}
	require.NoError(t, repo.Create(kit))

	require.Len(t, q.execs, 3)
	assert.Contains(t, q.execs[0], "INSERT INTO kits")
	assert.Contains(t, q.execs[1], "INSERT INTO kit_components")
	assert.Contains(t, q.execs[2], "INSERT INTO kit_components")
}

func TestKitRepoCreate_ErrorEnComponentePropaga(t *testing.T) {
	q := &stubQuerier{failOn: "kit_components"}
	repo := NewKitRepository(q)

	err := repo.Create(&entity.Kit{
		ID: "kit-1", Name: "Botiquín",
		Components: []entity.KitComponent{{ID: "c1", KitID: "kit-1", ProductID: "p1", Quantity: 1}},
	})
	assert.Error(t, err)
}

// Cero filas afectadas en el compare-and-set significa que el estado
// cambió por debajo: el adaptador lo reporta como conflicto.
func TestPedidoUpdateStatusFrom_CeroFilasEsConflicto(t *testing.T) {
	q := &stubQuerier{tag: "UPDATE 0"}
	repo := NewPedidoRepository(q)

	err := repo.UpdateStatusFrom("ped-1", entity.PedidoStatusEnviado, entity.PedidoStatusRecibido)
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, q.execs, 1)
	assert.Contains(t, q.execs[0], "AND status = $2")
}

func TestRecetaUpdateStatusFrom_CeroFilasEsConflicto(t *testing.T) {
	q := &stubQuerier{tag: "UPDATE 0"}
	repo := NewRecetaRepository(q)

	err := repo.UpdateStatusFrom("rec-1", entity.RecetaStatusPendiente, entity.RecetaStatusDispensada)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateStatusFrom_UnaFilaOK(t *testing.T) {
	q := &stubQuerier{tag: "UPDATE 1"}
	repo := NewRecetaRepository(q)

	require.NoError(t, repo.UpdateStatusFrom("rec-1", entity.RecetaStatusPendiente, entity.RecetaStatusCancelada))
}
