package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeCatalogo struct {
	asigs   []model.Asignacion
	listErr error
}

var _ repository.CatalogoRepository = (*fakeCatalogo)(nil)

func (f *fakeCatalogo) FindArea(context.Context, uuid.UUID) (*model.Area, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCatalogo) FindModulo(context.Context, uuid.UUID) (*model.Modulo, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCatalogo) FindProfesional(context.Context, uuid.UUID) (*model.Profesional, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCatalogo) FindAsignacion(context.Context, uuid.UUID) (*model.Asignacion, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeCatalogo) ListAsignacionesVigentes(_ context.Context, inicio time.Time) ([]model.Asignacion, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.asigs, nil
}

// fakeMovs only implements what the generator calls.
type fakeMovs struct {
	repository.MovimientoRepository

	mu      sync.Mutex
	cargos  map[string]*model.Movimiento
	fail    map[uuid.UUID]error
	upserts int
}

func newFakeMovs() *fakeMovs {
	return &fakeMovs{cargos: map[string]*model.Movimiento{}, fail: map[uuid.UUID]error{}}
}

func (f *fakeMovs) UpsertCargo(_ context.Context, m *model.Movimiento) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if err, ok := f.fail[*m.AsignacionID]; ok {
		return err
	}
	k := m.PacienteID.String() + "|" + m.Periodo + "|" + m.ClaveAsignacion
	if e, ok := f.cargos[k]; ok {
		if e.Estado != model.EstadoCargoPagado && !e.EditadoManual {
			e.Monto, e.PrecioUnitario = m.Monto, m.PrecioUnitario
		}
		return nil
	}
	c := *m
	f.cargos[k] = &c
	return nil
}

func (f *fakeMovs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

func asignacion(precio int64, cantidad string) model.Asignacion {
	pac := &model.Paciente{ID: uuid.New(), DNI: "12345678"}
	mod := &model.Modulo{ID: uuid.New(), Nombre: "Sesión TO", ValorPadres: decimal.NewFromInt(precio)}
	prof := &model.Profesional{ID: uuid.New(), Nombre: "Laura", Apellido: "Díaz"}
	return model.Asignacion{
		ID:            uuid.New(),
		PacienteID:    pac.ID,
		ModuloID:      mod.ID,
		AreaID:        uuid.New(),
		ProfesionalID: &prof.ID,
		Cantidad:      cantidad,
		Desde:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Activa:        true,
		Paciente:      pac,
		Modulo:        mod,
		Profesional:   prof,
	}
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCargoDeAsignacion(t *testing.T) {
	a := asignacion(10000, "1/2")
	a.Overrides = map[string]interface{}{"valor": "12.000,00"}

	c := CargoDeAsignacion(&a, "2025-03")
	assert.Equal(t, model.TipoCargo, c.Tipo)
	assert.Equal(t, model.EstadoCargoPendiente, c.Estado)
	assert.Equal(t, "2025-03", c.Periodo)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), c.Fecha)
	assert.Equal(t, "asig:"+a.ID.String(), c.ClaveAsignacion)
	assert.Equal(t, "12000", c.PrecioUnitario.String())
	assert.Equal(t, "6000", c.Monto.String())
	assert.Equal(t, "1/2", c.CantidadTexto)
	assert.Equal(t, "Laura Díaz", c.ProfesionalNombre)
	assert.Equal(t, "12345678", c.PacienteDNI)
	require.NotNil(t, c.ModuloID)
	assert.Equal(t, a.ModuloID, *c.ModuloID)
}

func TestCargoDeAsignacion_CantidadPorDefecto(t *testing.T) {
	a := asignacion(8000, "")
	a.Profesional = nil
	c := CargoDeAsignacion(&a, "2025-03")
	assert.Equal(t, "1", c.CantidadTexto)
	assert.Equal(t, "8000", c.Monto.String())
	assert.Empty(t, c.ProfesionalNombre)
}

func TestGenerarCargos(t *testing.T) {
	ok1, ok2 := asignacion(10000, "1"), asignacion(5000, "2")
	sinModulo := asignacion(1, "1")
	sinModulo.Modulo = nil
	vencida := asignacion(1, "1")
	fin := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	vencida.Hasta = &fin
	dup, roto := asignacion(1, "1"), asignacion(1, "1")

	movs := newFakeMovs()
	movs.fail[dup.ID] = gorm.ErrDuplicatedKey
	movs.fail[roto.ID] = errors.New("connection reset")
	cat := &fakeCatalogo{asigs: []model.Asignacion{ok1, ok2, sinModulo, vencida, dup, roto}}

	res, err := GenerarCargos(context.Background(), cat, movs, "2025-03")
	require.NoError(t, err)
	assert.Equal(t, ResultadoCargos{Periodo: "2025-03", Procesados: 2, Duplicados: 1, Omitidos: 2, Errores: 1}, res)
	assert.Len(t, movs.cargos, 2)
}

func TestGenerarCargos_Idempotente(t *testing.T) {
	a := asignacion(10000, "1")
	movs := newFakeMovs()
	cat := &fakeCatalogo{asigs: []model.Asignacion{a}}

	for i := 0; i < 3; i++ {
		_, err := GenerarCargos(context.Background(), cat, movs, "2025-03")
		require.NoError(t, err)
	}
	assert.Len(t, movs.cargos, 1)
}

func TestGenerarCargos_NoTocaPagados(t *testing.T) {
	a := asignacion(10000, "1")
	movs := newFakeMovs()
	cat := &fakeCatalogo{asigs: []model.Asignacion{a}}

	_, err := GenerarCargos(context.Background(), cat, movs, "2025-03")
	require.NoError(t, err)
	for _, c := range movs.cargos {
		c.Estado = model.EstadoCargoPagado
	}

	cat.asigs[0].Modulo.ValorPadres = decimal.NewFromInt(99999)
	_, err = GenerarCargos(context.Background(), cat, movs, "2025-03")
	require.NoError(t, err)
	for _, c := range movs.cargos {
		assert.Equal(t, "10000", c.Monto.String())
	}
}

func TestGenerarCargos_ErrorAlListar(t *testing.T) {
	cat := &fakeCatalogo{listErr: errors.New("db down")}
	_, err := GenerarCargos(context.Background(), cat, newFakeMovs(), "2025-03")
	assert.Error(t, err)
}

func TestStartCargosMensuales_CorreAlInicioYSeDetiene(t *testing.T) {
	movs := newFakeMovs()
	cat := &fakeCatalogo{asigs: []model.Asignacion{asignacion(100, "1")}}
	ctx, cancel := context.WithCancel(context.Background())

	StartCargosMensuales(ctx, CargosMensualesConfig{
		Catalogo:    cat,
		Movimientos: movs,
		Interval:    time.Hour,
		Now:         func() time.Time { return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC) },
	})
	assert.Eventually(t, func() bool { return movs.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
}
