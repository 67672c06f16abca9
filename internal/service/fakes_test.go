package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory PacienteRepository ─────────────────────────────────────────────

type fakePacienteRepo struct{ byDNI map[string]*model.Paciente }

var _ repository.PacienteRepository = (*fakePacienteRepo)(nil)

func newFakePacienteRepo(ps ...*model.Paciente) *fakePacienteRepo {
	r := &fakePacienteRepo{byDNI: map[string]*model.Paciente{}}
	for _, p := range ps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.byDNI[p.DNI] = p
	}
	return r
}

func (r *fakePacienteRepo) FindByDNI(_ context.Context, dni string) (*model.Paciente, error) {
	p, ok := r.byDNI[dni]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

// ── In-memory CatalogoRepository ─────────────────────────────────────────────

type fakeCatalogoRepo struct {
	areas         map[uuid.UUID]*model.Area
	modulos       map[uuid.UUID]*model.Modulo
	profesionales map[uuid.UUID]*model.Profesional
	asignaciones  map[uuid.UUID]*model.Asignacion
	moduloLookups int
}

var _ repository.CatalogoRepository = (*fakeCatalogoRepo)(nil)

func newFakeCatalogoRepo() *fakeCatalogoRepo {
	return &fakeCatalogoRepo{
		areas:         map[uuid.UUID]*model.Area{},
		modulos:       map[uuid.UUID]*model.Modulo{},
		profesionales: map[uuid.UUID]*model.Profesional{},
		asignaciones:  map[uuid.UUID]*model.Asignacion{},
	}
}

func (r *fakeCatalogoRepo) FindArea(_ context.Context, id uuid.UUID) (*model.Area, error) {
	if a, ok := r.areas[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCatalogoRepo) FindModulo(_ context.Context, id uuid.UUID) (*model.Modulo, error) {
	r.moduloLookups++
	if m, ok := r.modulos[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCatalogoRepo) FindProfesional(_ context.Context, id uuid.UUID) (*model.Profesional, error) {
	if p, ok := r.profesionales[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCatalogoRepo) FindAsignacion(_ context.Context, id uuid.UUID) (*model.Asignacion, error) {
	if a, ok := r.asignaciones[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCatalogoRepo) ListAsignacionesVigentes(_ context.Context, inicioMes time.Time) ([]model.Asignacion, error) {
	var out []model.Asignacion
	for _, a := range r.asignaciones {
		if a.Activa && a.VigenteEn(inicioMes) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// ── In-memory MovimientoRepository ───────────────────────────────────────────
// Mirrors the SQL guards: PAID charges are never updated or bulk-deleted.

type fakeMovRepo struct {
	mu   sync.Mutex
	movs []model.Movimiento
	seq  int
}

var _ repository.MovimientoRepository = (*fakeMovRepo)(nil)

func newFakeMovRepo() *fakeMovRepo { return &fakeMovRepo{} }

func (r *fakeMovRepo) DB() *gorm.DB { return nil }

func (r *fakeMovRepo) seed(ms ...model.Movimiento) {
	for i := range ms {
		_ = r.Create(context.Background(), nil, &ms[i])
	}
}

func (r *fakeMovRepo) all() []model.Movimiento {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Movimiento, len(r.movs))
	copy(out, r.movs)
	return out
}

func (r *fakeMovRepo) byTipo(tipo string) []model.Movimiento {
	var out []model.Movimiento
	for _, m := range r.all() {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

func contiene(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (r *fakeMovRepo) List(_ context.Context, _ *gorm.DB, f repository.MovimientoFilter) ([]model.Movimiento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Movimiento
	for _, m := range r.movs {
		switch {
		case m.PacienteDNI != f.PacienteDNI,
			f.AreaID != nil && m.AreaID != *f.AreaID,
			f.Periodo != "" && m.Periodo != f.Periodo,
			f.Desde != "" && m.Periodo < f.Desde,
			f.Hasta != "" && m.Periodo > f.Hasta,
			len(f.Periodos) > 0 && !contiene(f.Periodos, m.Periodo),
			len(f.Tipos) > 0 && !contiene(f.Tipos, m.Tipo),
			f.Estado != "" && m.Estado != f.Estado:
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Periodo != out[j].Periodo {
			return out[i].Periodo < out[j].Periodo
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMovRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Movimiento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.ID == id {
			c := m
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovRepo) Create(_ context.Context, _ *gorm.DB, m *model.Movimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.seq++
	// Monotonic timestamps keep insertion order stable in List
	m.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	r.movs = append(r.movs, *m)
	return nil
}

func (r *fakeMovRepo) CreateBatch(ctx context.Context, tx *gorm.DB, ms []model.Movimiento) error {
	for i := range ms {
		if err := r.Create(ctx, tx, &ms[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMovRepo) Update(_ context.Context, _ *gorm.DB, m *model.Movimiento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movs {
		if r.movs[i].ID == m.ID {
			if r.movs[i].EsPagado() {
				return nil
			}
			created := r.movs[i].CreatedAt
			r.movs[i] = *m
			r.movs[i].CreatedAt = created
			return nil
		}
	}
	return nil
}

func (r *fakeMovRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	borrar := map[uuid.UUID]bool{}
	for _, id := range ids {
		borrar[id] = true
	}
	keep := r.movs[:0]
	for _, m := range r.movs {
		if borrar[m.ID] && !m.EsPagado() {
			continue
		}
		keep = append(keep, m)
	}
	r.movs = keep
	return nil
}

func (r *fakeMovRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.movs {
		if m.ID == id {
			r.movs = append(r.movs[:i], r.movs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeMovRepo) DeleteFacturas(_ context.Context, _ *gorm.DB, dni string, areaID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	keep := r.movs[:0]
	for _, m := range r.movs {
		if m.Tipo == model.TipoFactura && m.PacienteDNI == dni && m.AreaID == areaID {
			n++
			continue
		}
		keep = append(keep, m)
	}
	r.movs = keep
	return n, nil
}

func (r *fakeMovRepo) UpsertCargo(ctx context.Context, m *model.Movimiento) error {
	r.mu.Lock()
	for i := range r.movs {
		e := &r.movs[i]
		if e.Tipo == model.TipoCargo && e.PacienteID == m.PacienteID && e.AreaID == m.AreaID &&
			mismoUUID(e.ModuloID, m.ModuloID) && e.Periodo == m.Periodo && e.ClaveAsignacion == m.ClaveAsignacion {
			if !e.EsPagado() && !e.EditadoManual {
				e.Monto, e.Cantidad, e.CantidadTexto = m.Monto, m.Cantidad, m.CantidadTexto
				e.PrecioUnitario, e.ModuloNombre, e.ProfesionalNombre = m.PrecioUnitario, m.ModuloNombre, m.ProfesionalNombre
				e.AsignacionID = m.AsignacionID
			}
			r.mu.Unlock()
			return nil
		}
	}
	r.mu.Unlock()
	return r.Create(ctx, nil, m)
}

// ── In-memory CajaRepository ─────────────────────────────────────────────────

type fakeCajaRepo struct {
	cajas       map[uuid.UUID]*model.Caja // by area
	movimientos []model.MovimientoCaja
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{cajas: map[uuid.UUID]*model.Caja{}}
}

func (r *fakeCajaRepo) EnsureCaja(_ context.Context, _ *gorm.DB, areaID uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[areaID]
	if !ok {
		c = &model.Caja{ID: uuid.New(), AreaID: areaID}
		r.cajas[areaID] = c
	}
	return c, nil
}

func (r *fakeCajaRepo) AplicarDelta(_ context.Context, _ *gorm.DB, cajaID uuid.UUID, padres, obraSocial decimal.Decimal, at time.Time) error {
	for _, c := range r.cajas {
		if c.ID == cajaID {
			c.SaldoPadres = c.SaldoPadres.Add(padres)
			c.SaldoObraSocial = c.SaldoObraSocial.Add(obraSocial)
			c.SaldoTotal = c.SaldoTotal.Add(padres).Add(obraSocial)
			c.UltimoMovimiento = &at
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, _ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) FindByArea(_ context.Context, areaID uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[areaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, cajaID uuid.UUID, page, limit int) ([]model.MovimientoCaja, int64, error) {
	var all []model.MovimientoCaja
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].CajaID == cajaID {
			all = append(all, r.movimientos[i])
		}
	}
	total := int64(len(all))
	from := (page - 1) * limit
	if from >= len(all) {
		return nil, total, nil
	}
	to := from + limit
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], total, nil
}

// ── Locker ───────────────────────────────────────────────────────────────────

type fakeLocker struct {
	mu    sync.Mutex
	held  map[string]bool
	err   error
	calls []string
}

func newFakeLocker() *fakeLocker { return &fakeLocker{held: map[string]bool{}} }

func (l *fakeLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, key)
	if l.err != nil {
		return nil, l.err
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	pacientes *fakePacienteRepo
	catalogo  *fakeCatalogoRepo
	movs      *fakeMovRepo
	cajas     *fakeCajaRepo
	locker    *fakeLocker

	paciente   *model.Paciente
	particular *model.Paciente
	area       *model.Area
	modulo     *model.Modulo
	modulo2    *model.Modulo
	prof       *model.Profesional

	cache    *CatalogoCache
	cajaSvc  CajaService
	estados  EstadoCuentaService
	movSvc   MovimientoService
	extracto *extractoService
}

func newFixture() *fixture {
	f := &fixture{
		catalogo: newFakeCatalogoRepo(),
		movs:     newFakeMovRepo(),
		cajas:    newFakeCajaRepo(),
		locker:   newFakeLocker(),
		paciente: &model.Paciente{
			ID: uuid.New(), DNI: "12345678", Nombre: "Juan", Apellido: "Pérez",
			CondicionPago: "Obra social", ObraSocial: "OSDE",
		},
		particular: &model.Paciente{
			ID: uuid.New(), DNI: "87654321", Nombre: "Ana", Apellido: "Gómez",
			CondicionPago: "Particular",
		},
		area:    &model.Area{ID: uuid.New(), Nombre: "Terapia Ocupacional"},
		modulo:  &model.Modulo{ID: uuid.New(), Nombre: "Sesión TO", ValorPadres: decimal.NewFromInt(10000)},
		modulo2: &model.Modulo{ID: uuid.New(), Nombre: "Evaluación", ValorPadres: decimal.NewFromInt(4000)},
		prof:    &model.Profesional{ID: uuid.New(), Nombre: "Laura", Apellido: "Díaz"},
	}
	f.pacientes = newFakePacienteRepo(f.paciente, f.particular)
	f.catalogo.areas[f.area.ID] = f.area
	f.catalogo.modulos[f.modulo.ID] = f.modulo
	f.catalogo.modulos[f.modulo2.ID] = f.modulo2
	f.catalogo.profesionales[f.prof.ID] = f.prof

	f.cache = NewCatalogoCache(f.catalogo, time.Minute)
	f.cajaSvc = NewCajaService(f.cajas)
	f.estados = NewEstadoCuentaService(f.pacientes, f.movs, f.cache, f.cajaSvc, f.locker)
	f.movSvc = NewMovimientoService(f.pacientes, f.movs, f.cache)
	f.extracto = NewExtractoService(f.pacientes, f.movs, f.cache, "Centro Test").(*extractoService)
	return f
}

// cargo builds a stored CHARGE of the main patient in the fixture area.
func (f *fixture) cargo(periodo string, modulo *model.Modulo, monto, padres int64) model.Movimiento {
	id := modulo.ID
	return model.Movimiento{
		PacienteID:      f.paciente.ID,
		PacienteDNI:     f.paciente.DNI,
		AreaID:          f.area.ID,
		ModuloID:        &id,
		Tipo:            model.TipoCargo,
		Periodo:         periodo,
		Fecha:           InicioPeriodo(periodo),
		Monto:           decimal.NewFromInt(monto),
		ClaveAsignacion: "manual:" + uuid.NewString(),
		Cantidad:        decimal.NewFromInt(1),
		CantidadTexto:   "1",
		PrecioUnitario:  decimal.NewFromInt(monto),
		ModuloNombre:    modulo.Nombre,
		Estado:          model.EstadoCargoPendiente,
		PagadoPadres:    decimal.NewFromInt(padres),
	}
}

func (f *fixture) suelto(tipo, periodo string, modulo *model.Modulo, monto int64, detalle string) model.Movimiento {
	m := model.Movimiento{
		PacienteID:  f.paciente.ID,
		PacienteDNI: f.paciente.DNI,
		AreaID:      f.area.ID,
		Tipo:        tipo,
		Periodo:     periodo,
		Fecha:       InicioPeriodo(periodo),
		Monto:       decimal.NewFromInt(monto),
		Detalle:     detalle,
	}
	if modulo != nil {
		id := modulo.ID
		m.ModuloID = &id
	}
	return m
}

func strPtr(s string) *string { return &s }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
