package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinica/internal/apperrors"
	"clinica/internal/dto"
	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EstadoCuentaService interface {
	Obtener(ctx context.Context, dni string, areaID *uuid.UUID, periodo string) (*dto.EstadoCuentaResponse, error)
	Guardar(ctx context.Context, usuarioID *uuid.UUID, dni string, req dto.GuardarEstadoCuentaRequest) (*dto.GuardarEstadoCuentaResponse, error)
}

// Locker serializes saves of the same patient and area. Lock fails fast when
// the key is taken; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

type estadoCuentaService struct {
	pacientes repository.PacienteRepository
	movs      repository.MovimientoRepository
	catalogo  *CatalogoCache
	caja      CajaService
	locker    Locker // nil disables locking (unit tests)
	now       func() time.Time
}

func NewEstadoCuentaService(
	pacientes repository.PacienteRepository,
	movs repository.MovimientoRepository,
	catalogo *CatalogoCache,
	caja CajaService,
	locker Locker,
) EstadoCuentaService {
	return &estadoCuentaService{
		pacientes: pacientes,
		movs:      movs,
		catalogo:  catalogo,
		caja:      caja,
		locker:    locker,
		now:       time.Now,
	}
}

func buscarPaciente(ctx context.Context, repo repository.PacienteRepository, dni string) (*model.Paciente, error) {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return nil, apperrors.Validation("El DNI del paciente es obligatorio")
	}
	p, err := repo.FindByDNI(ctx, dni)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Paciente con DNI %s no encontrado", dni)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ── Obtener ───────────────────────────────────────────────────────────────────
// Loads every movement of (dni, area?, period?) and aggregates it. Nothing is
// written: the secondary reconciliation of standalone payments only affects
// the projection.

func (s *estadoCuentaService) Obtener(ctx context.Context, dni string, areaID *uuid.UUID, periodo string) (*dto.EstadoCuentaResponse, error) {
	periodo = strings.TrimSpace(periodo)
	if periodo != "" && !PeriodoValido(periodo) {
		return nil, apperrors.Validation("Período inválido %q, se espera AAAA-MM", periodo)
	}
	pac, err := buscarPaciente(ctx, s.pacientes, dni)
	if err != nil {
		return nil, err
	}

	movs, err := s.movs.List(ctx, nil, repository.MovimientoFilter{
		PacienteDNI: pac.DNI,
		AreaID:      areaID,
		Periodo:     periodo,
	})
	if err != nil {
		return nil, err
	}

	resp := armarEstadoCuenta(ctx, s.catalogo, pac, movs)
	if areaID != nil {
		id := areaID.String()
		resp.AreaID = &id
	}
	if periodo != "" {
		resp.Periodo = &periodo
	}
	return resp, nil
}

// armarEstadoCuenta is shared by the statement endpoint and the extract.
func armarEstadoCuenta(ctx context.Context, catalogo *CatalogoCache, pac *model.Paciente, movs []model.Movimiento) *dto.EstadoCuentaResponse {
	resp := &dto.EstadoCuentaResponse{
		Paciente:    pacienteToDTO(pac),
		Filas:       []dto.FilaEstadoCuenta{},
		Facturas:    []dto.FacturaEstadoCuenta{},
		Movimientos: []dto.MovimientoResponse{},
		Totales:     CalcularTotales(movs, pac.TieneObraSocial()),
	}
	if len(movs) == 0 {
		resp.Empty = true
		return resp
	}

	var pagosSueltos []model.Movimiento
	for _, m := range movs {
		switch m.Tipo {
		case model.TipoCargo:
			resp.Filas = append(resp.Filas, filaToDTO(ctx, catalogo, m))
		case model.TipoFactura:
			resp.Facturas = append(resp.Facturas, facturaToDTO(m))
		case model.TipoPagoParticular, model.TipoPagoObraSocial:
			pagosSueltos = append(pagosSueltos, m)
			resp.Movimientos = append(resp.Movimientos, MovimientoToDTO(m))
		default:
			resp.Movimientos = append(resp.Movimientos, MovimientoToDTO(m))
		}
	}
	conciliarPagosSueltos(resp.Filas, pagosSueltos)
	return resp
}

// CalcularTotales aggregates any mix of movement kinds. Embedded charge
// allocations and standalone payments both count; the insurer side is zeroed
// for patients without coverage.
func CalcularTotales(movs []model.Movimiento, conObraSocial bool) dto.TotalesEstadoCuenta {
	var t dto.TotalesEstadoCuenta
	for _, m := range movs {
		switch m.Tipo {
		case model.TipoCargo:
			t.MontoAPagar = t.MontoAPagar.Add(m.Monto)
			t.PagadoPadres = t.PagadoPadres.Add(m.PagadoPadres)
			t.PagadoObraSocial = t.PagadoObraSocial.Add(m.PagadoObraSocial)
		case model.TipoPagoParticular:
			t.PagadoPadres = t.PagadoPadres.Add(m.Monto)
		case model.TipoPagoObraSocial:
			t.PagadoObraSocial = t.PagadoObraSocial.Add(m.Monto)
		case model.TipoAjusteMas:
			t.AjustesMas = t.AjustesMas.Add(m.Monto)
		case model.TipoAjusteMenos:
			t.AjustesMenos = t.AjustesMenos.Add(m.Monto)
		case model.TipoFactura:
			t.Facturado = t.Facturado.Add(m.Monto)
		}
	}
	if !conObraSocial {
		t.PagadoObraSocial = decimal.Zero
	}

	t.Pagado = t.PagadoObraSocial.Add(t.PagadoPadres).Add(t.AjustesMas).Sub(t.AjustesMenos)
	t.Saldo = t.MontoAPagar.Sub(t.Pagado)
	t.Estado = model.EstadoCargoPendiente
	if !t.Saldo.IsPositive() {
		t.Estado = model.EstadoCargoPagado
	}
	t.FacturadoMenosPagado = t.Facturado.Sub(t.Pagado)
	return t
}

// ── Conciliación secundaria ──────────────────────────────────────────────────

type grupoPagos struct {
	monto    decimal.Decimal
	detalles []string
}

func claveConciliacion(periodo string, moduloID *string) string {
	if moduloID == nil {
		return periodo + "|"
	}
	return periodo + "|" + *moduloID
}

// conciliarPagosSueltos attaches standalone payments, grouped by (period, module),
// to the first charge row of that group lacking its own allocation on the same
// side. They land in the standalone fields only; the row's familyPaid and
// insurerPaid stay the stored allocation so a read-then-save round trip never
// moves money into the charge. Unmatched groups still count in the totals.
func conciliarPagosSueltos(filas []dto.FilaEstadoCuenta, pagos []model.Movimiento) {
	if len(pagos) == 0 {
		return
	}
	padres := map[string]*grupoPagos{}
	obraSocial := map[string]*grupoPagos{}
	for _, p := range pagos {
		var mid *string
		if p.ModuloID != nil {
			s := p.ModuloID.String()
			mid = &s
		}
		k := claveConciliacion(p.Periodo, mid)
		destino := padres
		if p.Tipo == model.TipoPagoObraSocial {
			destino = obraSocial
		}
		g, ok := destino[k]
		if !ok {
			g = &grupoPagos{}
			destino[k] = g
		}
		g.monto = g.monto.Add(p.Monto)
		if d := strings.TrimSpace(p.Detalle); d != "" {
			g.detalles = append(g.detalles, d)
		}
	}

	for i := range filas {
		f := &filas[i]
		k := claveConciliacion(f.Periodo, f.ModuloID)
		if g, ok := padres[k]; ok && f.PagadoPadres.IsZero() {
			f.PagosSueltosPadres = g.monto
			f.DetalleSueltosPadres = unirDetalles(g.detalles...)
			delete(padres, k)
		}
		if g, ok := obraSocial[k]; ok && f.PagadoObraSocial.IsZero() {
			f.PagosSueltosObraSocial = g.monto
			f.DetalleSueltosObraSocial = unirDetalles(g.detalles...)
			delete(obraSocial, k)
		}
	}
}

func unirDetalles(partes ...string) string {
	out := make([]string, 0, len(partes))
	for _, p := range partes {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}

// ── Projections ──────────────────────────────────────────────────────────────

func pacienteToDTO(p *model.Paciente) dto.PacienteResumen {
	return dto.PacienteResumen{
		ID:              p.ID.String(),
		DNI:             p.DNI,
		Nombre:          p.NombreCompleto(),
		CondicionPago:   p.CondicionPago,
		ObraSocial:      p.ObraSocial,
		TieneObraSocial: p.TieneObraSocial(),
	}
}

func filaToDTO(ctx context.Context, catalogo *CatalogoCache, m model.Movimiento) dto.FilaEstadoCuenta {
	f := dto.FilaEstadoCuenta{
		ID:                m.ID.String(),
		AreaID:            m.AreaID.String(),
		Periodo:           m.Periodo,
		Fecha:             m.Fecha.Format("2006-01-02"),
		ModuloID:          uuidPtrString(m.ModuloID),
		ModuloNombre:      m.ModuloNombre,
		Profesional:       m.ProfesionalNombre,
		AsignacionID:      uuidPtrString(m.AsignacionID),
		ClaveAsignacion:   m.ClaveAsignacion,
		Cantidad:          m.CantidadTexto,
		CantidadValor:     m.Cantidad,
		PrecioUnitario:    m.PrecioUnitario,
		MontoAPagar:       m.Monto,
		PagadoPadres:      m.PagadoPadres,
		DetallePadres:     m.DetallePadres,
		PagadoObraSocial:  m.PagadoObraSocial,
		DetalleObraSocial: m.DetalleObraSocial,
		Estado:            m.Estado,
		EsAjusteAdmin:     m.EsAjusteAdmin,
	}
	if f.Cantidad == "" {
		f.Cantidad = m.Cantidad.String()
	}
	if f.Estado == "" {
		f.Estado = model.EstadoCargoPendiente
	}
	if catalogo != nil {
		if f.ModuloNombre == "" {
			f.ModuloNombre = catalogo.nombreModulo(ctx, m.ModuloID)
		}
		if a, err := catalogo.Area(ctx, m.AreaID); err == nil {
			f.AreaNombre = a.Nombre
		}
	}
	return f
}

func facturaToDTO(m model.Movimiento) dto.FacturaEstadoCuenta {
	return dto.FacturaEstadoCuenta{
		ID:        m.ID.String(),
		Periodo:   m.Periodo,
		Fecha:     m.Fecha.Format("2006-01-02"),
		NroRecibo: m.NroRecibo,
		Detalle:   m.Detalle,
		Monto:     m.Monto,
	}
}

func MovimientoToDTO(m model.Movimiento) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:          m.ID.String(),
		Tipo:        m.Tipo,
		PacienteDNI: m.PacienteDNI,
		AreaID:      m.AreaID.String(),
		ModuloID:    uuidPtrString(m.ModuloID),
		Periodo:     m.Periodo,
		Fecha:       m.Fecha.Format(time.RFC3339),
		Monto:       m.Monto,
		NroRecibo:   m.NroRecibo,
		Detalle:     m.Detalle,
		Estado:      m.Estado,
	}
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
