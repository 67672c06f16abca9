package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clinica/internal/apperrors"
	"clinica/internal/dto"
	"clinica/internal/infra"
	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// nombreModuloAdministracion marks administrative adjustment rows typed by hand.
const nombreModuloAdministracion = "administración"

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Guardar ───────────────────────────────────────────────────────────────────
//   1. Validate area, patient and every row / invoice line (no writes yet)
//   2. Lock (dni, area) in Redis; a concurrent save gets a CONFLICT
//   3. BEGIN TX: load charges of the touched periods, diff them against the
//      incoming rows, delete / update / insert, replace invoices
//   4. Same TX: post the family / insurer delta to the area's Caja
//   5. COMMIT
// PAID charges are never touched and never take part in the delta.

func (s *estadoCuentaService) Guardar(ctx context.Context, usuarioID *uuid.UUID, dni string, req dto.GuardarEstadoCuentaRequest) (*dto.GuardarEstadoCuentaResponse, error) {
	if strings.TrimSpace(req.AreaID) == "" {
		return nil, apperrors.Validation("El área es obligatoria para guardar el estado de cuenta")
	}
	areaID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return nil, apperrors.Validation("areaId inválido")
	}

	pac, err := buscarPaciente(ctx, s.pacientes, dni)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalogo.Area(ctx, areaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Área no encontrada")
		}
		return nil, err
	}

	filas, err := s.prepararFilas(ctx, usuarioID, pac, areaID, req.Filas)
	if err != nil {
		return nil, err
	}
	facturas, err := prepararFacturas(usuarioID, pac, areaID, req.Facturas, s.now())
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, pac.DNI+":"+areaID.String())
		if errors.Is(err, infra.ErrLockHeld) {
			return nil, apperrors.Conflict("El estado de cuenta de este paciente se está guardando en otra sesión, reintente en unos segundos")
		}
		if err != nil {
			return nil, fmt.Errorf("lock estado de cuenta: %w", err)
		}
		defer unlock()
	}

	resp := &dto.GuardarEstadoCuentaResponse{}
	txErr := runTx(ctx, s.movs.DB(), func(tx *gorm.DB) error {
		var existentes []model.Movimiento
		if periodos := periodosDe(filas); len(periodos) > 0 {
			existentes, err = s.movs.List(ctx, tx, repository.MovimientoFilter{
				PacienteDNI: pac.DNI,
				AreaID:      &areaID,
				Periodos:    periodos,
				Tipos:       []string{model.TipoCargo},
			})
			if err != nil {
				return err
			}
		}

		plan := conciliarCargos(existentes, filas, s.now())

		if err := s.movs.DeleteByIDs(ctx, tx, plan.eliminar); err != nil {
			return err
		}
		for i := range plan.actualizar {
			if err := s.movs.Update(ctx, tx, &plan.actualizar[i]); err != nil {
				return err
			}
		}
		if err := s.movs.CreateBatch(ctx, tx, plan.insertar); err != nil {
			return err
		}

		if _, err := s.movs.DeleteFacturas(ctx, tx, pac.DNI, areaID); err != nil {
			return err
		}
		if err := s.movs.CreateBatch(ctx, tx, facturas); err != nil {
			return err
		}

		resp.DeltaPadres = plan.nuevoPadres.Sub(plan.prevPadres)
		resp.DeltaOS = plan.nuevoOS.Sub(plan.prevOS)
		// Only a net change reaches the cash box; moving money between sides
		// of the same charge is reported but not posted.
		if total := resp.DeltaPadres.Add(resp.DeltaOS); !total.IsZero() {
			pacID := pac.ID
			if _, err := s.caja.AplicarDelta(ctx, tx, DeltaCaja{
				AreaID:      areaID,
				PacienteID:  &pacID,
				PacienteDNI: pac.DNI,
				Padres:      resp.DeltaPadres,
				ObraSocial:  resp.DeltaOS,
				Origen:      model.OrigenEstadoCuenta,
				Descripcion: fmt.Sprintf("Estado de cuenta %s (%s)", pac.NombreCompleto(), pac.DNI),
				UsuarioID:   usuarioID,
			}); err != nil {
				return err
			}
		}

		resp.Insertados = len(plan.insertar)
		resp.Actualizados = len(plan.actualizar)
		resp.Eliminados = len(plan.eliminar)
		resp.Facturas = len(facturas)
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Hay dos cargos para el mismo módulo, período y asignación")
		}
		log.Error().Err(txErr).Str("dni", pac.DNI).Str("area_id", areaID.String()).Msg("guardar estado de cuenta")
		return nil, txErr
	}

	resp.OK = true
	log.Info().
		Str("dni", pac.DNI).
		Str("area_id", areaID.String()).
		Int("inserted", resp.Insertados).
		Int("updated", resp.Actualizados).
		Int("deleted", resp.Eliminados).
		Str("delta_family", resp.DeltaPadres.StringFixed(2)).
		Str("delta_insurer", resp.DeltaOS.StringFixed(2)).
		Msg("estado de cuenta guardado")
	return resp, nil
}

// filaPreparada is an incoming row already validated and priced.
type filaPreparada struct {
	id  *uuid.UUID
	mov model.Movimiento // target state; ID empty, ClaveAsignacion may be empty
}

func (s *estadoCuentaService) prepararFilas(ctx context.Context, usuarioID *uuid.UUID, pac *model.Paciente, areaID uuid.UUID, rows []dto.FilaGuardarRequest) ([]filaPreparada, error) {
	out := make([]filaPreparada, 0, len(rows))
	vistas := make(map[string]int, len(rows))

	for i, r := range rows {
		n := i + 1
		periodo := strings.TrimSpace(r.Periodo)
		if !PeriodoValido(periodo) {
			return nil, apperrors.Validation("Fila %d: período inválido %q, se espera AAAA-MM", n, r.Periodo)
		}
		if r.PagadoPadres.IsNegative() || r.PagadoObraSocial.IsNegative() {
			return nil, apperrors.Validation("Fila %d: los importes pagados no pueden ser negativos", n)
		}

		id, err := parseUUIDOpcional(r.ID)
		if err != nil {
			return nil, apperrors.Validation("Fila %d: id inválido", n)
		}
		asignacionID, err := parseUUIDOpcional(r.AsignacionID)
		if err != nil {
			return nil, apperrors.Validation("Fila %d: asignación inválida", n)
		}

		m := model.Movimiento{
			PacienteID:        pac.ID,
			PacienteDNI:       pac.DNI,
			AreaID:            areaID,
			Tipo:              model.TipoCargo,
			Periodo:           periodo,
			Fecha:             InicioPeriodo(periodo),
			AsignacionID:      asignacionID,
			ClaveAsignacion:   strings.TrimSpace(r.ClaveAsignacion),
			Estado:            model.EstadoCargoPendiente,
			PagadoPadres:      r.PagadoPadres.Round(2),
			PagadoObraSocial:  r.PagadoObraSocial.Round(2),
			DetallePadres:     strings.TrimSpace(r.DetallePadres),
			DetalleObraSocial: strings.TrimSpace(r.DetalleObraSocial),
			CreadoPor:         usuarioID,
		}
		if m.ClaveAsignacion == "" && asignacionID != nil {
			m.ClaveAsignacion = claveAsignacionID(*asignacionID)
		}

		if esAjusteAdministrativo(r) {
			if err := prepararAjusteAdmin(&m, r, n); err != nil {
				return nil, err
			}
		} else if err := s.prepararCargo(ctx, &m, r, n); err != nil {
			return nil, err
		}

		if m.ClaveAsignacion != "" {
			k := claveCargo(m.Periodo, m.ModuloID, m.ClaveAsignacion)
			if prev, ok := vistas[k]; ok {
				return nil, apperrors.Validation("Fila %d repite el cargo de la fila %d", n, prev)
			}
			vistas[k] = n
		}
		out = append(out, filaPreparada{id: id, mov: m})
	}
	return out, nil
}

func esAjusteAdministrativo(r dto.FilaGuardarRequest) bool {
	return r.EsAjusteAdmin || strings.EqualFold(strings.TrimSpace(r.ModuloNombre), nombreModuloAdministracion)
}

// Administrative adjustments carry no module and may owe nothing.
func prepararAjusteAdmin(m *model.Movimiento, r dto.FilaGuardarRequest, n int) error {
	monto := decimal.Zero
	if r.MontoAPagar != nil {
		monto = r.MontoAPagar.Round(2)
	}
	if monto.IsNegative() {
		return apperrors.Validation("Fila %d: el monto a pagar no puede ser negativo", n)
	}
	m.EsAjusteAdmin = true
	m.ModuloID = nil
	m.ModuloNombre = strings.TrimSpace(r.ModuloNombre)
	if m.ModuloNombre == "" {
		m.ModuloNombre = "Administración"
	}
	m.ProfesionalNombre = strings.TrimSpace(r.Profesional)
	m.Cantidad = decimal.NewFromInt(1)
	m.CantidadTexto = "1"
	m.PrecioUnitario = monto
	m.Monto = monto
	return nil
}

// prepararCargo snapshots module and professional names and prices the row.
// An explicit unit price on the row wins over the assignment overrides.
func (s *estadoCuentaService) prepararCargo(ctx context.Context, m *model.Movimiento, r dto.FilaGuardarRequest, n int) error {
	moduloID, err := parseUUIDOpcional(r.ModuloID)
	if err != nil || moduloID == nil {
		return apperrors.Validation("Fila %d: el módulo es obligatorio", n)
	}
	modulo, err := s.catalogo.Modulo(ctx, *moduloID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("Fila %d: módulo no encontrado", n)
	}
	if err != nil {
		return err
	}

	// A deleted assignment does not block saving its historical charges
	var asig *model.Asignacion
	if m.AsignacionID != nil {
		if a, err := s.catalogo.Asignacion(ctx, *m.AsignacionID); err == nil {
			asig = a
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	var overrides map[string]interface{}
	if asig != nil {
		overrides = asig.Overrides
	}
	precio := ResolverPrecioUnitario(modulo, overrides)
	if r.PrecioUnitario != nil && r.PrecioUnitario.IsPositive() {
		precio = r.PrecioUnitario.Round(2)
	}

	cantidadTexto := strings.TrimSpace(string(r.Cantidad))
	if cantidadTexto == "" {
		cantidadTexto = "1"
		if asig != nil && strings.TrimSpace(asig.Cantidad) != "" {
			cantidadTexto = strings.TrimSpace(asig.Cantidad)
		}
	}
	cantidad := ParseCantidad(cantidadTexto)
	if cantidad.IsNegative() {
		return apperrors.Validation("Fila %d: cantidad inválida %q", n, cantidadTexto)
	}

	m.ModuloID = moduloID
	m.ModuloNombre = modulo.Nombre
	m.ProfesionalNombre = s.nombreProfesional(ctx, r, asig)
	m.Cantidad = cantidad
	m.CantidadTexto = cantidadTexto
	m.PrecioUnitario = precio
	m.Monto = MontoCargo(precio, cantidad)
	return nil
}

func (s *estadoCuentaService) nombreProfesional(ctx context.Context, r dto.FilaGuardarRequest, asig *model.Asignacion) string {
	profID, _ := parseUUIDOpcional(r.ProfesionalID)
	if profID == nil && asig != nil {
		profID = asig.ProfesionalID
	}
	if profID != nil {
		if p, err := s.catalogo.Profesional(ctx, *profID); err == nil {
			return p.NombreCompleto()
		}
	}
	return strings.TrimSpace(r.Profesional)
}

// prepararFacturas drops zero-amount lines; no placeholder is ever stored.
func prepararFacturas(usuarioID *uuid.UUID, pac *model.Paciente, areaID uuid.UUID, lineas []dto.FacturaGuardarRequest, now time.Time) ([]model.Movimiento, error) {
	out := make([]model.Movimiento, 0, len(lineas))
	for i, l := range lineas {
		n := i + 1
		monto := l.Monto.Round(2)
		if monto.IsNegative() {
			return nil, apperrors.Validation("Factura %d: el monto no puede ser negativo", n)
		}
		if monto.IsZero() {
			continue
		}

		fecha := now
		if l.Fecha != nil && strings.TrimSpace(*l.Fecha) != "" {
			f, err := parseFecha(*l.Fecha)
			if err != nil {
				return nil, apperrors.Validation("Factura %d: fecha inválida %q", n, *l.Fecha)
			}
			fecha = f
		}
		periodo := strings.TrimSpace(l.Periodo)
		if periodo == "" {
			periodo = PeriodoDe(fecha)
		}
		if !PeriodoValido(periodo) {
			return nil, apperrors.Validation("Factura %d: período inválido %q", n, l.Periodo)
		}

		out = append(out, model.Movimiento{
			PacienteID:  pac.ID,
			PacienteDNI: pac.DNI,
			AreaID:      areaID,
			Tipo:        model.TipoFactura,
			Periodo:     periodo,
			Fecha:       fecha,
			Monto:       monto,
			NroRecibo:   strings.TrimSpace(l.NroRecibo),
			Detalle:     strings.TrimSpace(l.Detalle),
			CreadoPor:   usuarioID,
		})
	}
	return out, nil
}

// ── Conciliación de cargos ───────────────────────────────────────────────────

type planCargos struct {
	insertar   []model.Movimiento
	actualizar []model.Movimiento
	eliminar   []uuid.UUID

	prevPadres, prevOS   decimal.Decimal
	nuevoPadres, nuevoOS decimal.Decimal
}

func claveCargo(periodo string, moduloID *uuid.UUID, clave string) string {
	mod := ""
	if moduloID != nil {
		mod = moduloID.String()
	}
	return periodo + "|" + mod + "|" + clave
}

// conciliarCargos diffs the stored charges of the touched periods against the
// incoming rows. Rows match by movement id first, then by (period, module,
// assignment key). Rows that land on a PAID charge are ignored.
func conciliarCargos(existentes []model.Movimiento, filas []filaPreparada, now time.Time) planCargos {
	var plan planCargos

	porID := make(map[uuid.UUID]*model.Movimiento, len(existentes))
	porClave := make(map[string]*model.Movimiento, len(existentes))
	for i := range existentes {
		e := &existentes[i]
		porID[e.ID] = e
		if e.ClaveAsignacion != "" {
			porClave[claveCargo(e.Periodo, e.ModuloID, e.ClaveAsignacion)] = e
		}
		if !e.EsPagado() {
			plan.prevPadres = plan.prevPadres.Add(e.PagadoPadres)
			plan.prevOS = plan.prevOS.Add(e.PagadoObraSocial)
		}
	}

	usados := make(map[uuid.UUID]bool, len(existentes))
	for _, f := range filas {
		var ex *model.Movimiento
		if f.id != nil {
			ex = porID[*f.id]
		}
		if ex == nil && f.mov.ClaveAsignacion != "" {
			ex = porClave[claveCargo(f.mov.Periodo, f.mov.ModuloID, f.mov.ClaveAsignacion)]
		}
		if ex != nil && usados[ex.ID] {
			ex = nil
		}
		if ex != nil && ex.EsPagado() {
			usados[ex.ID] = true
			continue
		}

		plan.nuevoPadres = plan.nuevoPadres.Add(f.mov.PagadoPadres)
		plan.nuevoOS = plan.nuevoOS.Add(f.mov.PagadoObraSocial)

		if ex == nil {
			m := f.mov
			if m.ClaveAsignacion == "" {
				m.ClaveAsignacion = "manual:" + uuid.NewString()
			}
			m.EditadoManual = true
			plan.insertar = append(plan.insertar, m)
			continue
		}

		usados[ex.ID] = true
		m := f.mov
		m.ID = ex.ID
		m.Fecha = ex.Fecha
		m.Estado = ex.Estado
		m.CreadoPor = ex.CreadoPor
		m.CreatedAt = ex.CreatedAt
		if m.ClaveAsignacion == "" {
			m.ClaveAsignacion = ex.ClaveAsignacion
		}
		if m.AsignacionID == nil {
			m.AsignacionID = ex.AsignacionID
		}
		m.EditadoManual = ex.EditadoManual
		if cargoModificado(ex, &m) {
			m.EditadoManual = true
			m.UpdatedAt = now
			plan.actualizar = append(plan.actualizar, m)
		}
	}

	for _, e := range existentes {
		if !usados[e.ID] && !e.EsPagado() {
			plan.eliminar = append(plan.eliminar, e.ID)
		}
	}
	return plan
}

func cargoModificado(a, b *model.Movimiento) bool {
	return a.Periodo != b.Periodo ||
		!mismoUUID(a.ModuloID, b.ModuloID) ||
		!mismoUUID(a.AsignacionID, b.AsignacionID) ||
		a.ClaveAsignacion != b.ClaveAsignacion ||
		!a.Monto.Equal(b.Monto) ||
		!a.Cantidad.Equal(b.Cantidad) ||
		a.CantidadTexto != b.CantidadTexto ||
		!a.PrecioUnitario.Equal(b.PrecioUnitario) ||
		a.ModuloNombre != b.ModuloNombre ||
		a.ProfesionalNombre != b.ProfesionalNombre ||
		a.EsAjusteAdmin != b.EsAjusteAdmin ||
		!a.PagadoPadres.Equal(b.PagadoPadres) ||
		!a.PagadoObraSocial.Equal(b.PagadoObraSocial) ||
		a.DetallePadres != b.DetallePadres ||
		a.DetalleObraSocial != b.DetalleObraSocial
}

func mismoUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func periodosDe(filas []filaPreparada) []string {
	vistos := make(map[string]bool, len(filas))
	var out []string
	for _, f := range filas {
		if !vistos[f.mov.Periodo] {
			vistos[f.mov.Periodo] = true
			out = append(out, f.mov.Periodo)
		}
	}
	return out
}

func parseUUIDOpcional(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseFecha accepts a plain date or a full RFC 3339 timestamp.
func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
