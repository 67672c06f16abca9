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
	"gorm.io/gorm"
)

// MovimientoService records single payments and adjustments outside the
// statement editor. These never touch the Caja: only the statement save does.
type MovimientoService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, dni string, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error)
}

type movimientoService struct {
	pacientes repository.PacienteRepository
	movs      repository.MovimientoRepository
	catalogo  *CatalogoCache
	now       func() time.Time
}

func NewMovimientoService(pacientes repository.PacienteRepository, movs repository.MovimientoRepository, catalogo *CatalogoCache) MovimientoService {
	return &movimientoService{pacientes: pacientes, movs: movs, catalogo: catalogo, now: time.Now}
}

var tiposDirectos = map[string]bool{
	model.TipoPagoParticular: true,
	model.TipoPagoObraSocial: true,
	model.TipoAjusteMas:      true,
	model.TipoAjusteMenos:    true,
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *movimientoService) Crear(ctx context.Context, usuarioID *uuid.UUID, dni string, req dto.CrearMovimientoRequest) (*dto.MovimientoResponse, error) {
	if !tiposDirectos[req.Tipo] {
		return nil, apperrors.Validation("Tipo de movimiento no permitido: %s", req.Tipo)
	}
	if strings.TrimSpace(req.AreaID) == "" {
		return nil, apperrors.Validation("El área es obligatoria")
	}
	areaID, err := uuid.Parse(req.AreaID)
	if err != nil {
		return nil, apperrors.Validation("areaId inválido")
	}
	if req.Monto == nil {
		return nil, apperrors.Validation("El monto es obligatorio")
	}
	monto := req.Monto.Round(2)
	if !monto.IsPositive() {
		return nil, apperrors.Validation("El monto debe ser mayor a cero")
	}

	pac, err := buscarPaciente(ctx, s.pacientes, dni)
	if err != nil {
		return nil, err
	}
	if req.Tipo == model.TipoPagoObraSocial && !pac.TieneObraSocial() {
		return nil, apperrors.Validation("El paciente no tiene obra social: no se puede registrar un pago de obra social")
	}
	if _, err := s.catalogo.Area(ctx, areaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Área no encontrada")
		}
		return nil, err
	}

	moduloID, err := parseUUIDOpcional(req.ModuloID)
	if err != nil {
		return nil, apperrors.Validation("moduleId inválido")
	}

	fecha := s.now()
	if req.Fecha != nil && strings.TrimSpace(*req.Fecha) != "" {
		if fecha, err = parseFecha(*req.Fecha); err != nil {
			return nil, apperrors.Validation("Fecha inválida %q", *req.Fecha)
		}
	}
	periodo := strings.TrimSpace(req.Periodo)
	if periodo == "" {
		periodo = PeriodoDe(fecha)
	}
	if !PeriodoValido(periodo) {
		return nil, apperrors.Validation("Período inválido %q, se espera AAAA-MM", req.Periodo)
	}

	m := &model.Movimiento{
		PacienteID:  pac.ID,
		PacienteDNI: pac.DNI,
		AreaID:      areaID,
		ModuloID:    moduloID,
		Tipo:        req.Tipo,
		Periodo:     periodo,
		Fecha:       fecha,
		Monto:       monto,
		NroRecibo:   strings.TrimSpace(req.NroRecibo),
		Detalle:     strings.TrimSpace(req.Detalle),
		CreadoPor:   usuarioID,
	}
	if err := s.movs.Create(ctx, nil, m); err != nil {
		return nil, err
	}
	resp := MovimientoToDTO(*m)
	return &resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *movimientoService) Eliminar(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error) {
	m, err := s.movs.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Movimiento no encontrado")
	}
	if err != nil {
		return nil, err
	}
	if m.EsPagado() {
		return nil, apperrors.Conflict("El cargo está pagado y no puede eliminarse")
	}
	if err := s.movs.Delete(ctx, id); err != nil {
		return nil, err
	}
	resp := MovimientoToDTO(*m)
	return &resp, nil
}
