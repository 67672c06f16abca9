package service

import (
	"context"
	"errors"
	"time"

	"clinica/internal/apperrors"
	"clinica/internal/dto"
	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeltaCaja is one signed change to an area's balances. Positive values are
// money received, negative values money given back.
type DeltaCaja struct {
	AreaID      uuid.UUID
	PacienteID  *uuid.UUID
	PacienteDNI string
	Padres      decimal.Decimal
	ObraSocial  decimal.Decimal
	Origen      string
	Descripcion string
	UsuarioID   *uuid.UUID
}

type CajaService interface {
	// AplicarDelta runs inside the caller's transaction (tx may be nil in tests).
	AplicarDelta(ctx context.Context, tx *gorm.DB, d DeltaCaja) (*model.MovimientoCaja, error)
	Obtener(ctx context.Context, areaID uuid.UUID, page, limit int) (*dto.CajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
	now  func() time.Time
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo, now: time.Now}
}

// ── AplicarDelta ──────────────────────────────────────────────────────────────
// Upsert the Caja, increment the three balances in SQL, append one entry.
// Entries are immutable: there is no Update/Delete path.

func (s *cajaService) AplicarDelta(ctx context.Context, tx *gorm.DB, d DeltaCaja) (*model.MovimientoCaja, error) {
	caja, err := s.repo.EnsureCaja(ctx, tx, d.AreaID)
	if err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.repo.AplicarDelta(ctx, tx, caja.ID, d.Padres, d.ObraSocial, at); err != nil {
		return nil, err
	}

	total := d.Padres.Add(d.ObraSocial)
	origen := d.Origen
	if origen == "" {
		origen = model.OrigenEstadoCuenta
	}
	mov := &model.MovimientoCaja{
		CajaID:          caja.ID,
		AreaID:          d.AreaID,
		Direccion:       DireccionDelta(total),
		Categoria:       CategoriaDelta(d.Padres, d.ObraSocial),
		Origen:          origen,
		PacienteID:      d.PacienteID,
		PacienteDNI:     d.PacienteDNI,
		MontoPadres:     d.Padres,
		MontoObraSocial: d.ObraSocial,
		MontoTotal:      total,
		Descripcion:     d.Descripcion,
		UsuarioID:       d.UsuarioID,
		CreatedAt:       at,
	}
	if err := s.repo.CreateMovimiento(ctx, tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// CategoriaDelta names the side(s) that moved. MANUAL is kept for entries
// recorded without any balance change.
func CategoriaDelta(padres, obraSocial decimal.Decimal) string {
	switch {
	case !padres.IsZero() && !obraSocial.IsZero():
		return model.CategoriaAmbos
	case !padres.IsZero():
		return model.CategoriaPadres
	case !obraSocial.IsZero():
		return model.CategoriaObraSocial
	default:
		return model.CategoriaManual
	}
}

func DireccionDelta(total decimal.Decimal) string {
	if total.IsNegative() {
		return model.DireccionEgreso
	}
	return model.DireccionIngreso
}

// ── Obtener ───────────────────────────────────────────────────────────────────

func (s *cajaService) Obtener(ctx context.Context, areaID uuid.UUID, page, limit int) (*dto.CajaResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	caja, err := s.repo.FindByArea(ctx, areaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("El área no tiene caja registrada")
	}
	if err != nil {
		return nil, err
	}

	movs, total, err := s.repo.ListMovimientos(ctx, caja.ID, page, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.CajaResponse{
		CajaID:          caja.ID.String(),
		AreaID:          caja.AreaID.String(),
		SaldoPadres:     caja.SaldoPadres,
		SaldoObraSocial: caja.SaldoObraSocial,
		SaldoTotal:      caja.SaldoTotal,
		Movimientos:     make([]dto.MovimientoCajaResponse, 0, len(movs)),
		Total:           total,
		Page:            page,
		Limit:           limit,
	}
	if caja.UltimoMovimiento != nil {
		ts := caja.UltimoMovimiento.Format(time.RFC3339)
		resp.UltimoMovimiento = &ts
	}
	for _, m := range movs {
		resp.Movimientos = append(resp.Movimientos, movimientoCajaToDTO(m))
	}
	return resp, nil
}

func movimientoCajaToDTO(m model.MovimientoCaja) dto.MovimientoCajaResponse {
	r := dto.MovimientoCajaResponse{
		ID:              m.ID.String(),
		Direccion:       m.Direccion,
		Categoria:       m.Categoria,
		Origen:          m.Origen,
		PacienteDNI:     m.PacienteDNI,
		MontoPadres:     m.MontoPadres,
		MontoObraSocial: m.MontoObraSocial,
		MontoTotal:      m.MontoTotal,
		Descripcion:     m.Descripcion,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	if m.UsuarioID != nil {
		id := m.UsuarioID.String()
		r.UsuarioID = &id
	}
	return r
}
