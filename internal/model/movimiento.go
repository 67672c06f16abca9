package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento. The monto of every kind is a positive magnitude; the
// direction is implied by the kind.
const (
	TipoCargo          = "CHARGE"
	TipoPagoObraSocial = "INSURANCE_PAYMENT"
	TipoPagoParticular = "PRIVATE_PAYMENT"
	TipoFactura        = "INVOICE"
	TipoAjusteMas      = "ADJUSTMENT_PLUS"
	TipoAjusteMenos    = "ADJUSTMENT_MINUS"

	EstadoCargoPendiente = "PENDING"
	EstadoCargoPagado    = "PAID"
)

// Movimiento is one financial event of a patient in an area.
//
// CHARGE rows carry a denormalized snapshot of the assignment (module and
// professional names, quantity, unit price) and the payment allocation made
// against them, so a historical statement never changes when the catalog does.
// At most one CHARGE exists per (paciente, area, modulo, periodo, clave_asignacion);
// the partial unique index lives in the SQL migrations.
type Movimiento struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PacienteDNI string          `gorm:"column:paciente_dni;type:varchar(20);not null;index"`
	AreaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ModuloID    *uuid.UUID      `gorm:"type:uuid"`
	Tipo        string          `gorm:"type:varchar(24);not null"`
	Periodo     string          `gorm:"type:char(7);not null"` // YYYY-MM
	Fecha       time.Time       `gorm:"not null"`
	Monto       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Assignment snapshot (CHARGE only)
	AsignacionID      *uuid.UUID      `gorm:"type:uuid"`
	ClaveAsignacion   string          `gorm:"type:varchar(160);not null;default:''"`
	Cantidad          decimal.Decimal `gorm:"type:decimal(16,10);not null;default:0"`
	CantidadTexto     string          `gorm:"type:varchar(16);not null;default:''"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ModuloNombre      string          `gorm:"not null;default:''"`
	ProfesionalNombre string          `gorm:"not null;default:''"`
	EsAjusteAdmin     bool            `gorm:"not null;default:false"`
	Estado            string          `gorm:"type:varchar(10);not null;default:''"`

	// Set once staff write the charge through the statement editor; the
	// monthly job stops refreshing its pricing from then on.
	EditadoManual bool `gorm:"not null;default:false"`

	// Payment allocation snapshot (CHARGE only)
	PagadoPadres      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PagadoObraSocial  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DetallePadres     string          `gorm:"not null;default:''"`
	DetalleObraSocial string          `gorm:"not null;default:''"`

	// Invoice fields (INVOICE only); Detalle is also the free text of payments and adjustments.
	NroRecibo string `gorm:"type:varchar(40);not null;default:''"`
	Detalle   string `gorm:"not null;default:''"`

	CreadoPor *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Movimiento) TableName() string { return "movimientos" }

// EsPagado reports whether the charge is closed and must never be rewritten.
func (m *Movimiento) EsPagado() bool {
	return m.Tipo == TipoCargo && m.Estado == EstadoCargoPagado
}

// TiposValidos lists every movement kind accepted by the store.
var TiposValidos = []string{
	TipoCargo, TipoPagoObraSocial, TipoPagoParticular, TipoFactura, TipoAjusteMas, TipoAjusteMenos,
}
