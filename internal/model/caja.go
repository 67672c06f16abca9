package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja is the running balance of one area. It is only ever changed by
// applying a signed delta; it is never recomputed from the movements.
type Caja struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AreaID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	SaldoPadres      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SaldoObraSocial  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SaldoTotal       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	UltimoMovimiento *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Caja) TableName() string { return "cajas" }

// Direccion / Categoria de MovimientoCaja
const (
	DireccionIngreso = "INFLOW"
	DireccionEgreso  = "OUTFLOW"

	CategoriaPadres     = "FAMILY"
	CategoriaObraSocial = "INSURER"
	CategoriaAmbos      = "BOTH"
	CategoriaManual     = "MANUAL"

	OrigenEstadoCuenta = "estado_cuenta"
)

// MovimientoCaja is an immutable audit record of one delta applied to a Caja.
// Movements are NEVER modified or deleted.
type MovimientoCaja struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AreaID          uuid.UUID       `gorm:"type:uuid;not null"`
	Direccion       string          `gorm:"type:varchar(10);not null"`
	Categoria       string          `gorm:"type:varchar(10);not null"`
	Origen          string          `gorm:"type:varchar(30);not null"`
	PacienteID      *uuid.UUID      `gorm:"type:uuid"`
	PacienteDNI     string          `gorm:"column:paciente_dni;type:varchar(20);not null;default:''"`
	MontoPadres     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoObraSocial decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	MontoTotal      decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Descripcion     string          `gorm:"not null;default:''"`
	UsuarioID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
