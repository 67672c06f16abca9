package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Paciente is owned by the patient CRUD; this service only reads it.
// CondicionPago is free text as typed by the front desk ("Obra social OSDE",
// "Particular", ...).
type Paciente struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DNI           string    `gorm:"column:dni;type:varchar(20);uniqueIndex;not null"`
	Nombre        string    `gorm:"not null"`
	Apellido      string    `gorm:"not null"`
	CondicionPago string    `gorm:"not null;default:''"`
	ObraSocial    string    `gorm:"not null;default:''"`
	Activo        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Paciente) TableName() string { return "pacientes" }

// TieneObraSocial reports whether the payment condition indicates insurer coverage.
func (p *Paciente) TieneObraSocial() bool {
	return CondicionConObraSocial(p.CondicionPago)
}

// CondicionConObraSocial matches "obra social" case-insensitively and rejects
// a bare "particular".
func CondicionConObraSocial(condicion string) bool {
	c := strings.ToLower(strings.TrimSpace(condicion))
	if c == "particular" {
		return false
	}
	return strings.Contains(c, "obra social")
}

func (p *Paciente) NombreCompleto() string {
	return strings.TrimSpace(p.Apellido + ", " + p.Nombre)
}

type Area struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null;uniqueIndex"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Area) TableName() string { return "areas" }

// Modulo is a billable unit. ValorPadres is the base price payable by the family.
type Modulo struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string          `gorm:"type:varchar(30);not null;default:''"`
	Nombre      string          `gorm:"not null"`
	AreaID      *uuid.UUID      `gorm:"type:uuid"`
	ValorPadres decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValorModulo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Modulo) TableName() string { return "modulos" }

type Profesional struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Apellido  string    `gorm:"not null;default:''"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (Profesional) TableName() string { return "profesionales" }

func (p *Profesional) NombreCompleto() string {
	return strings.TrimSpace(p.Nombre + " " + p.Apellido)
}

// Asignacion binds a patient to a module in an area for a validity window.
// Overrides keeps the per-assignment price fields exactly as historical data
// stored them (numbers or "1.234,56" strings under several names).
type Asignacion struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ModuloID      uuid.UUID         `gorm:"type:uuid;not null"`
	AreaID        uuid.UUID         `gorm:"type:uuid;not null"`
	ProfesionalID *uuid.UUID        `gorm:"type:uuid"`
	Cantidad      string            `gorm:"type:varchar(16);not null;default:'1'"`
	Desde         time.Time         `gorm:"not null"`
	Hasta         *time.Time
	Overrides     datatypes.JSONMap `gorm:"type:jsonb"`
	Activa        bool              `gorm:"not null;default:true"`
	CreatedAt     time.Time

	Paciente    *Paciente    `gorm:"foreignKey:PacienteID"`
	Modulo      *Modulo      `gorm:"foreignKey:ModuloID"`
	Profesional *Profesional `gorm:"foreignKey:ProfesionalID"`
}

func (Asignacion) TableName() string { return "asignaciones" }

// VigenteEn reports whether the assignment covers any day of the given month.
func (a *Asignacion) VigenteEn(inicioMes time.Time) bool {
	finMes := inicioMes.AddDate(0, 1, 0)
	if !a.Desde.Before(finMes) {
		return false
	}
	return a.Hasta == nil || !a.Hasta.Before(inicioMes)
}
