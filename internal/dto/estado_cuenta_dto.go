package dto

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// The JSON field names of this file are the wire contract of the statement
// editor and must not change.

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Cantidad accepts a quantity both as a JSON string ("1/2") and as a number (0.5).
type Cantidad string

func (c *Cantidad) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Cantidad(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*c = Cantidad(n.String())
	return nil
}

type FilaGuardarRequest struct {
	ID                *string          `json:"id"              validate:"omitempty,uuid"`
	Periodo           string           `json:"period"          validate:"required"`
	ModuloID          *string          `json:"moduleId"        validate:"omitempty,uuid"`
	ModuloNombre      string           `json:"moduleName"`
	ProfesionalID     *string          `json:"professionalId"  validate:"omitempty,uuid"`
	Profesional       string           `json:"professional"`
	AsignacionID      *string          `json:"assignmentId"    validate:"omitempty,uuid"`
	ClaveAsignacion   string           `json:"assignmentKey"   validate:"max=160"`
	Cantidad          Cantidad         `json:"quantity"`
	PrecioUnitario    *decimal.Decimal `json:"unitPrice"`
	MontoAPagar       *decimal.Decimal `json:"amountDue"`
	PagadoPadres      decimal.Decimal  `json:"familyPaid"      validate:"min=0"`
	DetallePadres     string           `json:"familyDetail"`
	PagadoObraSocial  decimal.Decimal  `json:"insurerPaid"     validate:"min=0"`
	DetalleObraSocial string           `json:"insurerDetail"`
	EsAjusteAdmin     bool             `json:"adminAdjustment"`
}

type FacturaGuardarRequest struct {
	Periodo   string          `json:"period"`
	Fecha     *string         `json:"date"`
	NroRecibo string          `json:"receiptNumber" validate:"max=40"`
	Detalle   string          `json:"detail"`
	Monto     decimal.Decimal `json:"amount"        validate:"min=0"`
}

// GuardarEstadoCuentaRequest is the body of PUT /v1/statements/:dni.
// AreaID is checked by the service so a missing area is a 400, not a binding error.
type GuardarEstadoCuentaRequest struct {
	AreaID   string                  `json:"areaId"   validate:"omitempty,uuid"`
	Filas    []FilaGuardarRequest    `json:"rows"     validate:"dive"`
	Facturas []FacturaGuardarRequest `json:"invoices" validate:"dive"`
}

type CrearMovimientoRequest struct {
	Tipo      string           `json:"kind"          validate:"required,oneof=INSURANCE_PAYMENT PRIVATE_PAYMENT ADJUSTMENT_PLUS ADJUSTMENT_MINUS"`
	AreaID    string           `json:"areaId"        validate:"omitempty,uuid"`
	Monto     *decimal.Decimal `json:"amount"`
	Periodo   string           `json:"period"`
	Fecha     *string          `json:"date"`
	ModuloID  *string          `json:"moduleId"      validate:"omitempty,uuid"`
	NroRecibo string           `json:"receiptNumber" validate:"max=40"`
	Detalle   string           `json:"detail"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PacienteResumen struct {
	ID              string `json:"id"`
	DNI             string `json:"dni"`
	Nombre          string `json:"name"`
	CondicionPago   string `json:"paymentCondition"`
	ObraSocial      string `json:"insurer"`
	TieneObraSocial bool   `json:"insured"`
}

type FilaEstadoCuenta struct {
	ID                string          `json:"id"`
	AreaID            string          `json:"areaId"`
	AreaNombre        string          `json:"areaName"`
	Periodo           string          `json:"period"`
	Fecha             string          `json:"date"`
	ModuloID          *string         `json:"moduleId"`
	ModuloNombre      string          `json:"moduleName"`
	Profesional       string          `json:"professional"`
	AsignacionID      *string         `json:"assignmentId"`
	ClaveAsignacion   string          `json:"assignmentKey"`
	Cantidad          string          `json:"quantity"`
	CantidadValor     decimal.Decimal `json:"quantityValue"`
	PrecioUnitario    decimal.Decimal `json:"unitPrice"`
	MontoAPagar       decimal.Decimal `json:"amountDue"`
	PagadoPadres      decimal.Decimal `json:"familyPaid"`
	DetallePadres     string          `json:"familyDetail"`
	PagadoObraSocial  decimal.Decimal `json:"insurerPaid"`
	DetalleObraSocial string          `json:"insurerDetail"`
	Estado            string          `json:"status"` // PENDING | PAID
	EsAjusteAdmin     bool            `json:"adminAdjustment"`

	// Standalone payments of the same period and module, shown next to the
	// charge. They are independent movements: a save ignores these fields and
	// familyPaid / insurerPaid keep the charge's own allocation only.
	PagosSueltosPadres       decimal.Decimal `json:"standaloneFamilyPaid"`
	DetalleSueltosPadres     string          `json:"standaloneFamilyDetail"`
	PagosSueltosObraSocial   decimal.Decimal `json:"standaloneInsurerPaid"`
	DetalleSueltosObraSocial string          `json:"standaloneInsurerDetail"`
}

type FacturaEstadoCuenta struct {
	ID        string          `json:"id"`
	Periodo   string          `json:"period"`
	Fecha     string          `json:"date"`
	NroRecibo string          `json:"receiptNumber"`
	Detalle   string          `json:"detail"`
	Monto     decimal.Decimal `json:"amount"`
}

type TotalesEstadoCuenta struct {
	MontoAPagar          decimal.Decimal `json:"amountDue"`
	PagadoPadres         decimal.Decimal `json:"familyPaid"`
	PagadoObraSocial     decimal.Decimal `json:"insurerPaid"`
	AjustesMas           decimal.Decimal `json:"adjustmentsPlus"`
	AjustesMenos         decimal.Decimal `json:"adjustmentsMinus"`
	Pagado               decimal.Decimal `json:"paid"`
	Saldo                decimal.Decimal `json:"balance"`
	Estado               string          `json:"status"` // PAID | PENDING
	Facturado            decimal.Decimal `json:"invoiced"`
	FacturadoMenosPagado decimal.Decimal `json:"invoicedMinusPaid"`
}

// EstadoCuentaResponse is the statement of a patient. Empty is the explicit
// marker for "no charges and no movements at all".
type EstadoCuentaResponse struct {
	Empty       bool                  `json:"empty"`
	Paciente    PacienteResumen       `json:"patient"`
	AreaID      *string               `json:"areaId"`
	Periodo     *string               `json:"period"`
	Filas       []FilaEstadoCuenta    `json:"rows"`
	Facturas    []FacturaEstadoCuenta `json:"invoices"`
	Movimientos []MovimientoResponse  `json:"movements"` // standalone payments and adjustments
	Totales     TotalesEstadoCuenta   `json:"totals"`
}

// GuardarEstadoCuentaResponse reports the reconciliation of a save. inserted
// counts new charges and updated counts changed ones, so inserted + updated is
// the number of charge rows written. Unchanged rows count in neither.
type GuardarEstadoCuentaResponse struct {
	OK           bool            `json:"ok"`
	Insertados   int             `json:"inserted"`
	Actualizados int             `json:"updated"`
	Eliminados   int             `json:"deleted"`
	Facturas     int             `json:"invoices"`
	DeltaPadres  decimal.Decimal `json:"deltaFamily"`
	DeltaOS      decimal.Decimal `json:"deltaInsurer"`
}

type MovimientoResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"kind"`
	PacienteDNI string          `json:"dni"`
	AreaID      string          `json:"areaId"`
	ModuloID    *string         `json:"moduleId"`
	Periodo     string          `json:"period"`
	Fecha       string          `json:"date"`
	Monto       decimal.Decimal `json:"amount"`
	NroRecibo   string          `json:"receiptNumber,omitempty"`
	Detalle     string          `json:"detail"`
	Estado      string          `json:"status,omitempty"`
}
