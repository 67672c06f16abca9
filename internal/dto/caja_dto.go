package dto

import "github.com/shopspring/decimal"

type MovimientoCajaResponse struct {
	ID              string          `json:"id"`
	Direccion       string          `json:"direction"` // INFLOW | OUTFLOW
	Categoria       string          `json:"category"`  // FAMILY | INSURER | BOTH | MANUAL
	Origen          string          `json:"origin"`
	PacienteDNI     string          `json:"dni"`
	MontoPadres     decimal.Decimal `json:"familyAmount"`
	MontoObraSocial decimal.Decimal `json:"insurerAmount"`
	MontoTotal      decimal.Decimal `json:"totalAmount"`
	Descripcion     string          `json:"description"`
	UsuarioID       *string         `json:"userId"`
	CreatedAt       string          `json:"createdAt"`
}

type CajaResponse struct {
	CajaID           string                   `json:"id"`
	AreaID           string                   `json:"areaId"`
	SaldoPadres      decimal.Decimal          `json:"familyBalance"`
	SaldoObraSocial  decimal.Decimal          `json:"insurerBalance"`
	SaldoTotal       decimal.Decimal          `json:"totalBalance"`
	UltimoMovimiento *string                  `json:"lastMovementAt"`
	Movimientos      []MovimientoCajaResponse `json:"entries"`
	Total            int64                    `json:"totalEntries"`
	Page             int                      `json:"page"`
	Limit            int                      `json:"limit"`
}
