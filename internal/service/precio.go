package service

// Pricing resolver.
// Resolves the unit price of an assignment and the amount of the resulting
// charge. Pure functions: malformed numbers degrade to zero, nothing errors.

import (
	"encoding/json"
	"strings"

	"clinica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cantidadPrecision bounds the digits kept for repeating fractions such as 1/3.
const cantidadPrecision = 10

// overrideAccessor reads one per-assignment price field.
type overrideAccessor struct {
	campo string
	leer  func(overrides map[string]interface{}) decimal.Decimal
}

func campoMonto(nombre string) overrideAccessor {
	return overrideAccessor{
		campo: nombre,
		leer: func(o map[string]interface{}) decimal.Decimal {
			v, ok := o[nombre]
			if !ok {
				return decimal.Zero
			}
			return ParseMontoValor(v)
		},
	}
}

// overridesPrecio is the priority order of the override fields historical
// assignments were stored with: explicit price, value, amount, tariff, fee, import.
// The first positive one wins.
var overridesPrecio = []overrideAccessor{
	campoMonto("precio"),
	campoMonto("valor"),
	campoMonto("monto"),
	campoMonto("arancel"),
	campoMonto("honorario"),
	campoMonto("importe"),
}

// ResolverPrecioUnitario returns the unit price for an assignment of modulo.
// overrides may be nil. Falls back to the module's ValorPadres.
func ResolverPrecioUnitario(modulo *model.Modulo, overrides map[string]interface{}) decimal.Decimal {
	if len(overrides) > 0 {
		for _, acc := range overridesPrecio {
			if v := acc.leer(overrides); v.IsPositive() {
				return v
			}
		}
	}
	if modulo == nil || modulo.ValorPadres.IsNegative() {
		return decimal.Zero
	}
	return modulo.ValorPadres
}

// MontoCargo is the amount owed for a charge: unit price × quantity rounded to cents.
func MontoCargo(precioUnitario, cantidad decimal.Decimal) decimal.Decimal {
	return precioUnitario.Mul(cantidad).Round(2)
}

// ParseMonto parses an amount written with comma as decimal separator and dot
// as thousands separator ("1.234,56"). Malformed input yields zero.
func ParseMonto(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseMontoValor accepts whatever a JSON column decoded: numbers, json.Number
// or localized strings.
func ParseMontoValor(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(t)
	case float32:
		return decimal.NewFromFloat32(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case decimal.Decimal:
		return t
	case string:
		return ParseMonto(t)
	default:
		return decimal.Zero
	}
}

// ParseCantidad parses a quantity: "1", "0,5", "1.5", "1/2", "1/3", "1 1/2".
// Malformed input or a zero denominator yields zero.
func ParseCantidad(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// Mixed number: "1 1/2"
	if entero, frac, ok := strings.Cut(s, " "); ok && strings.Contains(frac, "/") {
		e := parseDecimalSimple(entero)
		f := parseFraccion(strings.TrimSpace(frac))
		if e.IsZero() && f.IsZero() {
			return decimal.Zero
		}
		return e.Add(f)
	}
	if strings.Contains(s, "/") {
		return parseFraccion(s)
	}
	return parseDecimalSimple(s)
}

func parseFraccion(s string) decimal.Decimal {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return decimal.Zero
	}
	n := parseDecimalSimple(num)
	d := parseDecimalSimple(den)
	if d.IsZero() || d.IsNegative() {
		return decimal.Zero
	}
	return n.DivRound(d, cantidadPrecision)
}

// parseDecimalSimple accepts either separator; quantities never carry thousands.
func parseDecimalSimple(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ClaveAsignacion is the stable key of the charges generated from a.
// Assignments without an id (legacy imports) fall back to module, area and
// validity window, which collides for two identical assignments in the same window.
func ClaveAsignacion(a *model.Asignacion) string {
	if a.ID != uuid.Nil {
		return claveAsignacionID(a.ID)
	}
	hasta := ""
	if a.Hasta != nil {
		hasta = a.Hasta.Format("2006-01-02")
	}
	return "mod:" + a.ModuloID.String() + "|area:" + a.AreaID.String() + "|" + a.Desde.Format("2006-01-02") + ".." + hasta
}

func claveAsignacionID(id uuid.UUID) string { return "asig:" + id.String() }
