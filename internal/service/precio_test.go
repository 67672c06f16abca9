package service

import (
	"encoding/json"
	"testing"
	"time"

	"clinica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCantidad(t *testing.T) {
	cases := map[string]string{
		"1":     "1",
		"2":     "2",
		"1/2":   "0.5",
		"1/4":   "0.25",
		"1/3":   "0.3333333333",
		"0,5":   "0.5",
		"1.5":   "1.5",
		"1 1/2": "1.5",
		"":      "0",
		"abc":   "0",
		"1/0":   "0",
		"3/-1":  "0",
	}
	for in, want := range cases {
		got := ParseCantidad(in)
		assert.Truef(t, decimal.RequireFromString(want).Equal(got), "ParseCantidad(%q) = %s, want %s", in, got, want)
	}
}

func TestParseMonto(t *testing.T) {
	assert.Equal(t, "1234.56", ParseMonto("1.234,56").String())
	assert.Equal(t, "10000", ParseMonto("$ 10.000").String())
	assert.Equal(t, "0.5", ParseMonto("0,5").String())
	assert.True(t, ParseMonto("").IsZero())
	assert.True(t, ParseMonto("n/a").IsZero())
}

func TestParseMontoValor(t *testing.T) {
	assert.Equal(t, "1500", ParseMontoValor(float64(1500)).String())
	assert.Equal(t, "7", ParseMontoValor(7).String())
	assert.Equal(t, "12.5", ParseMontoValor(json.Number("12.5")).String())
	assert.Equal(t, "2500.75", ParseMontoValor("2.500,75").String())
	assert.True(t, ParseMontoValor(nil).IsZero())
	assert.True(t, ParseMontoValor([]int{1}).IsZero())
}

func TestResolverPrecioUnitario_Prioridad(t *testing.T) {
	mod := &model.Modulo{ValorPadres: decimal.NewFromInt(10000)}

	// No overrides: module base price
	assert.Equal(t, "10000", ResolverPrecioUnitario(mod, nil).String())

	// precio wins over valor even when valor comes first in the map literal
	o := map[string]interface{}{"valor": 900.0, "precio": "1.100,00"}
	assert.Equal(t, "1100", ResolverPrecioUnitario(mod, o).String())

	// Non-positive fields are skipped
	o = map[string]interface{}{"precio": 0, "valor": "", "monto": -5.0, "arancel": "8.000"}
	assert.Equal(t, "8000", ResolverPrecioUnitario(mod, o).String())

	// Nothing usable: back to the module
	o = map[string]interface{}{"observaciones": "sin cargo"}
	assert.Equal(t, "10000", ResolverPrecioUnitario(mod, o).String())
}

func TestResolverPrecioUnitario_SinModulo(t *testing.T) {
	assert.True(t, ResolverPrecioUnitario(nil, nil).IsZero())
	assert.True(t, ResolverPrecioUnitario(&model.Modulo{ValorPadres: decimal.NewFromInt(-1)}, nil).IsZero())
}

func TestMontoCargo_RedondeaCentavos(t *testing.T) {
	tercio := ParseCantidad("1/3")
	assert.Equal(t, "3333.33", MontoCargo(decimal.NewFromInt(10000), tercio).StringFixed(2))
	assert.Equal(t, "5000.00", MontoCargo(decimal.NewFromInt(10000), ParseCantidad("1/2")).StringFixed(2))
}

func TestClaveAsignacion(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "asig:"+id.String(), ClaveAsignacion(&model.Asignacion{ID: id}))

	mod, area := uuid.New(), uuid.New()
	desde := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	hasta := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	legacy := &model.Asignacion{ModuloID: mod, AreaID: area, Desde: desde}
	assert.Equal(t, "mod:"+mod.String()+"|area:"+area.String()+"|2025-01-01..", ClaveAsignacion(legacy))

	legacy.Hasta = &hasta
	assert.Equal(t, "mod:"+mod.String()+"|area:"+area.String()+"|2025-01-01..2025-06-30", ClaveAsignacion(legacy))
}

func TestPeriodo(t *testing.T) {
	assert.True(t, PeriodoValido("2025-01"))
	assert.False(t, PeriodoValido("2025-13"))
	assert.False(t, PeriodoValido("2025-1"))
	assert.False(t, PeriodoValido("202501"))

	assert.Equal(t, "2025-03", PeriodoDe(time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), InicioPeriodo("2025-02"))
}
