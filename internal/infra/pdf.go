package infra

// Account extract rendering with go-pdf/fpdf.
// Landscape A4 document with:
//   - Colored header band on every page (clinic, patient, area, range, invoiced − paid)
//   - Charge table with fixed-width fitted columns and per-row page breaks
//   - Invoice table on its own page
//   - Closing totals box (cumulative amount due, paid, invoiced)
//
// The document is returned as bytes; nothing is written to disk.

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"clinica/internal/dto"
	"clinica/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	extractoMargen     = 10.0
	extractoAltoFila   = 6.0
	extractoAltoHeader = 7.0
	extractoPie        = 12.0
)

// ExtractoPDF holds an already aggregated extract. Filas and Facturas are the
// requested window; Totales are cumulative up to the end of that window.
type ExtractoPDF struct {
	Clinica    string
	Paciente   dto.PacienteResumen
	AreaNombre string
	Desde      string
	Hasta      string
	Filas      []dto.FilaEstadoCuenta
	Facturas   []dto.FacturaEstadoCuenta
	Totales    dto.TotalesEstadoCuenta
	Emitido    time.Time
}

type columna struct {
	titulo string
	ancho  float64
	align  string
	libre  bool // free text; receives slack when the table is narrower than the page
}

// GenerateExtractoPDF renders the extract and returns the PDF bytes.
func GenerateExtractoPDF(d ExtractoPDF) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(extractoMargen, extractoMargen, extractoMargen)
	pdf.SetAutoPageBreak(false, extractoPie)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252: keeps accents and ¼ ½ ¾

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*extractoMargen
	limiteY := pageH - extractoPie

	pdf.SetHeaderFunc(func() { dibujarBanda(pdf, tr, d, contentW) })
	pdf.SetFooterFunc(func() {
		pdf.SetY(-extractoPie + 4)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentW/2, 4, tr("Emitido "+d.Emitido.Format("02/01/2006 15:04")), "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 4, fmt.Sprintf("%s %d/{nb}", tr("Página"), pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	// ── Cargos ───────────────────────────────────────────────────────────────
	cols := columnasCargos(d.Paciente.TieneObraSocial)
	anchos := FitColumns(anchosDe(cols), contentW, indicesLibres(cols))

	pdf.AddPage()
	dibujarEncabezadoTabla(pdf, tr, cols, anchos)
	pdf.SetFont("Helvetica", "", 7.5)
	if len(d.Filas) == 0 {
		pdf.CellFormat(contentW, extractoAltoFila, tr("Sin cargos en el período"), "LRB", 1, "C", false, 0, "")
	}
	for i, f := range d.Filas {
		if pdf.GetY()+extractoAltoFila > limiteY {
			pdf.AddPage()
			dibujarEncabezadoTabla(pdf, tr, cols, anchos)
			pdf.SetFont("Helvetica", "", 7.5)
		}
		relleno := i%2 == 1
		pdf.SetFillColor(242, 245, 250)
		for j, v := range valoresCargo(f, d.Paciente.TieneObraSocial) {
			pdf.CellFormat(anchos[j], extractoAltoFila, recortar(pdf, tr(v), anchos[j]), "LR", 0, cols[j].align, relleno, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Line(extractoMargen, pdf.GetY(), extractoMargen+contentW, pdf.GetY())

	// ── Facturas ─────────────────────────────────────────────────────────────
	colsF := columnasFacturas()
	anchosF := FitColumns(anchosDe(colsF), contentW, indicesLibres(colsF))

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 7, "Facturas", "", 1, "L", false, 0, "")
	dibujarEncabezadoTabla(pdf, tr, colsF, anchosF)
	pdf.SetFont("Helvetica", "", 7.5)
	facturas := d.Facturas
	if len(facturas) == 0 {
		// Placeholder line; the store never holds an empty invoice
		facturas = []dto.FacturaEstadoCuenta{{}}
	}
	for _, f := range facturas {
		if pdf.GetY()+extractoAltoFila > limiteY {
			pdf.AddPage()
			dibujarEncabezadoTabla(pdf, tr, colsF, anchosF)
			pdf.SetFont("Helvetica", "", 7.5)
		}
		for j, v := range valoresFactura(f) {
			pdf.CellFormat(anchosF[j], extractoAltoFila, recortar(pdf, tr(v), anchosF[j]), "LRB", 0, colsF[j].align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ── Totales ──────────────────────────────────────────────────────────────
	const altoCaja = 5*extractoAltoFila + 4
	if pdf.GetY()+altoCaja+6 > limiteY {
		pdf.AddPage()
	}
	pdf.Ln(6)
	dibujarTotales(pdf, tr, d.Totales, extractoMargen+contentW-110, 110)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render extract: %w", err)
	}
	return buf.Bytes(), nil
}

func dibujarBanda(pdf *fpdf.Fpdf, tr func(string) string, d ExtractoPDF, contentW float64) {
	const alto = 22.0
	x, y := extractoMargen, extractoMargen
	pdf.SetFillColor(31, 78, 121)
	pdf.Rect(x, y, contentW, alto, "F")
	pdf.SetTextColor(255, 255, 255)

	pdf.SetXY(x+3, y+2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.6, 6, tr(d.Clinica+" · Extracto de cuenta"), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.CellFormat(contentW*0.6, 4.5, tr(fmt.Sprintf("Paciente: %s  DNI %s", d.Paciente.Nombre, d.Paciente.DNI)), "", 2, "L", false, 0, "")
	cond := d.Paciente.CondicionPago
	if d.Paciente.ObraSocial != "" {
		cond += " (" + d.Paciente.ObraSocial + ")"
	}
	pdf.CellFormat(contentW*0.6, 4.5, tr(fmt.Sprintf("Área: %s   Condición: %s", d.AreaNombre, cond)), "", 2, "L", false, 0, "")
	pdf.CellFormat(contentW*0.6, 4.5, tr("Período: "+rangoTexto(d.Desde, d.Hasta)), "", 0, "L", false, 0, "")

	pdf.SetXY(x+contentW*0.6, y+4)
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.CellFormat(contentW*0.4-3, 5, tr("Facturado - Pagado"), "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW*0.4-3, 8, tr(FormatMonto(d.Totales.FacturadoMenosPagado)), "", 0, "R", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y+alto+3)
}

func dibujarEncabezadoTabla(pdf *fpdf.Fpdf, tr func(string) string, cols []columna, anchos []float64) {
	pdf.SetFont("Helvetica", "B", 7.5)
	pdf.SetFillColor(214, 226, 240)
	for i, c := range cols {
		pdf.CellFormat(anchos[i], extractoAltoHeader, tr(c.titulo), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func dibujarTotales(pdf *fpdf.Fpdf, tr func(string) string, t dto.TotalesEstadoCuenta, x, ancho float64) {
	lineas := []struct {
		etiqueta string
		valor    decimal.Decimal
	}{
		{"Total a pagar", t.MontoAPagar},
		{"Total pagado", t.Pagado},
		{"Total facturado", t.Facturado},
		{"Saldo", t.Saldo},
	}
	y := pdf.GetY()
	pdf.SetDrawColor(31, 78, 121)
	pdf.Rect(x, y, ancho, float64(len(lineas)+1)*extractoAltoFila+4, "D")
	pdf.SetXY(x+2, y+2)
	for _, l := range lineas {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(ancho*0.55, extractoAltoFila, tr(l.etiqueta), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(ancho*0.45-4, extractoAltoFila, tr(FormatMonto(l.valor)), "", 2, "R", false, 0, "")
		pdf.SetX(x + 2)
	}
	estado := "PENDIENTE"
	if t.Estado == model.EstadoCargoPagado {
		estado = "PAGADO"
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(ancho-4, extractoAltoFila, tr("Estado: "+estado), "", 1, "R", false, 0, "")
	pdf.SetDrawColor(0, 0, 0)
}

func columnasCargos(conObraSocial bool) []columna {
	cols := []columna{
		{titulo: "Período", ancho: 16, align: "C"},
		{titulo: "Módulo", ancho: 50, align: "L", libre: true},
		{titulo: "Profesional", ancho: 45, align: "L", libre: true},
		{titulo: "Cant.", ancho: 14, align: "C"},
		{titulo: "P. unitario", ancho: 24, align: "R"},
		{titulo: "A pagar", ancho: 26, align: "R"},
		{titulo: "Pagó familia", ancho: 26, align: "R"},
		{titulo: "Detalle familia", ancho: 40, align: "L", libre: true},
	}
	if conObraSocial {
		cols = append(cols,
			columna{titulo: "Pagó obra social", ancho: 26, align: "R"},
			columna{titulo: "Detalle obra social", ancho: 40, align: "L", libre: true},
		)
	}
	return append(cols, columna{titulo: "Estado", ancho: 18, align: "C"})
}

func valoresCargo(f dto.FilaEstadoCuenta, conObraSocial bool) []string {
	v := []string{
		f.Periodo,
		f.ModuloNombre,
		f.Profesional,
		FormatCantidad(f.CantidadValor),
		FormatMonto(f.PrecioUnitario),
		FormatMonto(f.MontoAPagar),
		FormatMonto(f.PagadoPadres.Add(f.PagosSueltosPadres)),
		unirTexto(f.DetallePadres, f.DetalleSueltosPadres),
	}
	if conObraSocial {
		v = append(v,
			FormatMonto(f.PagadoObraSocial.Add(f.PagosSueltosObraSocial)),
			unirTexto(f.DetalleObraSocial, f.DetalleSueltosObraSocial),
		)
	}
	estado := "Pendiente"
	if f.Estado == model.EstadoCargoPagado {
		estado = "Pagado"
	}
	return append(v, estado)
}

// unirTexto joins the stored and standalone payment details of a cell.
func unirTexto(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " | " + b
}

func columnasFacturas() []columna {
	return []columna{
		{titulo: "Período", ancho: 20, align: "C"},
		{titulo: "Fecha", ancho: 24, align: "C"},
		{titulo: "Nº recibo", ancho: 40, align: "L"},
		{titulo: "Detalle", ancho: 150, align: "L", libre: true},
		{titulo: "Monto", ancho: 30, align: "R"},
	}
}

func valoresFactura(f dto.FacturaEstadoCuenta) []string {
	if f.ID == "" {
		return []string{"-", "-", "-", "Sin facturas registradas", FormatMonto(decimal.Zero)}
	}
	fecha := f.Fecha
	if t, err := time.Parse("2006-01-02", f.Fecha); err == nil {
		fecha = t.Format("02/01/2006")
	}
	return []string{f.Periodo, fecha, f.NroRecibo, f.Detalle, FormatMonto(f.Monto)}
}

func anchosDe(cols []columna) []float64 {
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = c.ancho
	}
	return out
}

func indicesLibres(cols []columna) []int {
	var out []int
	for i, c := range cols {
		if c.libre {
			out = append(out, i)
		}
	}
	return out
}

// FitColumns sizes declared column widths to exactly avail. Wider tables are
// scaled proportionally and the rounding remainder goes to the last column.
// Narrower ones split the slack between the two widest free-text columns
// (or the last column when there is none).
func FitColumns(widths []float64, avail float64, libres []int) []float64 {
	out := make([]float64, len(widths))
	copy(out, widths)
	if len(out) == 0 || avail <= 0 {
		return out
	}

	var total float64
	for _, w := range out {
		total += w
	}
	if total <= 0 {
		return out
	}

	switch {
	case total > avail:
		factor := avail / total
		var suma float64
		for i := range out {
			out[i] = math.Floor(out[i]*factor*10) / 10
			suma += out[i]
		}
		out[len(out)-1] += avail - suma
	case total < avail:
		slack := avail - total
		destino := dosMasAnchas(out, libres)
		if len(destino) == 0 {
			out[len(out)-1] += slack
			break
		}
		parte := slack / float64(len(destino))
		for _, i := range destino {
			out[i] += parte
		}
	}
	return out
}

// dosMasAnchas returns up to two indices of libres with the widest columns.
func dosMasAnchas(widths []float64, libres []int) []int {
	primero, segundo := -1, -1
	for _, i := range libres {
		if i < 0 || i >= len(widths) {
			continue
		}
		switch {
		case primero < 0 || widths[i] > widths[primero]:
			segundo = primero
			primero = i
		case segundo < 0 || widths[i] > widths[segundo]:
			segundo = i
		}
	}
	var out []int
	if primero >= 0 {
		out = append(out, primero)
	}
	if segundo >= 0 {
		out = append(out, segundo)
	}
	return out
}

var fraccionesComunes = []struct {
	valor decimal.Decimal
	texto string
}{
	{decimal.RequireFromString("0.25"), "1/4"},
	{decimal.RequireFromString("0.5"), "1/2"},
	{decimal.RequireFromString("0.75"), "3/4"},
	{decimal.NewFromInt(1), "1"},
	{decimal.RequireFromString("1.25"), "1¼"},
	{decimal.RequireFromString("1.5"), "1½"},
	{decimal.RequireFromString("1.75"), "1¾"},
	{decimal.NewFromInt(2), "2"},
}

// FormatCantidad shows the usual session fractions in fraction notation and
// anything else as a decimal with comma separator.
func FormatCantidad(q decimal.Decimal) string {
	for _, f := range fraccionesComunes {
		if q.Equal(f.valor) {
			return f.texto
		}
	}
	return strings.Replace(q.Round(2).String(), ".", ",", 1)
}

// FormatMonto renders "$ 1.234,56" (es-AR grouping).
func FormatMonto(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	entero, dec, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	signo := ""
	if d.IsNegative() {
		signo = "-"
	}
	return signo + "$ " + b.String() + "," + dec
}

func rangoTexto(desde, hasta string) string {
	switch {
	case desde == "" && hasta == "":
		return "todos los períodos"
	case desde == hasta:
		return desde
	case desde == "":
		return "hasta " + hasta
	case hasta == "":
		return "desde " + desde
	default:
		return desde + " a " + hasta
	}
}

// recortar shortens s with an ellipsis until it fits w (minus cell padding).
// s is already cp1252, one byte per glyph.
func recortar(pdf *fpdf.Fpdf, s string, w float64) string {
	limite := w - 2
	if pdf.GetStringWidth(s) <= limite {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limite {
		s = s[:len(s)-1]
	}
	return s + "..."
}
