package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"clinica/internal/apperrors"
	"clinica/internal/infra"
	"clinica/internal/model"
	"clinica/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Extracto is a rendered PDF ready to stream.
type Extracto struct {
	Nombre    string
	Contenido []byte
}

type ExtractoService interface {
	// Generar renders the extract of (dni, area). desde / hasta are optional
	// YYYY-MM bounds, both inclusive.
	Generar(ctx context.Context, dni string, areaID uuid.UUID, desde, hasta string) (*Extracto, error)
}

type extractoService struct {
	pacientes repository.PacienteRepository
	movs      repository.MovimientoRepository
	catalogo  *CatalogoCache
	clinica   string
	now       func() time.Time
}

func NewExtractoService(pacientes repository.PacienteRepository, movs repository.MovimientoRepository, catalogo *CatalogoCache, clinica string) ExtractoService {
	return &extractoService{pacientes: pacientes, movs: movs, catalogo: catalogo, clinica: clinica, now: time.Now}
}

// ── Generar ───────────────────────────────────────────────────────────────────
// Two queries: the ranged one feeds the tables, the cumulative one (everything
// up to hasta) feeds the totals box, so totals show the running balance.

func (s *extractoService) Generar(ctx context.Context, dni string, areaID uuid.UUID, desde, hasta string) (*Extracto, error) {
	datos, nombre, err := s.armar(ctx, dni, areaID, desde, hasta)
	if err != nil {
		return nil, err
	}
	pdf, err := infra.GenerateExtractoPDF(*datos)
	if err != nil {
		return nil, err
	}
	return &Extracto{Nombre: nombre, Contenido: pdf}, nil
}

// armar validates the range and runs both queries. Returns the render input
// and the download file name.
func (s *extractoService) armar(ctx context.Context, dni string, areaID uuid.UUID, desde, hasta string) (*infra.ExtractoPDF, string, error) {
	desde, hasta = strings.TrimSpace(desde), strings.TrimSpace(hasta)
	for _, p := range []string{desde, hasta} {
		if p != "" && !PeriodoValido(p) {
			return nil, "", apperrors.Validation("Período inválido %q, se espera AAAA-MM", p)
		}
	}
	if desde != "" && hasta != "" && desde > hasta {
		return nil, "", apperrors.Validation("El período desde (%s) es posterior al período hasta (%s)", desde, hasta)
	}

	pac, err := buscarPaciente(ctx, s.pacientes, dni)
	if err != nil {
		return nil, "", err
	}
	area, err := s.catalogo.Area(ctx, areaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", apperrors.NotFound("Área no encontrada")
	}
	if err != nil {
		return nil, "", err
	}

	rango, err := s.movs.List(ctx, nil, repository.MovimientoFilter{
		PacienteDNI: pac.DNI, AreaID: &areaID, Desde: desde, Hasta: hasta,
	})
	if err != nil {
		return nil, "", err
	}
	acumulado, err := s.movs.List(ctx, nil, repository.MovimientoFilter{
		PacienteDNI: pac.DNI, AreaID: &areaID, Hasta: hasta,
	})
	if err != nil {
		return nil, "", err
	}

	ec := armarEstadoCuenta(ctx, s.catalogo, pac, rango)
	return &infra.ExtractoPDF{
		Clinica:    s.clinica,
		Paciente:   ec.Paciente,
		AreaNombre: area.Nombre,
		Desde:      desde,
		Hasta:      hasta,
		Filas:      ec.Filas,
		Facturas:   ec.Facturas,
		Totales:    CalcularTotales(acumulado, pac.TieneObraSocial()),
		Emitido:    s.now(),
	}, NombreExtracto(pac, area, desde, hasta), nil
}

// NombreExtracto builds Extract_{dni}_{area}[_{from}-{to}].pdf.
func NombreExtracto(pac *model.Paciente, area *model.Area, desde, hasta string) string {
	nombre := fmt.Sprintf("Extract_%s_%s", pac.DNI, nombreArchivo(area.Nombre))
	if desde != "" || hasta != "" {
		nombre += "_" + desde + "-" + hasta
	}
	return nombre + ".pdf"
}

// nombreArchivo replaces whitespace with underscores and drops characters that
// would break a Content-Disposition header.
func nombreArchivo(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case r == '"' || r == '/' || r == '\\' || r == ';' || unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
