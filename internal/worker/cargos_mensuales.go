package worker

// cargos_mensuales.go
// Background goroutine that generates the CHARGE of every active assignment
// for the current month. The upsert is idempotent: a charge that already
// exists gets its price snapshot refreshed, a PAID one is never touched and
// payment allocations entered by staff are preserved.

import (
	"context"
	"errors"
	"time"

	"clinica/internal/model"
	"clinica/internal/repository"
	"clinica/internal/service"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const defaultChargeInterval = 6 * time.Hour

// CargosMensualesConfig holds all dependencies for the charge goroutine.
type CargosMensualesConfig struct {
	Catalogo    repository.CatalogoRepository
	Movimientos repository.MovimientoRepository
	Interval    time.Duration
	Now         func() time.Time // nil means time.Now
}

// ResultadoCargos summarizes one run.
type ResultadoCargos struct {
	Periodo    string
	Procesados int
	Duplicados int
	Omitidos   int
	Errores    int
}

// StartCargosMensuales runs one pass immediately and then every Interval.
// It respects the context for graceful shutdown.
func StartCargosMensuales(ctx context.Context, cfg CargosMensualesConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultChargeInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("cargos_mensuales: started")
		runCargos(ctx, cfg, now())

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("cargos_mensuales: shutting down")
				return
			case <-ticker.C:
				runCargos(ctx, cfg, now())
			}
		}
	}()
}

func runCargos(ctx context.Context, cfg CargosMensualesConfig, at time.Time) {
	res, err := GenerarCargos(ctx, cfg.Catalogo, cfg.Movimientos, service.PeriodoDe(at))
	if err != nil {
		log.Error().Err(err).Msg("cargos_mensuales: failed to list assignments")
		return
	}
	log.Info().
		Str("periodo", res.Periodo).
		Int("procesados", res.Procesados).
		Int("duplicados", res.Duplicados).
		Int("omitidos", res.Omitidos).
		Int("errores", res.Errores).
		Msg("cargos_mensuales: run finished")
}

// GenerarCargos upserts one CHARGE per assignment valid in periodo. Only the
// listing error is returned; per-assignment failures are counted and logged.
func GenerarCargos(ctx context.Context, catalogo repository.CatalogoRepository, movs repository.MovimientoRepository, periodo string) (ResultadoCargos, error) {
	res := ResultadoCargos{Periodo: periodo}
	inicio := service.InicioPeriodo(periodo)

	asigs, err := catalogo.ListAsignacionesVigentes(ctx, inicio)
	if err != nil {
		return res, err
	}

	for i := range asigs {
		if ctx.Err() != nil {
			return res, nil
		}
		a := &asigs[i]
		if a.Modulo == nil || a.Paciente == nil || !a.VigenteEn(inicio) {
			res.Omitidos++
			continue
		}

		cargo := CargoDeAsignacion(a, periodo)
		err := movs.UpsertCargo(ctx, &cargo)
		switch {
		case err == nil:
			res.Procesados++
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// The same charge was written concurrently; nothing to do
			res.Duplicados++
			log.Debug().Str("asignacion_id", a.ID.String()).Str("periodo", periodo).Msg("cargos_mensuales: duplicate charge ignored")
		default:
			res.Errores++
			log.Error().Err(err).Str("asignacion_id", a.ID.String()).Str("periodo", periodo).Msg("cargos_mensuales: upsert failed")
		}
	}
	return res, nil
}

// CargoDeAsignacion builds the PENDING charge of a for periodo with its
// module, professional and price snapshot.
func CargoDeAsignacion(a *model.Asignacion, periodo string) model.Movimiento {
	cantidadTexto := a.Cantidad
	if cantidadTexto == "" {
		cantidadTexto = "1"
	}
	cantidad := service.ParseCantidad(cantidadTexto)
	precio := service.ResolverPrecioUnitario(a.Modulo, a.Overrides)

	profesional := ""
	if a.Profesional != nil {
		profesional = a.Profesional.NombreCompleto()
	}
	moduloID, asignacionID := a.ModuloID, a.ID

	return model.Movimiento{
		PacienteID:        a.PacienteID,
		PacienteDNI:       a.Paciente.DNI,
		AreaID:            a.AreaID,
		ModuloID:          &moduloID,
		Tipo:              model.TipoCargo,
		Periodo:           periodo,
		Fecha:             service.InicioPeriodo(periodo),
		Monto:             service.MontoCargo(precio, cantidad),
		AsignacionID:      &asignacionID,
		ClaveAsignacion:   service.ClaveAsignacion(a),
		Cantidad:          cantidad,
		CantidadTexto:     cantidadTexto,
		PrecioUnitario:    precio,
		ModuloNombre:      a.Modulo.Nombre,
		ProfesionalNombre: profesional,
		Estado:            model.EstadoCargoPendiente,
	}
}
