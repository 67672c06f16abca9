package repository

import (
	"context"
	"time"

	"clinica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PacienteRepository interface {
	FindByDNI(ctx context.Context, dni string) (*model.Paciente, error)
}

type pacienteRepo struct{ db *gorm.DB }

func NewPacienteRepository(db *gorm.DB) PacienteRepository { return &pacienteRepo{db: db} }

func (r *pacienteRepo) FindByDNI(ctx context.Context, dni string) (*model.Paciente, error) {
	var p model.Paciente
	err := r.db.WithContext(ctx).Where("dni = ?", dni).First(&p).Error
	return &p, err
}

// CatalogoRepository reads the module / professional / area catalogs and the
// patient assignments. Writes belong to the catalog CRUD.
type CatalogoRepository interface {
	FindArea(ctx context.Context, id uuid.UUID) (*model.Area, error)
	FindModulo(ctx context.Context, id uuid.UUID) (*model.Modulo, error)
	FindProfesional(ctx context.Context, id uuid.UUID) (*model.Profesional, error)
	FindAsignacion(ctx context.Context, id uuid.UUID) (*model.Asignacion, error)
	// ListAsignacionesVigentes returns active assignments overlapping the month that starts at inicioMes.
	ListAsignacionesVigentes(ctx context.Context, inicioMes time.Time) ([]model.Asignacion, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) FindArea(ctx context.Context, id uuid.UUID) (*model.Area, error) {
	var a model.Area
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *catalogoRepo) FindModulo(ctx context.Context, id uuid.UUID) (*model.Modulo, error) {
	var m model.Modulo
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *catalogoRepo) FindProfesional(ctx context.Context, id uuid.UUID) (*model.Profesional, error) {
	var p model.Profesional
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *catalogoRepo) FindAsignacion(ctx context.Context, id uuid.UUID) (*model.Asignacion, error) {
	var a model.Asignacion
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *catalogoRepo) ListAsignacionesVigentes(ctx context.Context, inicioMes time.Time) ([]model.Asignacion, error) {
	finMes := inicioMes.AddDate(0, 1, 0)
	var asigs []model.Asignacion
	err := r.db.WithContext(ctx).
		Preload("Paciente").Preload("Modulo").Preload("Profesional").
		Where("activa = ? AND desde < ? AND (hasta IS NULL OR hasta >= ?)", true, finMes, inicioMes).
		Order("created_at ASC").
		Find(&asigs).Error
	return asigs, err
}
