package repository

import (
	"context"

	"clinica/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovimientoFilter narrows a movement query. Zero values mean "no constraint".
// Periodo is an equality filter; Desde/Hasta are inclusive YYYY-MM bounds.
type MovimientoFilter struct {
	PacienteDNI string
	AreaID      *uuid.UUID
	Periodo     string
	Desde       string
	Hasta       string
	Periodos    []string
	Tipos       []string
	Estado      string
}

type MovimientoRepository interface {
	List(ctx context.Context, tx *gorm.DB, f MovimientoFilter) ([]model.Movimiento, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error)
	Create(ctx context.Context, tx *gorm.DB, m *model.Movimiento) error
	CreateBatch(ctx context.Context, tx *gorm.DB, ms []model.Movimiento) error
	Update(ctx context.Context, tx *gorm.DB, m *model.Movimiento) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteFacturas removes every INVOICE of the patient in the area.
	DeleteFacturas(ctx context.Context, tx *gorm.DB, dni string, areaID uuid.UUID) (int64, error)
	// UpsertCargo inserts a CHARGE or refreshes its snapshot when it is not PAID yet.
	// Payment allocations already entered are never overwritten.
	UpsertCargo(ctx context.Context, m *model.Movimiento) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

// conn returns tx when the call is part of a transaction.
func (r *movimientoRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *movimientoRepo) List(ctx context.Context, tx *gorm.DB, f MovimientoFilter) ([]model.Movimiento, error) {
	q := r.conn(ctx, tx).Model(&model.Movimiento{}).Where("paciente_dni = ?", f.PacienteDNI)
	if f.AreaID != nil {
		q = q.Where("area_id = ?", *f.AreaID)
	}
	if f.Periodo != "" {
		q = q.Where("periodo = ?", f.Periodo)
	}
	// YYYY-MM compares lexically in calendar order
	if f.Desde != "" {
		q = q.Where("periodo >= ?", f.Desde)
	}
	if f.Hasta != "" {
		q = q.Where("periodo <= ?", f.Hasta)
	}
	if len(f.Periodos) > 0 {
		q = q.Where("periodo IN ?", f.Periodos)
	}
	if len(f.Tipos) > 0 {
		q = q.Where("tipo IN ?", f.Tipos)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}

	var movs []model.Movimiento
	err := q.Order("periodo ASC").Order("fecha ASC").Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Movimiento, error) {
	var m model.Movimiento
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *movimientoRepo) Create(ctx context.Context, tx *gorm.DB, m *model.Movimiento) error {
	return r.conn(ctx, tx).Create(m).Error
}

func (r *movimientoRepo) CreateBatch(ctx context.Context, tx *gorm.DB, ms []model.Movimiento) error {
	if len(ms) == 0 {
		return nil
	}
	return r.conn(ctx, tx).CreateInBatches(ms, 100).Error
}

func (r *movimientoRepo) Update(ctx context.Context, tx *gorm.DB, m *model.Movimiento) error {
	// Guarded by estado so a charge that became PAID concurrently is left alone
	res := r.conn(ctx, tx).Model(&model.Movimiento{}).
		Where("id = ? AND estado <> ?", m.ID, model.EstadoCargoPagado).
		Select("modulo_id", "periodo", "fecha", "monto", "asignacion_id", "clave_asignacion",
			"cantidad", "cantidad_texto", "precio_unitario", "modulo_nombre", "profesional_nombre",
			"es_ajuste_admin", "estado", "editado_manual", "pagado_padres", "pagado_obra_social",
			"detalle_padres", "detalle_obra_social", "updated_at").
		Updates(m)
	return res.Error
}

func (r *movimientoRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.conn(ctx, tx).
		Where("id IN ? AND NOT (tipo = ? AND estado = ?)", ids, model.TipoCargo, model.EstadoCargoPagado).
		Delete(&model.Movimiento{}).Error
}

func (r *movimientoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Movimiento{}, "id = ?", id).Error
}

func (r *movimientoRepo) DeleteFacturas(ctx context.Context, tx *gorm.DB, dni string, areaID uuid.UUID) (int64, error) {
	res := r.conn(ctx, tx).
		Where("paciente_dni = ? AND area_id = ? AND tipo = ?", dni, areaID, model.TipoFactura).
		Delete(&model.Movimiento{})
	return res.RowsAffected, res.Error
}

// UpsertCargo inserts the job's charge or refreshes its pricing snapshot.
// PAID charges and charges edited through the statement keep what they have.
func (r *movimientoRepo) UpsertCargo(ctx context.Context, m *model.Movimiento) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "paciente_id"}, {Name: "area_id"}, {Name: "modulo_id"},
			{Name: "periodo"}, {Name: "clave_asignacion"},
		},
		// Literal predicate: index inference for uq_movimientos_cargo cannot see through bind params
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "tipo = 'CHARGE'"},
		}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "movimientos.estado <> 'PAID' AND NOT movimientos.editado_manual"},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"monto", "cantidad", "cantidad_texto", "precio_unitario",
			"modulo_nombre", "profesional_nombre", "asignacion_id", "updated_at",
		}),
	}).Create(m).Error
}
