package repository

import (
	"context"
	"time"

	"clinica/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository has no Update/Delete for MovimientoCaja: entries are append-only.
type CajaRepository interface {
	// EnsureCaja creates the area's Caja with zero balances if it does not exist and returns it.
	EnsureCaja(ctx context.Context, tx *gorm.DB, areaID uuid.UUID) (*model.Caja, error)
	// AplicarDelta increments the three balances atomically in the database.
	AplicarDelta(ctx context.Context, tx *gorm.DB, cajaID uuid.UUID, padres, obraSocial decimal.Decimal, at time.Time) error
	CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error
	FindByArea(ctx context.Context, areaID uuid.UUID) (*model.Caja, error)
	ListMovimientos(ctx context.Context, cajaID uuid.UUID, page, limit int) ([]model.MovimientoCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *cajaRepo) EnsureCaja(ctx context.Context, tx *gorm.DB, areaID uuid.UUID) (*model.Caja, error) {
	db := r.conn(ctx, tx)
	nueva := &model.Caja{AreaID: areaID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "area_id"}},
		DoNothing: true,
	}).Create(nueva).Error; err != nil {
		return nil, err
	}
	var c model.Caja
	err := db.Where("area_id = ?", areaID).First(&c).Error
	return &c, err
}

func (r *cajaRepo) AplicarDelta(ctx context.Context, tx *gorm.DB, cajaID uuid.UUID, padres, obraSocial decimal.Decimal, at time.Time) error {
	total := padres.Add(obraSocial)
	return r.conn(ctx, tx).Model(&model.Caja{}).Where("id = ?", cajaID).
		UpdateColumns(map[string]interface{}{
			"saldo_padres":      gorm.Expr("saldo_padres + ?", padres),
			"saldo_obra_social": gorm.Expr("saldo_obra_social + ?", obraSocial),
			"saldo_total":       gorm.Expr("saldo_total + ?", total),
			"ultimo_movimiento": at,
			"updated_at":        at,
		}).Error
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error {
	return r.conn(ctx, tx).Create(m).Error
}

func (r *cajaRepo) FindByArea(ctx context.Context, areaID uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("area_id = ?", areaID).First(&c).Error
	return &c, err
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, cajaID uuid.UUID, page, limit int) ([]model.MovimientoCaja, int64, error) {
	var movs []model.MovimientoCaja
	var total int64
	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).Where("caja_id = ?", cajaID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movs).Error
	return movs, total, err
}
