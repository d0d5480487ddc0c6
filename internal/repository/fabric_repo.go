package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FabricRepository persists fabrics.
type FabricRepository struct {
	db *gorm.DB
}

func NewFabricRepository(db *gorm.DB) *FabricRepository {
	return &FabricRepository{db: db}
}

func (r *FabricRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Fabric, int64, error) {
	var items []entity.Fabric
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Fabric{})

	if search := filters["search"]; search != "" {
		query = query.Where("name LIKE ? OR color LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if filters["low_stock"] == "true" {
		query = query.Where("stock_meters <= reorder_level")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *FabricRepository) FindByID(ctx context.Context, id string) (*entity.Fabric, error) {
	var fabric entity.Fabric
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fabric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fabric, nil
}

// FindByIDForUpdate loads a fabric with a row lock. Must run inside the
// caller's transaction; concurrent order intake serializes on this lock.
func (r *FabricRepository) FindByIDForUpdate(tx *gorm.DB, id string) (*entity.Fabric, error) {
	query := tx
	// sqlite has no row locks; its single writer already serializes
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var fabric entity.Fabric
	err := query.
		Where("id = ?", id).
		First(&fabric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &fabric, nil
}

func (r *FabricRepository) Create(ctx context.Context, fabric *entity.Fabric) error {
	return r.db.WithContext(ctx).Create(fabric).Error
}

func (r *FabricRepository) Update(ctx context.Context, fabric *entity.Fabric) error {
	return r.db.WithContext(ctx).Save(fabric).Error
}

func (r *FabricRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("fabric_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Fabric{}).Error
}

// FindLowStock lists fabrics at or below their reorder level.
func (r *FabricRepository) FindLowStock(ctx context.Context) ([]entity.Fabric, error) {
	var items []entity.Fabric
	err := r.db.WithContext(ctx).
		Where("stock_meters <= reorder_level").
		Order("stock_meters ASC").
		Find(&items).Error
	return items, err
}
