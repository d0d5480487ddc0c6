package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessoryRepository persists accessories.
type AccessoryRepository struct {
	db *gorm.DB
}

func NewAccessoryRepository(db *gorm.DB) *AccessoryRepository {
	return &AccessoryRepository{db: db}
}

func (r *AccessoryRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Accessory, int64, error) {
	var items []entity.Accessory
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Accessory{})

	if search := filters["search"]; search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if filters["low_stock"] == "true" {
		query = query.Where("stock_quantity <= reorder_level")
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

func (r *AccessoryRepository) FindByID(ctx context.Context, id string) (*entity.Accessory, error) {
	var accessory entity.Accessory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&accessory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &accessory, nil
}

// FindByIDForUpdate loads an accessory with a row lock inside the
// caller's transaction.
func (r *AccessoryRepository) FindByIDForUpdate(tx *gorm.DB, id string) (*entity.Accessory, error) {
	query := tx
	if tx.Dialector.Name() != "sqlite" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var accessory entity.Accessory
	err := query.
		Where("id = ?", id).
		First(&accessory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &accessory, nil
}

func (r *AccessoryRepository) Create(ctx context.Context, accessory *entity.Accessory) error {
	return r.db.WithContext(ctx).Create(accessory).Error
}

func (r *AccessoryRepository) Update(ctx context.Context, accessory *entity.Accessory) error {
	return r.db.WithContext(ctx).Save(accessory).Error
}

func (r *AccessoryRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.GarmentTypeAccessory{}).Where("accessory_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Accessory{}).Error
}

// FindLowStock lists accessories at or below their reorder level.
func (r *AccessoryRepository) FindLowStock(ctx context.Context) ([]entity.Accessory, error) {
	var items []entity.Accessory
	err := r.db.WithContext(ctx).
		Where("stock_quantity <= reorder_level").
		Order("stock_quantity ASC").
		Find(&items).Error
	return items, err
}
