package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// GarmentRepository persists the garment catalog.
type GarmentRepository struct {
	db *gorm.DB
}

func NewGarmentRepository(db *gorm.DB) *GarmentRepository {
	return &GarmentRepository{db: db}
}

func (r *GarmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GarmentType, int64, error) {
	var items []entity.GarmentType
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.GarmentType{})

	if search := filters["search"]; search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if filters["active"] == "true" {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("RequiredAccessories.Accessory").
		Preload("DefaultTailor").
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *GarmentRepository) FindByID(ctx context.Context, id string) (*entity.GarmentType, error) {
	var garment entity.GarmentType
	err := r.db.WithContext(ctx).
		Preload("RequiredAccessories.Accessory").
		Preload("DefaultTailor").
		Where("id = ?", id).
		First(&garment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &garment, nil
}

func (r *GarmentRepository) Create(ctx context.Context, garment *entity.GarmentType) error {
	return r.db.WithContext(ctx).Create(garment).Error
}

func (r *GarmentRepository) Update(ctx context.Context, garment *entity.GarmentType) error {
	return r.db.WithContext(ctx).Save(garment).Error
}

// ReplaceAccessories swaps the full accessory requirement list.
func (r *GarmentRepository) ReplaceAccessories(ctx context.Context, garmentTypeID string, accessories []entity.GarmentTypeAccessory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("garment_type_id = ?", garmentTypeID).Delete(&entity.GarmentTypeAccessory{}).Error; err != nil {
			return err
		}
		if len(accessories) == 0 {
			return nil
		}
		return tx.Create(&accessories).Error
	})
}

func (r *GarmentRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("garment_type_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("garment_type_id = ?", id).Delete(&entity.GarmentTypeAccessory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.GarmentType{}).Error
	})
}
