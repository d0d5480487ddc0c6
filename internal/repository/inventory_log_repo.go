package repository

import (
	"context"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// InventoryLogRepository reads the stock movement trail. Writing happens
// inside the same transaction as the stock mutation, via CreateTx.
type InventoryLogRepository struct {
	db *gorm.DB
}

func NewInventoryLogRepository(db *gorm.DB) *InventoryLogRepository {
	return &InventoryLogRepository{db: db}
}

// CreateTx writes a log row on the caller's transaction.
func (r *InventoryLogRepository) CreateTx(tx *gorm.DB, log *entity.InventoryLog) error {
	return tx.Create(log).Error
}

func (r *InventoryLogRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InventoryLog, int64, error) {
	var items []entity.InventoryLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.InventoryLog{})

	if itemType := filters["item_type"]; itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}
	if fabricID := filters["fabric_id"]; fabricID != "" {
		query = query.Where("fabric_id = ?", fabricID)
	}
	if accessoryID := filters["accessory_id"]; accessoryID != "" {
		query = query.Where("accessory_id = ?", accessoryID)
	}
	if orderID := filters["order_id"]; orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if action := filters["action"]; action != "" {
		query = query.Where("action = ?", action)
	}
	if from := filters["from"]; from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := filters["to"]; to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Fabric").
		Preload("Accessory").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}
