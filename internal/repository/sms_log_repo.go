package repository

import (
	"context"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// SMSLogRepository persists the outbound SMS trail.
type SMSLogRepository struct {
	db *gorm.DB
}

func NewSMSLogRepository(db *gorm.DB) *SMSLogRepository {
	return &SMSLogRepository{db: db}
}

func (r *SMSLogRepository) Create(ctx context.Context, log *entity.SMSLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *SMSLogRepository) Update(ctx context.Context, log *entity.SMSLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

func (r *SMSLogRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SMSLog, int64, error) {
	var items []entity.SMSLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SMSLog{})

	if orderID := filters["order_id"]; orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if customerID := filters["customer_id"]; customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}
