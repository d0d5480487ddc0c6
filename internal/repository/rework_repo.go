package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// ReworkRepository persists reworks.
type ReworkRepository struct {
	db *gorm.DB
}

func NewReworkRepository(db *gorm.DB) *ReworkRepository {
	return &ReworkRepository{db: db}
}

func (r *ReworkRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Rework, int64, error) {
	var items []entity.Rework
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Rework{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if orderID := filters["order_id"]; orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if reason := filters["reason"]; reason != "" {
		query = query.Where("reason = ?", reason)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Order.Customer").
		Preload("Tailor").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *ReworkRepository) FindByID(ctx context.Context, id string) (*entity.Rework, error) {
	var rework entity.Rework
	err := r.db.WithContext(ctx).
		Preload("Order.Customer").
		Preload("Fabric").
		Preload("Tailor").
		Preload("Materials.Accessory").
		Where("id = ?", id).
		First(&rework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rework, nil
}

func (r *ReworkRepository) Create(ctx context.Context, rework *entity.Rework) error {
	return r.db.WithContext(ctx).Create(rework).Error
}

// CreateTx writes a rework on the caller's transaction.
func (r *ReworkRepository) CreateTx(tx *gorm.DB, rework *entity.Rework) error {
	return tx.Create(rework).Error
}

func (r *ReworkRepository) Update(ctx context.Context, rework *entity.Rework) error {
	return r.db.WithContext(ctx).Save(rework).Error
}

// FindOpenByOrderID returns the order's unfinished rework, if any.
func (r *ReworkRepository) FindOpenByOrderID(ctx context.Context, orderID string) (*entity.Rework, error) {
	var rework entity.Rework
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status != ?", orderID, entity.ReworkStatusCompleted).
		Order("created_at DESC").
		First(&rework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rework, nil
}

// FindLatestCompletedByOrderID returns the most recently finished rework
// for an order, used when settling the reclaim balance.
func (r *ReworkRepository) FindLatestCompletedByOrderID(ctx context.Context, orderID string) (*entity.Rework, error) {
	var rework entity.Rework
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, entity.ReworkStatusCompleted).
		Order("completed_at DESC").
		First(&rework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rework, nil
}

// GenerateCode produces the next rework code RWK-{year}-{seq}.
func (r *ReworkRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("RWK-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Rework{}).
		Select("COALESCE(MAX(rework_code), '')").
		Where("rework_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "RWK-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("RWK-%s-%04d", year, seq), nil
}
