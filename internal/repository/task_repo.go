package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// TaskRepository persists tailoring tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.TailoringTask, int64, error) {
	var items []entity.TailoringTask
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.TailoringTask{})

	if tailorID := filters["tailor_id"]; tailorID != "" {
		query = query.Where("tailor_id = ?", tailorID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Order.Customer").
		Preload("Order.GarmentType").
		Preload("Tailor").
		Order("assigned_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.TailoringTask, error) {
	var task entity.TailoringTask
	err := r.db.WithContext(ctx).
		Preload("Order.Customer").
		Preload("Order.GarmentType").
		Preload("Tailor").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.TailoringTask, error) {
	var task entity.TailoringTask
	err := r.db.WithContext(ctx).
		Preload("Tailor").
		Where("order_id = ?", orderID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.TailoringTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Update(ctx context.Context, task *entity.TailoringTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// CountActiveByTailor counts a tailor's open workload, used to pick the
// least loaded tailor at assignment.
func (r *TaskRepository) CountActiveByTailor(ctx context.Context, tailorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.TailoringTask{}).
		Where("tailor_id = ? AND status IN ?", tailorID, []string{entity.TaskStatusAssigned, entity.TaskStatusInProgress}).
		Count(&count).Error
	return count, err
}
