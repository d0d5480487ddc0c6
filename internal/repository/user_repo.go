package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// UserRepository persists staff accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	var items []entity.User
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.User{})

	if role := filters["role"]; role != "" {
		query = query.Where("role = ?", role)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("name LIKE ? OR username LIKE ?", "%"+search+"%", "%"+search+"%")
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

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindActiveTailors lists tailors eligible for task assignment.
func (r *UserRepository) FindActiveTailors(ctx context.Context) ([]entity.User, error) {
	var items []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", entity.RoleTailor, entity.UserStatusActive).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

// FindAdmins lists admin accounts, used to fan out shop-wide notifications.
func (r *UserRepository) FindAdmins(ctx context.Context) ([]entity.User, error) {
	var items []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", entity.RoleAdmin, entity.UserStatusActive).
		Find(&items).Error
	return items, err
}
