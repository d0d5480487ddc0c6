package repository

import (
	"context"
	"errors"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"gorm.io/gorm"
)

// CustomerRepository persists customers.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Customer, int64, error) {
	var items []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{})

	if search := filters["search"]; search != "" {
		query = query.Where("name LIKE ? OR contact_number LIKE ?", "%"+search+"%", "%"+search+"%")
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

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete removes a customer unless orders still reference it.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Order{}).Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Customer{}).Error
}
