package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository persists payments.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	var items []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})

	if orderID := filters["order_id"]; orderID != "" {
		query = query.Where("order_id = ?", orderID)
	}
	if paymentType := filters["payment_type"]; paymentType != "" {
		query = query.Where("payment_type = ?", paymentType)
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
		Order("payment_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Order.Customer").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateTx writes a payment on the caller's transaction.
func (r *PaymentRepository) CreateTx(tx *gorm.DB, payment *entity.Payment) error {
	return tx.Create(payment).Error
}

func (r *PaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// TotalCompleted sums the order's completed payments.
func (r *PaymentRepository) TotalCompleted(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("order_id = ? AND status = ?", orderID, entity.PaymentStatusCompleted).
		Scan(&total).Error
	return total, err
}

// RevenueBetween sums completed payments received in [from, to).
func (r *PaymentRepository) RevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND payment_date >= ? AND payment_date < ?", entity.PaymentStatusCompleted, from, to).
		Scan(&total).Error
	return total, err
}

// GenerateCode produces the next payment code PAY-{year}-{seq}.
func (r *PaymentRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("PAY-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("COALESCE(MAX(payment_code), '')").
		Where("payment_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "PAY-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("PAY-%s-%04d", year, seq), nil
}
