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

// OrderRepository persists orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	var items []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := filters["customer_id"]; customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if garmentTypeID := filters["garment_type_id"]; garmentTypeID != "" {
		query = query.Where("garment_type_id = ?", garmentTypeID)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("order_code LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").
		Preload("GarmentType").
		Preload("Fabric").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("GarmentType").
		Preload("Fabric").
		Preload("Accessories.Accessory").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		Preload("Task").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// FindReadyForClaim lists completed orders waiting for pickup.
func (r *OrderRepository) FindReadyForClaim(ctx context.Context) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("GarmentType").
		Where("status = ?", entity.OrderStatusCompleted).
		Order("completed_date ASC").
		Find(&items).Error
	return items, err
}

// FindReadyForReclaim lists reworked orders waiting for pickup.
func (r *OrderRepository) FindReadyForReclaim(ctx context.Context) ([]entity.Order, error) {
	var items []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("GarmentType").
		Where("status = ?", entity.OrderStatusReadyForReclaim).
		Order("updated_at ASC").
		Find(&items).Error
	return items, err
}

// CountByStatus returns order counts grouped by status.
func (r *OrderRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// ProductionRow aggregates output per garment type.
type ProductionRow struct {
	GarmentTypeID string          `json:"garment_type_id"`
	GarmentName   string          `json:"garment_name"`
	OrderCount    int64           `json:"order_count"`
	TotalPieces   int64           `json:"total_pieces"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// ProductionByGarment totals non-cancelled orders per garment type.
func (r *OrderRepository) ProductionByGarment(ctx context.Context) ([]ProductionRow, error) {
	var rows []ProductionRow
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select(`orders.garment_type_id,
			garment_types.name AS garment_name,
			COUNT(*) AS order_count,
			COALESCE(SUM(orders.quantity), 0) AS total_pieces,
			COALESCE(SUM(orders.total_price), 0) AS total_revenue`).
		Joins("JOIN garment_types ON garment_types.id = orders.garment_type_id").
		Where("orders.status != ?", entity.OrderStatusCancelled).
		Group("orders.garment_type_id, garment_types.name").
		Order("total_revenue DESC").
		Scan(&rows).Error
	return rows, err
}

// GenerateCode produces the next order code ORD-{year}-{seq}.
func (r *OrderRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("ORD-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("COALESCE(MAX(order_code), '')").
		Where("order_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "ORD-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("ORD-%s-%04d", year, seq), nil
}
