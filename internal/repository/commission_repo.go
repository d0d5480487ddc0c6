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

// CommissionRepository persists tailor commissions.
type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.TailorCommission, int64, error) {
	var items []entity.TailorCommission
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.TailorCommission{})

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
		Preload("Tailor").
		Order("earned_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

func (r *CommissionRepository) FindByID(ctx context.Context, id string) (*entity.TailorCommission, error) {
	var commission entity.TailorCommission
	err := r.db.WithContext(ctx).
		Preload("Tailor").
		Where("id = ?", id).
		First(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindByTaskID returns the task's commission, if one was ever created.
func (r *CommissionRepository) FindByTaskID(ctx context.Context, taskID string) (*entity.TailorCommission, error) {
	var commission entity.TailorCommission
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&commission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// CreateTx writes a commission on the caller's transaction.
func (r *CommissionRepository) CreateTx(tx *gorm.DB, commission *entity.TailorCommission) error {
	return tx.Create(commission).Error
}

func (r *CommissionRepository) Update(ctx context.Context, commission *entity.TailorCommission) error {
	return r.db.WithContext(ctx).Save(commission).Error
}

// TailorSummary aggregates one tailor's commission standing.
type TailorSummary struct {
	TailorID     string          `json:"tailor_id"`
	TailorName   string          `json:"tailor_name"`
	TotalCount   int64           `json:"total_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
}

// SummarizeByTailor totals commissions per tailor.
func (r *CommissionRepository) SummarizeByTailor(ctx context.Context) ([]TailorSummary, error) {
	var rows []TailorSummary
	err := r.db.WithContext(ctx).
		Model(&entity.TailorCommission{}).
		Select(`tailor_commissions.tailor_id,
			users.name AS tailor_name,
			COUNT(*) AS total_count,
			COALESCE(SUM(tailor_commissions.commission_amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN tailor_commissions.status = ? THEN tailor_commissions.commission_amount ELSE 0 END), 0) AS paid_amount,
			COALESCE(SUM(CASE WHEN tailor_commissions.status != ? THEN tailor_commissions.commission_amount ELSE 0 END), 0) AS unpaid_amount`,
			entity.CommissionStatusPaid, entity.CommissionStatusPaid).
		Joins("JOIN users ON users.id = tailor_commissions.tailor_id").
		Group("tailor_commissions.tailor_id, users.name").
		Order("total_amount DESC").
		Scan(&rows).Error
	return rows, err
}

// TotalsForTailor sums one tailor's earned and still-unpaid commission.
func (r *CommissionRepository) TotalsForTailor(ctx context.Context, tailorID string) (earned, unpaid decimal.Decimal, err error) {
	type row struct {
		Earned decimal.Decimal
		Unpaid decimal.Decimal
	}
	var res row
	err = r.db.WithContext(ctx).
		Model(&entity.TailorCommission{}).
		Select(`COALESCE(SUM(commission_amount), 0) AS earned,
			COALESCE(SUM(CASE WHEN status != ? THEN commission_amount ELSE 0 END), 0) AS unpaid`,
			entity.CommissionStatusPaid).
		Where("tailor_id = ?", tailorID).
		Scan(&res).Error
	return res.Earned, res.Unpaid, err
}

// GenerateCode produces the next commission code COM-{year}-{seq}.
func (r *CommissionRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("COM-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.TailorCommission{}).
		Select("COALESCE(MAX(commission_code), '')").
		Where("commission_code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "COM-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("COM-%s-%04d", year, seq), nil
}
