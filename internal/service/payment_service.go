package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService tracks money in: order payments, pickup settlement and
// commission payout. An order's payment status is always derived from
// the sum of its completed payments, never stored.
type PaymentService struct {
	db     *gorm.DB
	repos  *repository.Repositories
	tasks  *TaskService
	logger *zap.Logger
}

func NewPaymentService(db *gorm.DB, repos *repository.Repositories, tasks *TaskService, logger *zap.Logger) *PaymentService {
	return &PaymentService{db: db, repos: repos, tasks: tasks, logger: logger}
}

func (s *PaymentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Payment, int64, error) {
	return s.repos.Payment.FindAll(ctx, page, pageSize, filters)
}

func (s *PaymentService) Get(ctx context.Context, id string) (*entity.Payment, error) {
	return s.repos.Payment.FindByID(ctx, id)
}

// RecordPaymentRequest records money received against an order.
type RecordPaymentRequest struct {
	OrderID string          `json:"order_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Method  string          `json:"method"`
	Notes   string          `json:"notes"`
}

func (s *PaymentService) RecordPayment(ctx context.Context, actor Actor, req *RecordPaymentRequest) (*entity.Payment, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	order, err := s.repos.Order.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("%w: cannot take payment on a cancelled order", ErrInvalidState)
	}

	paid, err := s.repos.Payment.TotalCompleted(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	remaining := order.TotalPrice.Sub(paid)
	if req.Amount.GreaterThan(remaining) {
		return nil, fmt.Errorf("%w: amount %s exceeds remaining balance %s", ErrValidation, req.Amount, remaining)
	}

	return s.createPayment(ctx, actor, order, req.Amount, entity.PaymentTypeBalance, req.Method, req.Notes)
}

// ProcessClaim hands a completed order to the customer. Any remaining
// balance is collected in the same transaction; the order becomes
// delivered.
func (s *PaymentService) ProcessClaim(ctx context.Context, actor Actor, orderID, method string) (*entity.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	order, err := s.repos.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: order is %s, only completed orders can be claimed", ErrInvalidState, order.Status)
	}

	paid, err := s.repos.Payment.TotalCompleted(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	remaining := order.TotalPrice.Sub(paid)

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if remaining.IsPositive() {
			if err := s.createPaymentTx(ctx, tx, actor, order, remaining, entity.PaymentTypeBalance, method, "balance settled at pickup"); err != nil {
				return err
			}
		}
		if err := s.creditCommissionTx(ctx, tx, order); err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":         entity.OrderStatusDelivered,
				"delivered_date": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order claimed",
		zap.String("order_code", order.OrderCode),
		zap.String("balance_collected", remaining.String()))

	return s.repos.Order.FindByID(ctx, order.ID)
}

// ProcessReclaim hands a reworked order back to the customer, collecting
// the rework charge (if the rework was paid) plus any unpaid balance.
func (s *PaymentService) ProcessReclaim(ctx context.Context, actor Actor, orderID, method string) (*entity.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	order, err := s.repos.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusReadyForReclaim {
		return nil, fmt.Errorf("%w: order is %s, expected ready_for_reclaim", ErrInvalidState, order.Status)
	}

	due := decimal.Zero
	rework, err := s.repos.Rework.FindLatestCompletedByOrderID(ctx, order.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if rework != nil && rework.ChargeType == entity.ReworkChargePaid {
		due = due.Add(rework.AdditionalCost)
	}

	paid, err := s.repos.Payment.TotalCompleted(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if unpaid := order.TotalPrice.Sub(paid); unpaid.IsPositive() {
		due = due.Add(unpaid)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if due.IsPositive() {
			if err := s.createPaymentTx(ctx, tx, actor, order, due, entity.PaymentTypeBalance, method, "rework charge settled at pickup"); err != nil {
				return err
			}
		}
		if err := s.creditCommissionTx(ctx, tx, order); err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":         entity.OrderStatusDelivered,
				"delivered_date": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.repos.Order.FindByID(ctx, order.ID)
}

// creditCommissionTx credits the tailor's commission as part of the
// pickup transaction. Already-claimed tasks are left alone.
func (s *PaymentService) creditCommissionTx(ctx context.Context, tx *gorm.DB, order *entity.Order) error {
	task, err := s.repos.Task.FindByOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if task.Status != entity.TaskStatusApproved || task.TailorID == nil {
		return nil
	}
	_, err = s.tasks.claimTx(ctx, tx, task, order)
	return err
}

func (s *PaymentService) createPayment(ctx context.Context, actor Actor, order *entity.Order, amount decimal.Decimal, paymentType, method, notes string) (*entity.Payment, error) {
	var payment *entity.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.repos.Payment.GenerateCode(ctx)
		if err != nil {
			return err
		}
		payment = &entity.Payment{
			ID:          newID(),
			PaymentCode: code,
			OrderID:     order.ID,
			Amount:      amount,
			PaymentType: paymentType,
			Method:      defaultMethod(method),
			Status:      entity.PaymentStatusCompleted,
			Notes:       notes,
			ReceivedBy:  actor.ID,
			PaymentDate: time.Now(),
		}
		return s.repos.Payment.CreateTx(tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) createPaymentTx(ctx context.Context, tx *gorm.DB, actor Actor, order *entity.Order, amount decimal.Decimal, paymentType, method, notes string) error {
	code, err := s.repos.Payment.GenerateCode(ctx)
	if err != nil {
		return err
	}
	payment := &entity.Payment{
		ID:          newID(),
		PaymentCode: code,
		OrderID:     order.ID,
		Amount:      amount,
		PaymentType: paymentType,
		Method:      defaultMethod(method),
		Status:      entity.PaymentStatusCompleted,
		Notes:       notes,
		ReceivedBy:  actor.ID,
		PaymentDate: time.Now(),
	}
	return s.repos.Payment.CreateTx(tx, payment)
}

// === Commissions ===

func (s *PaymentService) ListCommissions(ctx context.Context, actor Actor, page, pageSize int, filters map[string]string) ([]entity.TailorCommission, int64, error) {
	if actor.IsTailor() {
		filters["tailor_id"] = actor.ID
	}
	return s.repos.Commission.FindAll(ctx, page, pageSize, filters)
}

func (s *PaymentService) CommissionSummary(ctx context.Context, actor Actor) ([]repository.TailorSummary, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repos.Commission.SummarizeByTailor(ctx)
}

// PayCommission settles a credited commission with the tailor.
func (s *PaymentService) PayCommission(ctx context.Context, actor Actor, id string) (*entity.TailorCommission, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	commission, err := s.repos.Commission.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if commission.Status == entity.CommissionStatusPaid {
		return nil, fmt.Errorf("%w: commission already paid", ErrInvalidState)
	}

	now := time.Now()
	commission.Status = entity.CommissionStatusPaid
	commission.PaidAt = &now
	if err := s.repos.Commission.Update(ctx, commission); err != nil {
		return nil, err
	}
	return commission, nil
}
