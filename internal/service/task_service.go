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

// TaskService runs the tailoring workflow:
// assigned -> in_progress -> completed -> approved.
// Tailors move their own tasks forward; only admins approve. Approval
// freezes the commission amount and marks the order ready for pickup.
type TaskService struct {
	db            *gorm.DB
	repos         *repository.Repositories
	notifications *NotificationService
	sms           *SMSService
	logger        *zap.Logger
}

func NewTaskService(db *gorm.DB, repos *repository.Repositories, notifications *NotificationService, sms *SMSService, logger *zap.Logger) *TaskService {
	return &TaskService{
		db:            db,
		repos:         repos,
		notifications: notifications,
		sms:           sms,
		logger:        logger,
	}
}

// List returns tasks. Tailors only ever see their own.
func (s *TaskService) List(ctx context.Context, actor Actor, page, pageSize int, filters map[string]string) ([]entity.TailoringTask, int64, error) {
	if actor.IsTailor() {
		filters["tailor_id"] = actor.ID
	}
	return s.repos.Task.FindAll(ctx, page, pageSize, filters)
}

func (s *TaskService) Get(ctx context.Context, actor Actor, id string) (*entity.TailoringTask, error) {
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsTailor() && (task.TailorID == nil || *task.TailorID != actor.ID) {
		return nil, ErrForbidden
	}
	return task, nil
}

// Start moves an assigned task to in_progress and the order with it.
func (s *TaskService) Start(ctx context.Context, actor Actor, id string) (*entity.TailoringTask, error) {
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, task); err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusAssigned {
		return nil, fmt.Errorf("%w: task is %s, expected assigned", ErrInvalidState, task.Status)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.Status = entity.TaskStatusInProgress
		task.StartedAt = &now
		if err := tx.Model(&entity.TailoringTask{}).Where("id = ?", task.ID).
			Updates(map[string]interface{}{"status": task.Status, "started_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", task.OrderID).
			Update("status", entity.OrderStatusInProgress).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyAdminsBestEffort(ctx, entity.Notification{
		SenderID: &actor.ID,
		Type:     entity.NotificationTaskStarted,
		Title:    "Task started",
		Message:  fmt.Sprintf("%s started working on order %s.", actor.Name, orderCode(task)),
		OrderID:  &task.OrderID,
		TaskID:   &task.ID,
	})

	return s.repos.Task.FindByID(ctx, task.ID)
}

// Complete marks the sewing done, awaiting admin approval.
func (s *TaskService) Complete(ctx context.Context, actor Actor, id string) (*entity.TailoringTask, error) {
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, task); err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusInProgress {
		return nil, fmt.Errorf("%w: task is %s, expected in_progress", ErrInvalidState, task.Status)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&entity.TailoringTask{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{"status": entity.TaskStatusCompleted, "completed_at": now}).Error; err != nil {
		return nil, err
	}

	s.notifyAdminsBestEffort(ctx, entity.Notification{
		SenderID: &actor.ID,
		Type:     entity.NotificationTaskCompleted,
		Title:    "Task completed",
		Message:  fmt.Sprintf("%s finished order %s; it is waiting for approval.", actor.Name, orderCode(task)),
		OrderID:  &task.OrderID,
		TaskID:   &task.ID,
	})

	return s.repos.Task.FindByID(ctx, task.ID)
}

// Approve accepts the finished work. The order becomes completed, the
// commission amount is frozen, the tailor is notified and the customer
// gets a pickup SMS. The SMS is best effort: a gateway failure is
// logged, the approval stands.
func (s *TaskService) Approve(ctx context.Context, actor Actor, id string) (*entity.TailoringTask, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusApproved && task.Status != entity.TaskStatusCompleted {
		return nil, fmt.Errorf("%w: task is %s, expected completed", ErrInvalidState, task.Status)
	}
	if task.Status == entity.TaskStatusApproved {
		// Approving twice is a no-op.
		return task, nil
	}

	order, err := s.repos.Order.FindByID(ctx, task.OrderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      entity.TaskStatusApproved,
			"approved_at": now,
			"approved_by": actor.ID,
		}
		if !task.CommissionFinal {
			amount := commissionFor(order.TotalPrice, task.CommissionRate)
			updates["commission_amount"] = amount
			updates["commission_final"] = true
		}
		if err := tx.Model(&entity.TailoringTask{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":         entity.OrderStatusCompleted,
				"completed_date": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if task.TailorID != nil {
		s.notifyBestEffort(ctx, &entity.Notification{
			RecipientID: *task.TailorID,
			SenderID:    &actor.ID,
			Type:        entity.NotificationTaskApproved,
			Title:       "Work approved",
			Message:     fmt.Sprintf("Your work on order %s was approved. You can now claim your commission.", order.OrderCode),
			OrderID:     &order.ID,
			TaskID:      &task.ID,
		})
	}

	if _, err := s.sms.SendOrderReady(ctx, order); err != nil {
		s.logger.Warn("pickup sms failed", zap.String("order", order.OrderCode), zap.Error(err))
	}

	return s.repos.Task.FindByID(ctx, task.ID)
}

// Reassign hands an unfinished task to another tailor.
func (s *TaskService) Reassign(ctx context.Context, actor Actor, id, newTailorID string) (*entity.TailoringTask, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusAssigned && task.Status != entity.TaskStatusInProgress {
		return nil, fmt.Errorf("%w: task is %s, only open tasks can be reassigned", ErrInvalidState, task.Status)
	}

	tailor, err := s.repos.User.FindByID(ctx, newTailorID)
	if err != nil {
		return nil, fmt.Errorf("tailor: %w", err)
	}
	if tailor.Role != entity.RoleTailor {
		return nil, fmt.Errorf("%w: user %s is not a tailor", ErrValidation, tailor.Name)
	}

	previousTailor := task.TailorID
	now := time.Now()
	err = s.db.WithContext(ctx).Model(&entity.TailoringTask{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"tailor_id":   tailor.ID,
			"status":      entity.TaskStatusAssigned,
			"assigned_at": now,
			"started_at":  nil,
		}).Error
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, &entity.Notification{
		RecipientID: tailor.ID,
		SenderID:    &actor.ID,
		Type:        entity.NotificationTaskAssigned,
		Title:       "Task assigned",
		Message:     fmt.Sprintf("Order %s has been assigned to you.", orderCode(task)),
		OrderID:     &task.OrderID,
		TaskID:      &task.ID,
	})
	if previousTailor != nil && *previousTailor != tailor.ID {
		s.notifyBestEffort(ctx, &entity.Notification{
			RecipientID: *previousTailor,
			SenderID:    &actor.ID,
			Type:        entity.NotificationTaskReassigned,
			Title:       "Task reassigned",
			Message:     fmt.Sprintf("Order %s has been reassigned to %s.", orderCode(task), tailor.Name),
			OrderID:     &task.OrderID,
			TaskID:      &task.ID,
		})
	}

	return s.repos.Task.FindByID(ctx, task.ID)
}

// ClaimCommission turns an approved task into a payable commission for
// its tailor. At most one commission ever exists per task; repeating the
// claim returns the existing record.
func (s *TaskService) ClaimCommission(ctx context.Context, actor Actor, id string) (*entity.TailorCommission, error) {
	task, err := s.repos.Task.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(actor, task); err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusApproved {
		return nil, fmt.Errorf("%w: task is %s, commission is claimable after approval", ErrInvalidState, task.Status)
	}
	if task.TailorID == nil {
		return nil, fmt.Errorf("%w: task has no tailor", ErrInvalidState)
	}
	order, err := s.repos.Order.FindByID(ctx, task.OrderID)
	if err != nil {
		return nil, err
	}

	var commission *entity.TailorCommission
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		commission, err = s.claimTx(ctx, tx, task, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("commission claimed",
		zap.String("commission_code", commission.CommissionCode),
		zap.String("tailor_id", commission.TailorID),
		zap.String("amount", commission.CommissionAmount.String()))

	return commission, nil
}

// claimTx creates the commission record and marks the task claimed on the
// caller's transaction. Claiming twice is a no-op: the original record
// comes back unchanged.
func (s *TaskService) claimTx(ctx context.Context, tx *gorm.DB, task *entity.TailoringTask, order *entity.Order) (*entity.TailorCommission, error) {
	if existing, err := s.repos.Commission.FindByTaskID(ctx, task.ID); err == nil && existing != nil {
		return existing, nil
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	code, err := s.repos.Commission.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	commission := &entity.TailorCommission{
		ID:               newID(),
		CommissionCode:   code,
		TailorID:         *task.TailorID,
		TaskID:           task.ID,
		OrderID:          order.ID,
		OrderAmount:      order.TotalPrice,
		CommissionRate:   task.CommissionRate,
		CommissionAmount: task.CommissionAmount,
		GarmentType:      garmentName(order),
		Quantity:         order.Quantity,
		CustomerName:     customerName(order),
		Status:           entity.CommissionStatusCredited,
		EarnedAt:         now,
		CreditedAt:       &now,
	}
	if err := s.repos.Commission.CreateTx(tx, commission); err != nil {
		return nil, err
	}
	if err := tx.Model(&entity.TailoringTask{}).Where("id = ?", task.ID).
		Update("commission_paid", true).Error; err != nil {
		return nil, err
	}
	return commission, nil
}

func (s *TaskService) requireOwner(actor Actor, task *entity.TailoringTask) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTailor() && task.TailorID != nil && *task.TailorID == actor.ID {
		return nil
	}
	return ErrForbidden
}

func (s *TaskService) notifyBestEffort(ctx context.Context, n *entity.Notification) {
	if err := s.notifications.Notify(ctx, n); err != nil {
		s.logger.Warn("notification failed", zap.String("type", n.Type), zap.Error(err))
	}
}

func (s *TaskService) notifyAdminsBestEffort(ctx context.Context, template entity.Notification) {
	if err := s.notifications.NotifyAdmins(ctx, template); err != nil {
		s.logger.Warn("admin notification failed", zap.String("type", template.Type), zap.Error(err))
	}
}

// commissionFor computes rate percent of the order total, to centavos.
func commissionFor(orderTotal, rate decimal.Decimal) decimal.Decimal {
	return orderTotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

func orderCode(task *entity.TailoringTask) string {
	if task.Order != nil {
		return task.Order.OrderCode
	}
	return task.OrderID
}

func customerName(order *entity.Order) string {
	if order.Customer != nil {
		return order.Customer.Name
	}
	return ""
}
