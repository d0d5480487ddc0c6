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

// ReworkService handles post-delivery adjustments and repairs. Opening a
// rework pulls the order back into for_adjustment; completing it makes
// the order ready_for_reclaim and texts the customer.
type ReworkService struct {
	db            *gorm.DB
	repos         *repository.Repositories
	inventory     *InventoryService
	notifications *NotificationService
	sms           *SMSService
	logger        *zap.Logger
}

func NewReworkService(db *gorm.DB, repos *repository.Repositories, inventory *InventoryService, notifications *NotificationService, sms *SMSService, logger *zap.Logger) *ReworkService {
	return &ReworkService{
		db:            db,
		repos:         repos,
		inventory:     inventory,
		notifications: notifications,
		sms:           sms,
		logger:        logger,
	}
}

func (s *ReworkService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Rework, int64, error) {
	return s.repos.Rework.FindAll(ctx, page, pageSize, filters)
}

func (s *ReworkService) Get(ctx context.Context, id string) (*entity.Rework, error) {
	return s.repos.Rework.FindByID(ctx, id)
}

// ReworkMaterialRequest is one accessory consumed by the rework.
type ReworkMaterialRequest struct {
	AccessoryID  string          `json:"accessory_id" binding:"required"`
	QuantityUsed decimal.Decimal `json:"quantity_used" binding:"required"`
}

// CreateReworkRequest opens a rework on a finished order.
type CreateReworkRequest struct {
	OrderID           string                  `json:"order_id" binding:"required"`
	Reason            string                  `json:"reason" binding:"required"`
	ReasonDescription string                  `json:"reason_description"`
	ChargeType        string                  `json:"charge_type"`
	AdditionalCost    decimal.Decimal         `json:"additional_cost"`
	FabricID          *string                 `json:"fabric_id"`
	FabricMetersUsed  decimal.Decimal         `json:"fabric_meters_used"`
	AssignedTo        *string                 `json:"assigned_to"`
	Materials         []ReworkMaterialRequest `json:"materials"`
	Notes             string                  `json:"notes"`
}

func validReworkReason(reason string) bool {
	switch reason {
	case entity.ReworkReasonSizeIssue, entity.ReworkReasonDamage,
		entity.ReworkReasonCustomerRequest, entity.ReworkReasonQualityIssue,
		entity.ReworkReasonOther:
		return true
	}
	return false
}

func (s *ReworkService) Create(ctx context.Context, actor Actor, req *CreateReworkRequest) (*entity.Rework, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !validReworkReason(req.Reason) {
		return nil, fmt.Errorf("%w: unknown rework reason %q", ErrValidation, req.Reason)
	}
	if req.ChargeType == "" {
		req.ChargeType = entity.ReworkChargeFree
	}
	switch req.ChargeType {
	case entity.ReworkChargeFree:
		req.AdditionalCost = decimal.Zero
	case entity.ReworkChargePaid:
		if !req.AdditionalCost.IsPositive() {
			return nil, fmt.Errorf("%w: paid rework needs a positive additional_cost", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: charge_type must be free or paid", ErrValidation)
	}

	order, err := s.repos.Order.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.OrderStatusCompleted, entity.OrderStatusDelivered:
	default:
		return nil, fmt.Errorf("%w: order is %s, reworks open on completed or delivered orders", ErrInvalidState, order.Status)
	}
	if open, err := s.repos.Rework.FindOpenByOrderID(ctx, order.ID); err == nil && open != nil {
		return nil, fmt.Errorf("%w: order already has an open rework %s", ErrInvalidState, open.ReworkCode)
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" {
		tailor, err := s.repos.User.FindByID(ctx, *req.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("tailor: %w", err)
		}
		if tailor.Role != entity.RoleTailor {
			return nil, fmt.Errorf("%w: user %s is not a tailor", ErrValidation, tailor.Name)
		}
	}

	code, err := s.repos.Rework.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	rework := &entity.Rework{
		ID:                   newID(),
		ReworkCode:           code,
		OrderID:              order.ID,
		OriginalGarmentType:  garmentName(order),
		OriginalCustomerName: customerName(order),
		Reason:               req.Reason,
		ReasonDescription:    req.ReasonDescription,
		ChargeType:           req.ChargeType,
		AdditionalCost:       req.AdditionalCost,
		FabricID:             req.FabricID,
		FabricMetersUsed:     req.FabricMetersUsed,
		Status:               entity.ReworkStatusPending,
		AssignedTo:           req.AssignedTo,
		Notes:                req.Notes,
		CreatedBy:            actor.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.FabricID != nil && req.FabricMetersUsed.IsPositive() {
			if _, err := s.inventory.DeductFabricTx(tx, *req.FabricID, req.FabricMetersUsed, &order.ID, actor.ID, "rework "+code); err != nil {
				return err
			}
		}
		for _, m := range req.Materials {
			if _, err := s.inventory.DeductAccessoryTx(tx, m.AccessoryID, m.QuantityUsed, &order.ID, actor.ID, "rework "+code); err != nil {
				return err
			}
			material := &entity.ReworkMaterial{
				ID:           newID(),
				ReworkID:     rework.ID,
				AccessoryID:  m.AccessoryID,
				QuantityUsed: m.QuantityUsed,
			}
			if err := tx.Create(material).Error; err != nil {
				return err
			}
		}
		if err := s.repos.Rework.CreateTx(tx, rework); err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Update("status", entity.OrderStatusForAdjustment).Error
	})
	if err != nil {
		return nil, err
	}

	if rework.AssignedTo != nil {
		s.notifyBestEffort(ctx, &entity.Notification{
			RecipientID: *rework.AssignedTo,
			SenderID:    &actor.ID,
			Type:        entity.NotificationReworkOpened,
			Title:       "Rework assigned",
			Message:     fmt.Sprintf("Order %s came back for adjustment (%s).", order.OrderCode, req.Reason),
			OrderID:     &order.ID,
		})
	}

	return s.repos.Rework.FindByID(ctx, rework.ID)
}

// Start moves a pending rework to in_progress.
func (s *ReworkService) Start(ctx context.Context, actor Actor, id string) (*entity.Rework, error) {
	rework, err := s.repos.Rework.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorker(actor, rework); err != nil {
		return nil, err
	}
	if rework.Status != entity.ReworkStatusPending {
		return nil, fmt.Errorf("%w: rework is %s, expected pending", ErrInvalidState, rework.Status)
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&entity.Rework{}).Where("id = ?", rework.ID).
		Updates(map[string]interface{}{"status": entity.ReworkStatusInProgress, "started_at": now}).Error; err != nil {
		return nil, err
	}
	return s.repos.Rework.FindByID(ctx, rework.ID)
}

// Complete finishes the rework and tells the customer to come back.
func (s *ReworkService) Complete(ctx context.Context, actor Actor, id string) (*entity.Rework, error) {
	rework, err := s.repos.Rework.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorker(actor, rework); err != nil {
		return nil, err
	}
	if rework.Status != entity.ReworkStatusInProgress {
		return nil, fmt.Errorf("%w: rework is %s, expected in_progress", ErrInvalidState, rework.Status)
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Rework{}).Where("id = ?", rework.ID).
			Updates(map[string]interface{}{"status": entity.ReworkStatusCompleted, "completed_at": now}).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Order{}).Where("id = ?", rework.OrderID).
			Update("status", entity.OrderStatusReadyForReclaim).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repos.Order.FindByID(ctx, rework.OrderID)
	if err == nil {
		s.notifyAdminsBestEffort(ctx, entity.Notification{
			SenderID: &actor.ID,
			Type:     entity.NotificationReworkDone,
			Title:    "Rework completed",
			Message:  fmt.Sprintf("%s finished the rework on order %s; it is ready for reclaim.", actor.Name, order.OrderCode),
			OrderID:  &order.ID,
		})
		if _, err := s.sms.SendReworkReady(ctx, order); err != nil {
			s.logger.Warn("reclaim sms failed", zap.String("order", order.OrderCode), zap.Error(err))
		}
	}

	return s.repos.Rework.FindByID(ctx, rework.ID)
}

func (s *ReworkService) requireWorker(actor Actor, rework *entity.Rework) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTailor() && rework.AssignedTo != nil && *rework.AssignedTo == actor.ID {
		return nil
	}
	return ErrForbidden
}

func (s *ReworkService) notifyAdminsBestEffort(ctx context.Context, template entity.Notification) {
	if err := s.notifications.NotifyAdmins(ctx, template); err != nil {
		s.logger.Warn("admin notification failed", zap.String("type", template.Type), zap.Error(err))
	}
}

func (s *ReworkService) notifyBestEffort(ctx context.Context, n *entity.Notification) {
	if err := s.notifications.Notify(ctx, n); err != nil {
		s.logger.Warn("notification failed", zap.String("type", n.Type), zap.Error(err))
	}
}
