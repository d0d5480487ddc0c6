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

// OrderService coordinates order intake. Creating an order deducts
// fabric and accessory stock, assigns a tailoring task and records the
// deposit in one transaction; if any step fails nothing is kept.
type OrderService struct {
	db            *gorm.DB
	repos         *repository.Repositories
	inventory     *InventoryService
	notifications *NotificationService
	logger        *zap.Logger
}

func NewOrderService(db *gorm.DB, repos *repository.Repositories, inventory *InventoryService, notifications *NotificationService, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:            db,
		repos:         repos,
		inventory:     inventory,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *OrderService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Order, int64, error) {
	return s.repos.Order.FindAll(ctx, page, pageSize, filters)
}

func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return s.repos.Order.FindByID(ctx, id)
}

// OrderDetail is an order plus its payment standing.
type OrderDetail struct {
	*entity.Order
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	PaymentStatus    string          `json:"payment_status"`
}

func (s *OrderService) GetDetail(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := s.repos.Order.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.repos.Payment.TotalCompleted(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{
		Order:            order,
		TotalPaid:        paid,
		RemainingBalance: order.TotalPrice.Sub(paid),
		PaymentStatus:    PaymentStanding(order.TotalPrice, paid),
	}, nil
}

// PaymentStanding derives an order's payment status from its completed
// payment total.
func PaymentStanding(totalPrice, paid decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(totalPrice) && totalPrice.IsPositive():
		return entity.OrderPaymentPaid
	case paid.IsPositive():
		return entity.OrderPaymentPartial
	default:
		return entity.OrderPaymentUnpaid
	}
}

// InlineCustomerRequest registers a walk-in customer at order intake.
type InlineCustomerRequest struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
}

// CreateOrderRequest opens an order. The customer is either an
// existing record (customer_id) or a walk-in created inline.
type CreateOrderRequest struct {
	CustomerID          string                 `json:"customer_id"`
	NewCustomer         *InlineCustomerRequest `json:"new_customer"`
	GarmentTypeID       string                 `json:"garment_type_id" binding:"required"`
	FabricID            string                 `json:"fabric_id" binding:"required"`
	Quantity            int                    `json:"quantity"`
	Measurements        entity.JSONB           `json:"measurements"`
	SpecialInstructions string                 `json:"special_instructions"`
	DueDate             *time.Time             `json:"due_date"`
	// PaymentOption is deposit (50% down) or full.
	PaymentOption string `json:"payment_option"`
	PaymentMethod string `json:"payment_method"`
	// TailorID overrides automatic assignment.
	TailorID *string `json:"tailor_id"`
	Notes    string  `json:"notes"`
}

func (s *OrderService) Create(ctx context.Context, actor Actor, req *CreateOrderRequest) (*entity.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if req.PaymentOption == "" {
		req.PaymentOption = entity.PaymentTypeDeposit
	}
	if req.PaymentOption != entity.PaymentTypeDeposit && req.PaymentOption != entity.PaymentTypeFull {
		return nil, fmt.Errorf("%w: payment_option must be deposit or full", ErrValidation)
	}

	if (req.CustomerID == "") == (req.NewCustomer == nil) {
		return nil, fmt.Errorf("%w: provide customer_id or new_customer, not both", ErrValidation)
	}
	var customer *entity.Customer
	if req.NewCustomer != nil {
		if req.NewCustomer.Name == "" || req.NewCustomer.ContactNumber == "" {
			return nil, fmt.Errorf("%w: new customer needs name and contact_number", ErrValidation)
		}
		customer = &entity.Customer{
			ID:            newID(),
			Name:          req.NewCustomer.Name,
			ContactNumber: req.NewCustomer.ContactNumber,
		}
	} else {
		existing, err := s.repos.Customer.FindByID(ctx, req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("customer: %w", err)
		}
		customer = existing
	}
	garment, err := s.repos.Garment.FindByID(ctx, req.GarmentTypeID)
	if err != nil {
		return nil, fmt.Errorf("garment type: %w", err)
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	metersNeeded := garment.EstimatedFabricMeters.Mul(qty)
	totalPrice := garment.BasePrice.Mul(qty)

	deposit := totalPrice
	paymentType := entity.PaymentTypeFull
	if req.PaymentOption == entity.PaymentTypeDeposit {
		deposit = totalPrice.Div(decimal.NewFromInt(2)).Round(2)
		paymentType = entity.PaymentTypeDeposit
	}

	orderCode, err := s.repos.Order.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:                  newID(),
		OrderCode:           orderCode,
		CustomerID:          customer.ID,
		GarmentTypeID:       garment.ID,
		FabricID:            req.FabricID,
		Quantity:            req.Quantity,
		FabricMetersUsed:    metersNeeded,
		Measurements:        req.Measurements,
		SpecialInstructions: req.SpecialInstructions,
		TotalPrice:          totalPrice,
		DepositAmount:       deposit,
		Status:              entity.OrderStatusPending,
		DueDate:             req.DueDate,
		CreatedBy:           actor.ID,
		Notes:               req.Notes,
	}

	var task *entity.TailoringTask

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.NewCustomer != nil {
			if err := tx.Create(customer).Error; err != nil {
				return err
			}
		}

		if _, err := s.inventory.DeductFabricTx(tx, req.FabricID, metersNeeded, &order.ID, actor.ID, "order "+orderCode); err != nil {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, ra := range garment.RequiredAccessories {
			needed := ra.QuantityRequired.Mul(qty)
			if _, err := s.inventory.DeductAccessoryTx(tx, ra.AccessoryID, needed, &order.ID, actor.ID, "order "+orderCode); err != nil {
				return err
			}
			oa := &entity.OrderAccessory{
				ID:           newID(),
				OrderID:      order.ID,
				AccessoryID:  ra.AccessoryID,
				QuantityUsed: needed,
			}
			if err := tx.Create(oa).Error; err != nil {
				return err
			}
		}

		tailorID, err := s.pickTailor(ctx, garment, req.TailorID)
		if err != nil {
			return err
		}
		task = &entity.TailoringTask{
			ID:             newID(),
			OrderID:        order.ID,
			TailorID:       tailorID,
			Status:         entity.TaskStatusAssigned,
			CommissionRate: decimal.NewFromInt(10),
			AssignedAt:     time.Now(),
		}
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		paymentCode, err := s.repos.Payment.GenerateCode(ctx)
		if err != nil {
			return err
		}
		payment := &entity.Payment{
			ID:          newID(),
			PaymentCode: paymentCode,
			OrderID:     order.ID,
			Amount:      deposit,
			PaymentType: paymentType,
			Method:      defaultMethod(req.PaymentMethod),
			Status:      entity.PaymentStatusCompleted,
			ReceivedBy:  actor.ID,
			PaymentDate: time.Now(),
		}
		return s.repos.Payment.CreateTx(tx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_code", order.OrderCode),
		zap.String("customer", customer.Name),
		zap.Int("quantity", order.Quantity))

	if task.TailorID != nil {
		s.notifyBestEffort(ctx, &entity.Notification{
			RecipientID: *task.TailorID,
			SenderID:    &actor.ID,
			Type:        entity.NotificationTaskAssigned,
			Title:       "New task assigned",
			Message:     fmt.Sprintf("Order %s (%s x%d) has been assigned to you.", order.OrderCode, garment.Name, order.Quantity),
			OrderID:     &order.ID,
			TaskID:      &task.ID,
		})
	}

	return s.repos.Order.FindByID(ctx, order.ID)
}

// pickTailor resolves the assignee: explicit override, then the garment
// default, then the active tailor with the fewest open tasks.
func (s *OrderService) pickTailor(ctx context.Context, garment *entity.GarmentType, override *string) (*string, error) {
	if override != nil && *override != "" {
		tailor, err := s.repos.User.FindByID(ctx, *override)
		if err != nil {
			return nil, fmt.Errorf("tailor: %w", err)
		}
		if tailor.Role != entity.RoleTailor {
			return nil, fmt.Errorf("%w: user %s is not a tailor", ErrValidation, tailor.Name)
		}
		return &tailor.ID, nil
	}
	if garment.DefaultTailorID != nil {
		return garment.DefaultTailorID, nil
	}

	tailors, err := s.repos.User.FindActiveTailors(ctx)
	if err != nil {
		return nil, err
	}
	if len(tailors) == 0 {
		return nil, nil
	}
	var best *entity.User
	var bestCount int64
	for i := range tailors {
		count, err := s.repos.Task.CountActiveByTailor(ctx, tailors[i].ID)
		if err != nil {
			return nil, err
		}
		if best == nil || count < bestCount {
			best = &tailors[i]
			bestCount = count
		}
	}
	return &best.ID, nil
}

// UpdateOrderRequest edits an open order. Changing the fabric, garment
// type or quantity restores the old stock and deducts the new amounts in
// the same transaction.
type UpdateOrderRequest struct {
	GarmentTypeID       *string      `json:"garment_type_id"`
	FabricID            *string      `json:"fabric_id"`
	Quantity            *int         `json:"quantity"`
	Measurements        entity.JSONB `json:"measurements"`
	SpecialInstructions *string      `json:"special_instructions"`
	DueDate             *time.Time   `json:"due_date"`
	Notes               *string      `json:"notes"`
}

func (s *OrderService) Update(ctx context.Context, actor Actor, id string, req *UpdateOrderRequest) (*entity.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	order, err := s.repos.Order.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.OrderStatusPending, entity.OrderStatusInProgress:
	default:
		return nil, fmt.Errorf("%w: order %s cannot be edited", ErrInvalidState, order.Status)
	}

	materialsChanged := req.FabricID != nil || req.GarmentTypeID != nil || req.Quantity != nil

	newGarmentID := order.GarmentTypeID
	if req.GarmentTypeID != nil {
		newGarmentID = *req.GarmentTypeID
	}
	newFabricID := order.FabricID
	if req.FabricID != nil {
		newFabricID = *req.FabricID
	}
	newQuantity := order.Quantity
	if req.Quantity != nil {
		newQuantity = *req.Quantity
	}
	if newQuantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	garment, err := s.repos.Garment.FindByID(ctx, newGarmentID)
	if err != nil {
		return nil, fmt.Errorf("garment type: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if materialsChanged {
			// Put the old materials back first, then take the new ones.
			if _, err := s.inventory.RestoreFabricTx(tx, order.FabricID, order.FabricMetersUsed, &order.ID, actor.ID, "order "+order.OrderCode+" edited"); err != nil {
				return err
			}
			for _, oa := range order.Accessories {
				if _, err := s.inventory.RestoreAccessoryTx(tx, oa.AccessoryID, oa.QuantityUsed, &order.ID, actor.ID, "order "+order.OrderCode+" edited"); err != nil {
					return err
				}
			}
			if err := tx.Where("order_id = ?", order.ID).Delete(&entity.OrderAccessory{}).Error; err != nil {
				return err
			}

			qty := decimal.NewFromInt(int64(newQuantity))
			metersNeeded := garment.EstimatedFabricMeters.Mul(qty)
			if _, err := s.inventory.DeductFabricTx(tx, newFabricID, metersNeeded, &order.ID, actor.ID, "order "+order.OrderCode+" edited"); err != nil {
				return err
			}
			for _, ra := range garment.RequiredAccessories {
				needed := ra.QuantityRequired.Mul(qty)
				if _, err := s.inventory.DeductAccessoryTx(tx, ra.AccessoryID, needed, &order.ID, actor.ID, "order "+order.OrderCode+" edited"); err != nil {
					return err
				}
				oa := &entity.OrderAccessory{
					ID:           newID(),
					OrderID:      order.ID,
					AccessoryID:  ra.AccessoryID,
					QuantityUsed: needed,
				}
				if err := tx.Create(oa).Error; err != nil {
					return err
				}
			}

			order.GarmentTypeID = newGarmentID
			order.FabricID = newFabricID
			order.Quantity = newQuantity
			order.FabricMetersUsed = metersNeeded
			order.TotalPrice = garment.BasePrice.Mul(qty)
		}

		if req.Measurements != nil {
			order.Measurements = req.Measurements
		}
		if req.SpecialInstructions != nil {
			order.SpecialInstructions = *req.SpecialInstructions
		}
		if req.DueDate != nil {
			order.DueDate = req.DueDate
		}
		if req.Notes != nil {
			order.Notes = *req.Notes
		}

		order.Accessories = nil
		return tx.Save(order).Error
	})
	if err != nil {
		return nil, err
	}

	return s.repos.Order.FindByID(ctx, order.ID)
}

// Cancel closes an open order and returns its materials to stock.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id, reason string) (*entity.Order, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	order, err := s.repos.Order.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.OrderStatusPending, entity.OrderStatusInProgress:
	default:
		return nil, fmt.Errorf("%w: order %s cannot be cancelled", ErrInvalidState, order.Status)
	}

	var tailorID *string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.inventory.RestoreFabricTx(tx, order.FabricID, order.FabricMetersUsed, &order.ID, actor.ID, "order "+order.OrderCode+" cancelled"); err != nil {
			return err
		}
		for _, oa := range order.Accessories {
			if _, err := s.inventory.RestoreAccessoryTx(tx, oa.AccessoryID, oa.QuantityUsed, &order.ID, actor.ID, "order "+order.OrderCode+" cancelled"); err != nil {
				return err
			}
		}

		task, err := s.repos.Task.FindByOrderID(ctx, order.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if task != nil {
			tailorID = task.TailorID
			if err := tx.Where("id = ?", task.ID).Delete(&entity.TailoringTask{}).Error; err != nil {
				return err
			}
		}

		order.Status = entity.OrderStatusCancelled
		if reason != "" {
			order.Notes = appendNote(order.Notes, "cancelled: "+reason)
		}
		order.Accessories = nil
		order.Payments = nil
		order.Task = nil
		return tx.Save(order).Error
	})
	if err != nil {
		return nil, err
	}

	if tailorID != nil {
		s.notifyBestEffort(ctx, &entity.Notification{
			RecipientID: *tailorID,
			SenderID:    &actor.ID,
			Type:        entity.NotificationOrderCancelled,
			Title:       "Order cancelled",
			Message:     fmt.Sprintf("Order %s was cancelled; its task has been withdrawn.", order.OrderCode),
			OrderID:     &order.ID,
		})
	}

	return s.repos.Order.FindByID(ctx, order.ID)
}

// ReadyForClaim lists completed orders waiting for customer pickup.
func (s *OrderService) ReadyForClaim(ctx context.Context) ([]entity.Order, error) {
	return s.repos.Order.FindReadyForClaim(ctx)
}

// ReadyForReclaim lists reworked orders waiting for customer pickup.
func (s *OrderService) ReadyForReclaim(ctx context.Context) ([]entity.Order, error) {
	return s.repos.Order.FindReadyForReclaim(ctx)
}

func (s *OrderService) notifyBestEffort(ctx context.Context, n *entity.Notification) {
	if err := s.notifications.Notify(ctx, n); err != nil {
		s.logger.Warn("notification failed", zap.String("type", n.Type), zap.Error(err))
	}
}

func defaultMethod(method string) string {
	if method == "" {
		return "cash"
	}
	return method
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
