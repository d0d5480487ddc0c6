package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/sms"
	"go.uber.org/zap"
)

// SMSGateway sends one message and returns the gateway's raw response.
type SMSGateway interface {
	Send(ctx context.Context, number, message string) (string, error)
}

// SMSService sends customer SMS and keeps the full attempt trail.
// A failed send is recorded, never propagated: order and task flows
// must not fail because the gateway is down.
type SMSService struct {
	repos   *repository.Repositories
	gateway SMSGateway
	logger  *zap.Logger
}

func NewSMSService(repos *repository.Repositories, gateway SMSGateway, logger *zap.Logger) *SMSService {
	return &SMSService{repos: repos, gateway: gateway, logger: logger}
}

// SendToCustomer sends one SMS and logs the outcome. The returned log
// row reports sent or failed; the error return covers only database
// problems.
func (s *SMSService) SendToCustomer(ctx context.Context, customer *entity.Customer, orderID *string, message string) (*entity.SMSLog, error) {
	number := sms.NormalizePhone(customer.ContactNumber)

	log := &entity.SMSLog{
		ID:          newID(),
		CustomerID:  &customer.ID,
		OrderID:     orderID,
		PhoneNumber: number,
		Message:     message,
		Status:      entity.SMSStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.repos.SMSLog.Create(ctx, log); err != nil {
		return nil, err
	}

	response, err := s.gateway.Send(ctx, number, message)
	if err != nil {
		log.Status = entity.SMSStatusFailed
		if response != "" {
			log.Response = response
		} else {
			log.Response = err.Error()
		}
		s.logger.Warn("sms send failed",
			zap.String("customer_id", customer.ID),
			zap.String("number", number),
			zap.Error(err))
	} else {
		now := time.Now()
		log.Status = entity.SMSStatusSent
		log.Response = response
		log.SentAt = &now
	}

	if err := s.repos.SMSLog.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// SendOrderReady tells the customer their garment can be picked up.
func (s *SMSService) SendOrderReady(ctx context.Context, order *entity.Order) (*entity.SMSLog, error) {
	if order.Customer == nil {
		return nil, fmt.Errorf("order %s has no customer loaded", order.ID)
	}
	message := fmt.Sprintf(
		"Hi %s! Your order %s (%s) is ready for pickup. Please visit the shop to claim it. Thank you!",
		order.Customer.Name, order.OrderCode, garmentName(order))
	return s.SendToCustomer(ctx, order.Customer, &order.ID, message)
}

// SendReworkReady tells the customer their adjusted garment is done.
func (s *SMSService) SendReworkReady(ctx context.Context, order *entity.Order) (*entity.SMSLog, error) {
	if order.Customer == nil {
		return nil, fmt.Errorf("order %s has no customer loaded", order.ID)
	}
	message := fmt.Sprintf(
		"Hi %s! The adjustment on your order %s is done and ready for pickup. Thank you!",
		order.Customer.Name, order.OrderCode)
	return s.SendToCustomer(ctx, order.Customer, &order.ID, message)
}

func (s *SMSService) ListLogs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.SMSLog, int64, error) {
	return s.repos.SMSLog.FindAll(ctx, page, pageSize, filters)
}

func garmentName(order *entity.Order) string {
	if order.GarmentType != nil {
		return order.GarmentType.Name
	}
	return "garment"
}
