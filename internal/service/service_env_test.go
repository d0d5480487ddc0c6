package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/sms"
	"github.com/lanzy-lanzy/tailoring/internal/sse"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

// env wires the full service graph on an in-memory database. The SMS
// gateway is left unconfigured so sends are logged as failed without
// breaking any flow.
type env struct {
	db       *gorm.DB
	repos    *repository.Repositories
	invSvc   *service.InventoryService
	orderSvc *service.OrderService
	taskSvc  *service.TaskService
	paySvc   *service.PaymentService
	rwSvc    *service.ReworkService
	smsSvc   *service.SMSService
	notifSvc *service.NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	logger := zap.NewNop()

	hub := sse.NewHub()
	notifications := service.NewNotificationService(repos, nil, hub, logger)
	smsSvc := service.NewSMSService(repos, sms.NewClient("", ""), logger)
	invSvc := service.NewInventoryService(db, repos, logger)
	taskSvc := service.NewTaskService(db, repos, notifications, smsSvc, logger)

	return &env{
		db:       db,
		repos:    repos,
		invSvc:   invSvc,
		orderSvc: service.NewOrderService(db, repos, invSvc, notifications, logger),
		taskSvc:  taskSvc,
		paySvc:   service.NewPaymentService(db, repos, taskSvc, logger),
		rwSvc:    service.NewReworkService(db, repos, invSvc, notifications, smsSvc, logger),
		smsSvc:   smsSvc,
		notifSvc: notifications,
	}
}

func ctxb() context.Context {
	return context.Background()
}
