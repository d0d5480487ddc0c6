package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func TestCreateReworkValidation(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	_, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID: order.ID,
		Reason:  "shrunk_in_wash",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for unknown reason, got %v", err)
	}

	_, err = e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID:    order.ID,
		Reason:     entity.ReworkReasonDamage,
		ChargeType: entity.ReworkChargePaid,
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for paid rework without cost, got %v", err)
	}
}

func TestCreateReworkFreeChargeZeroesCost(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)

	rework, err := e.rwSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateReworkRequest{
		OrderID:        order.ID,
		Reason:         entity.ReworkReasonCustomerRequest,
		ChargeType:     entity.ReworkChargeFree,
		AdditionalCost: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !rework.AdditionalCost.IsZero() {
		t.Errorf("Expected free rework to carry no cost, got %s", rework.AdditionalCost)
	}
}

func TestCreateReworkRequiresFinishedOrder(t *testing.T) {
	e := newEnv(t)
	order, _ := makeTask(t, e)

	_, err := e.rwSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateReworkRequest{
		OrderID: order.ID,
		Reason:  entity.ReworkReasonSizeIssue,
	})
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for pending order, got %v", err)
	}
}

func TestCreateReworkBlocksSecondOpenRework(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	if _, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID: order.ID,
		Reason:  entity.ReworkReasonSizeIssue,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID: order.ID,
		Reason:  entity.ReworkReasonDamage,
	})
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for second open rework, got %v", err)
	}
}

func TestCreateReworkConsumesMaterials(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	// Fixtures left 0m of fab-001; give the rework its own stock.
	testutil.SeedFabric(t, e.db, "fab-002", "Charcoal Wool", 3.0)
	fabricID := "fab-002"

	rework, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID:          order.ID,
		Reason:           entity.ReworkReasonDamage,
		FabricID:         &fabricID,
		FabricMetersUsed: decimal.NewFromFloat(1.5),
		Materials: []service.ReworkMaterialRequest{
			{AccessoryID: "acc-001", QuantityUsed: decimal.NewFromInt(3)},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rework.Status != entity.ReworkStatusPending {
		t.Errorf("Expected pending rework, got %s", rework.Status)
	}

	got, _ := e.repos.Order.FindByID(ctxb(), order.ID)
	if got.Status != entity.OrderStatusForAdjustment {
		t.Errorf("Expected order for_adjustment, got %s", got.Status)
	}

	fabric, _ := e.repos.Fabric.FindByID(ctxb(), "fab-002")
	if !fabric.StockMeters.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("Expected fabric stock 1.5 after rework, got %s", fabric.StockMeters)
	}
	// 10 - 4 (order) - 3 (rework) = 3
	accessory, _ := e.repos.Accessory.FindByID(ctxb(), "acc-001")
	if !accessory.StockQuantity.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected accessory stock 3 after rework, got %s", accessory.StockQuantity)
	}

	var materials int64
	e.db.Model(&entity.ReworkMaterial{}).Where("rework_id = ?", rework.ID).Count(&materials)
	if materials != 1 {
		t.Errorf("Expected one material row, got %d", materials)
	}
}

func TestReworkLifecycle(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()
	assignee := "tailor-001"

	rework, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID:    order.ID,
		Reason:     entity.ReworkReasonSizeIssue,
		AssignedTo: &assignee,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another tailor cannot touch it.
	testutil.SeedTailor(t, e.db, "tailor-002", "Pedro Reyes")
	if _, err := e.rwSvc.Start(ctxb(), testutil.TailorActor("tailor-002"), rework.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for unassigned tailor, got %v", err)
	}

	started, err := e.rwSvc.Start(ctxb(), testutil.TailorActor(assignee), rework.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != entity.ReworkStatusInProgress {
		t.Errorf("Expected in_progress rework, got %s", started.Status)
	}

	completed, err := e.rwSvc.Complete(ctxb(), testutil.TailorActor(assignee), rework.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != entity.ReworkStatusCompleted {
		t.Errorf("Expected completed rework, got %s", completed.Status)
	}

	got, _ := e.repos.Order.FindByID(ctxb(), order.ID)
	if got.Status != entity.OrderStatusReadyForReclaim {
		t.Errorf("Expected order ready_for_reclaim, got %s", got.Status)
	}

	// Admins hear about the finished rework.
	var notified int64
	e.db.Model(&entity.Notification{}).
		Where("type = ? AND recipient_id = ?", entity.NotificationReworkDone, "test-admin-001").
		Count(&notified)
	if notified != 1 {
		t.Errorf("Expected 1 rework-completed notification for the admin, got %d", notified)
	}
}
