package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

// makeTask places a two-unit order (total 2000) and returns its task,
// assigned to tailor-001 at the default 10% commission rate.
func makeTask(t *testing.T, e *env) (*entity.Order, *entity.TailoringTask) {
	t.Helper()
	seedOrderFixtures(t, e)
	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("Create order failed: %v", err)
	}
	task, err := e.repos.Task.FindByOrderID(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("FindByOrderID failed: %v", err)
	}
	return order, task
}

func TestTaskLifecycle(t *testing.T) {
	e := newEnv(t)
	order, task := makeTask(t, e)
	tailor := testutil.TailorActor("tailor-001")

	started, err := e.taskSvc.Start(ctxb(), tailor, task.ID)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != entity.TaskStatusInProgress {
		t.Errorf("Expected in_progress task, got %s", started.Status)
	}
	if started.StartedAt == nil {
		t.Error("Expected started_at to be set")
	}

	got, _ := e.repos.Order.FindByID(ctxb(), order.ID)
	if got.Status != entity.OrderStatusInProgress {
		t.Errorf("Expected order in_progress, got %s", got.Status)
	}

	completed, err := e.taskSvc.Complete(ctxb(), tailor, task.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != entity.TaskStatusCompleted {
		t.Errorf("Expected completed task, got %s", completed.Status)
	}

	approved, err := e.taskSvc.Approve(ctxb(), testutil.AdminActor(), task.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != entity.TaskStatusApproved {
		t.Errorf("Expected approved task, got %s", approved.Status)
	}
	if !approved.CommissionFinal {
		t.Error("Expected commission to be frozen on approval")
	}
	if !approved.CommissionAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected commission 200 (10%% of 2000), got %s", approved.CommissionAmount)
	}

	got, _ = e.repos.Order.FindByID(ctxb(), order.ID)
	if got.Status != entity.OrderStatusCompleted {
		t.Errorf("Expected order completed, got %s", got.Status)
	}
	if got.CompletedDate == nil {
		t.Error("Expected completed_date to be set")
	}
}

func TestTaskStartOutOfOrderRejected(t *testing.T) {
	e := newEnv(t)
	_, task := makeTask(t, e)
	tailor := testutil.TailorActor("tailor-001")

	// Completing before starting is invalid.
	if _, err := e.taskSvc.Complete(ctxb(), tailor, task.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for early complete, got %v", err)
	}
	// So is approving before completion.
	if _, err := e.taskSvc.Approve(ctxb(), testutil.AdminActor(), task.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for early approve, got %v", err)
	}

	if _, err := e.taskSvc.Start(ctxb(), tailor, task.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	// Starting twice is invalid.
	if _, err := e.taskSvc.Start(ctxb(), tailor, task.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for double start, got %v", err)
	}
}

func TestTaskOwnershipEnforced(t *testing.T) {
	e := newEnv(t)
	_, task := makeTask(t, e)
	testutil.SeedTailor(t, e.db, "tailor-002", "Pedro Reyes")

	if _, err := e.taskSvc.Start(ctxb(), testutil.TailorActor("tailor-002"), task.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for another tailor, got %v", err)
	}
	if _, err := e.taskSvc.Get(ctxb(), testutil.TailorActor("tailor-002"), task.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden reading another tailor's task, got %v", err)
	}

	// Tailors cannot approve, even their own work.
	if _, err := e.taskSvc.Start(ctxb(), testutil.TailorActor("tailor-001"), task.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := e.taskSvc.Complete(ctxb(), testutil.TailorActor("tailor-001"), task.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := e.taskSvc.Approve(ctxb(), testutil.TailorActor("tailor-001"), task.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for tailor approve, got %v", err)
	}
}

func TestApproveIsIdempotent(t *testing.T) {
	e := newEnv(t)
	_, task := makeTask(t, e)
	tailor := testutil.TailorActor("tailor-001")
	admin := testutil.AdminActor()

	e.taskSvc.Start(ctxb(), tailor, task.ID)
	e.taskSvc.Complete(ctxb(), tailor, task.ID)

	first, err := e.taskSvc.Approve(ctxb(), admin, task.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	second, err := e.taskSvc.Approve(ctxb(), admin, task.ID)
	if err != nil {
		t.Fatalf("Second approve should be a no-op, got %v", err)
	}
	if !second.CommissionAmount.Equal(first.CommissionAmount) {
		t.Errorf("Commission changed on re-approve: %s vs %s",
			first.CommissionAmount, second.CommissionAmount)
	}
}

func TestClaimCommissionExactlyOnce(t *testing.T) {
	e := newEnv(t)
	order, task := makeTask(t, e)
	tailor := testutil.TailorActor("tailor-001")
	admin := testutil.AdminActor()

	// Not claimable before approval.
	if _, err := e.taskSvc.ClaimCommission(ctxb(), tailor, task.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState before approval, got %v", err)
	}

	e.taskSvc.Start(ctxb(), tailor, task.ID)
	e.taskSvc.Complete(ctxb(), tailor, task.ID)
	if _, err := e.taskSvc.Approve(ctxb(), admin, task.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	commission, err := e.taskSvc.ClaimCommission(ctxb(), tailor, task.ID)
	if err != nil {
		t.Fatalf("ClaimCommission failed: %v", err)
	}
	if commission.Status != entity.CommissionStatusCredited {
		t.Errorf("Expected credited commission, got %s", commission.Status)
	}
	if !commission.CommissionAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected commission 200, got %s", commission.CommissionAmount)
	}
	if !commission.OrderAmount.Equal(order.TotalPrice) {
		t.Errorf("Expected order snapshot %s, got %s", order.TotalPrice, commission.OrderAmount)
	}

	// A second claim is a no-op returning the original record.
	again, err := e.taskSvc.ClaimCommission(ctxb(), tailor, task.ID)
	if err != nil {
		t.Fatalf("Second claim should be a no-op, got %v", err)
	}
	if again.ID != commission.ID {
		t.Errorf("Expected the original commission %s, got %s", commission.ID, again.ID)
	}
	var count int64
	e.db.Model(&entity.TailorCommission{}).Where("task_id = ?", task.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one commission row, got %d", count)
	}
}

func TestReassignResetsOpenTask(t *testing.T) {
	e := newEnv(t)
	_, task := makeTask(t, e)
	testutil.SeedTailor(t, e.db, "tailor-002", "Pedro Reyes")
	admin := testutil.AdminActor()

	e.taskSvc.Start(ctxb(), testutil.TailorActor("tailor-001"), task.ID)

	reassigned, err := e.taskSvc.Reassign(ctxb(), admin, task.ID, "tailor-002")
	if err != nil {
		t.Fatalf("Reassign failed: %v", err)
	}
	if reassigned.TailorID == nil || *reassigned.TailorID != "tailor-002" {
		t.Errorf("Expected tailor-002, got %v", reassigned.TailorID)
	}
	if reassigned.Status != entity.TaskStatusAssigned {
		t.Errorf("Expected status reset to assigned, got %s", reassigned.Status)
	}
	if reassigned.StartedAt != nil {
		t.Error("Expected started_at cleared on reassignment")
	}

	// Finished work cannot be handed over.
	e.taskSvc.Start(ctxb(), testutil.TailorActor("tailor-002"), task.ID)
	e.taskSvc.Complete(ctxb(), testutil.TailorActor("tailor-002"), task.ID)
	if _, err := e.taskSvc.Reassign(ctxb(), admin, task.ID, "tailor-001"); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState reassigning completed task, got %v", err)
	}
}

func TestReassignToNonTailorRejected(t *testing.T) {
	e := newEnv(t)
	_, task := makeTask(t, e)

	_, err := e.taskSvc.Reassign(ctxb(), testutil.AdminActor(), task.ID, "test-admin-001")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation assigning to an admin, got %v", err)
	}
}
