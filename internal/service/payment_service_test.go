package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

// makeCompletedOrder drives a two-unit order (total 2000, deposit 1000)
// through the task workflow until the order is completed.
func makeCompletedOrder(t *testing.T, e *env) *entity.Order {
	t.Helper()
	order, task := makeTask(t, e)
	tailor := testutil.TailorActor("tailor-001")
	admin := testutil.AdminActor()

	if _, err := e.taskSvc.Start(ctxb(), tailor, task.ID); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := e.taskSvc.Complete(ctxb(), tailor, task.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := e.taskSvc.Approve(ctxb(), admin, task.ID); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	got, err := e.repos.Order.FindByID(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	return got
}

func TestRecordPayment(t *testing.T) {
	e := newEnv(t)
	order, _ := makeTask(t, e)
	admin := testutil.AdminActor()

	payment, err := e.paySvc.RecordPayment(ctxb(), admin, &service.RecordPaymentRequest{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(500),
		Method:  "gcash",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if payment.Status != entity.PaymentStatusCompleted {
		t.Errorf("Expected completed payment, got %s", payment.Status)
	}

	paid, _ := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if !paid.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected 1500 paid (deposit + 500), got %s", paid)
	}
}

func TestRecordPaymentOverpayRejected(t *testing.T) {
	e := newEnv(t)
	order, _ := makeTask(t, e)
	admin := testutil.AdminActor()

	// 1000 deposit already taken; only 1000 remains on a 2000 order.
	_, err := e.paySvc.RecordPayment(ctxb(), admin, &service.RecordPaymentRequest{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(1500),
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for overpayment, got %v", err)
	}

	_, err = e.paySvc.RecordPayment(ctxb(), admin, &service.RecordPaymentRequest{
		OrderID: order.ID,
		Amount:  decimal.NewFromInt(-10),
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for negative amount, got %v", err)
	}
}

func TestProcessClaimSettlesBalance(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	delivered, err := e.paySvc.ProcessClaim(ctxb(), admin, order.ID, "cash")
	if err != nil {
		t.Fatalf("ProcessClaim failed: %v", err)
	}
	if delivered.Status != entity.OrderStatusDelivered {
		t.Errorf("Expected delivered order, got %s", delivered.Status)
	}
	if delivered.DeliveredDate == nil {
		t.Error("Expected delivered_date to be set")
	}

	// The 1000 balance was collected at pickup.
	paid, _ := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if !paid.Equal(order.TotalPrice) {
		t.Errorf("Expected order fully paid (%s), got %s", order.TotalPrice, paid)
	}

	// Pickup credits the tailor's commission in the same transaction.
	task, _ := e.repos.Task.FindByOrderID(ctxb(), order.ID)
	commission, err := e.repos.Commission.FindByTaskID(ctxb(), task.ID)
	if err != nil {
		t.Fatalf("Expected a commission after pickup: %v", err)
	}
	if !commission.CommissionAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected commission 200, got %s", commission.CommissionAmount)
	}
}

func TestProcessClaimRequiresCompletedOrder(t *testing.T) {
	e := newEnv(t)
	order, _ := makeTask(t, e)

	_, err := e.paySvc.ProcessClaim(ctxb(), testutil.AdminActor(), order.ID, "cash")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState for pending order, got %v", err)
	}
}

func TestProcessReclaimCollectsReworkCharge(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	if _, err := e.paySvc.ProcessClaim(ctxb(), admin, order.ID, "cash"); err != nil {
		t.Fatalf("ProcessClaim failed: %v", err)
	}

	rework, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID:        order.ID,
		Reason:         entity.ReworkReasonSizeIssue,
		ChargeType:     entity.ReworkChargePaid,
		AdditionalCost: decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("Create rework failed: %v", err)
	}
	if _, err := e.rwSvc.Start(ctxb(), admin, rework.ID); err != nil {
		t.Fatalf("Start rework failed: %v", err)
	}
	if _, err := e.rwSvc.Complete(ctxb(), admin, rework.ID); err != nil {
		t.Fatalf("Complete rework failed: %v", err)
	}

	delivered, err := e.paySvc.ProcessReclaim(ctxb(), admin, order.ID, "cash")
	if err != nil {
		t.Fatalf("ProcessReclaim failed: %v", err)
	}
	if delivered.Status != entity.OrderStatusDelivered {
		t.Errorf("Expected delivered order, got %s", delivered.Status)
	}

	// 2000 order price plus the 300 rework charge.
	paid, _ := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if !paid.Equal(decimal.NewFromInt(2300)) {
		t.Errorf("Expected total collected 2300, got %s", paid)
	}
}

func TestProcessReclaimFreeReworkCollectsNothing(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	admin := testutil.AdminActor()

	if _, err := e.paySvc.ProcessClaim(ctxb(), admin, order.ID, "cash"); err != nil {
		t.Fatalf("ProcessClaim failed: %v", err)
	}

	rework, err := e.rwSvc.Create(ctxb(), admin, &service.CreateReworkRequest{
		OrderID: order.ID,
		Reason:  entity.ReworkReasonQualityIssue,
	})
	if err != nil {
		t.Fatalf("Create rework failed: %v", err)
	}
	e.rwSvc.Start(ctxb(), admin, rework.ID)
	e.rwSvc.Complete(ctxb(), admin, rework.ID)

	if _, err := e.paySvc.ProcessReclaim(ctxb(), admin, order.ID, "cash"); err != nil {
		t.Fatalf("ProcessReclaim failed: %v", err)
	}

	paid, _ := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if !paid.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected no extra charge on a free rework, got %s paid", paid)
	}
}

func TestPayCommission(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	tailor := testutil.TailorActor("tailor-001")
	admin := testutil.AdminActor()

	task, err := e.repos.Task.FindByOrderID(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("FindByOrderID failed: %v", err)
	}
	commission, err := e.taskSvc.ClaimCommission(ctxb(), tailor, task.ID)
	if err != nil {
		t.Fatalf("ClaimCommission failed: %v", err)
	}

	// Only admins settle commissions.
	if _, err := e.paySvc.PayCommission(ctxb(), tailor, commission.ID); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden for tailor, got %v", err)
	}

	paid, err := e.paySvc.PayCommission(ctxb(), admin, commission.ID)
	if err != nil {
		t.Fatalf("PayCommission failed: %v", err)
	}
	if paid.Status != entity.CommissionStatusPaid {
		t.Errorf("Expected paid commission, got %s", paid.Status)
	}
	if paid.PaidAt == nil {
		t.Error("Expected paid_at to be set")
	}

	if _, err := e.paySvc.PayCommission(ctxb(), admin, commission.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState paying twice, got %v", err)
	}
}

func TestListCommissionsScopedToTailor(t *testing.T) {
	e := newEnv(t)
	order := makeCompletedOrder(t, e)
	tailor := testutil.TailorActor("tailor-001")

	task, _ := e.repos.Task.FindByOrderID(ctxb(), order.ID)
	if _, err := e.taskSvc.ClaimCommission(ctxb(), tailor, task.ID); err != nil {
		t.Fatalf("ClaimCommission failed: %v", err)
	}
	testutil.SeedTailor(t, e.db, "tailor-002", "Pedro Reyes")

	items, total, err := e.paySvc.ListCommissions(ctxb(), testutil.TailorActor("tailor-002"), 1, 20, map[string]string{})
	if err != nil {
		t.Fatalf("ListCommissions failed: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("Expected no commissions for tailor-002, got %d", total)
	}

	_, total, err = e.paySvc.ListCommissions(ctxb(), tailor, 1, 20, map[string]string{})
	if err != nil {
		t.Fatalf("ListCommissions failed: %v", err)
	}
	if total != 1 {
		t.Errorf("Expected one commission for tailor-001, got %d", total)
	}
}
