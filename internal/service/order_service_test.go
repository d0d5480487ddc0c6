package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

// seedOrderFixtures creates the admin, a tailor, a customer, a fabric
// with 5.0m of stock, an accessory with 10 pcs and a garment type that
// needs 2.5m of fabric and 2 pcs per unit at a base price of 1000.
func seedOrderFixtures(t *testing.T, e *env) {
	t.Helper()
	testutil.SeedAdmin(t, e.db)
	testutil.SeedTailor(t, e.db, "tailor-001", "Maria Santos")
	testutil.SeedCustomer(t, e.db, "cust-001", "Juan Dela Cruz")
	testutil.SeedFabric(t, e.db, "fab-001", "Navy Wool", 5.0)
	testutil.SeedAccessory(t, e.db, "acc-001", "Buttons", 10)
	testutil.SeedGarmentType(t, e.db, "gar-001", "Barong", 2.5, 1000)
	link := &entity.GarmentTypeAccessory{
		ID:               "ga-001",
		GarmentTypeID:    "gar-001",
		AccessoryID:      "acc-001",
		QuantityRequired: decimal.NewFromInt(2),
	}
	if err := e.db.Create(link).Error; err != nil {
		t.Fatalf("Failed to seed garment accessory: %v", err)
	}
}

func TestCreateOrderDeductsStockAtomically(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if order.Status != entity.OrderStatusPending {
		t.Errorf("Expected pending order, got %s", order.Status)
	}
	if !order.TotalPrice.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected total 2000, got %s", order.TotalPrice)
	}
	if !order.FabricMetersUsed.Equal(decimal.NewFromFloat(5.0)) {
		t.Errorf("Expected 5.0m consumed, got %s", order.FabricMetersUsed)
	}

	fabric, err := e.repos.Fabric.FindByID(ctxb(), "fab-001")
	if err != nil {
		t.Fatalf("FindByID fabric: %v", err)
	}
	if !fabric.StockMeters.IsZero() {
		t.Errorf("Expected fabric stock 0, got %s", fabric.StockMeters)
	}

	accessory, err := e.repos.Accessory.FindByID(ctxb(), "acc-001")
	if err != nil {
		t.Fatalf("FindByID accessory: %v", err)
	}
	if !accessory.StockQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected accessory stock 6, got %s", accessory.StockQuantity)
	}

	// Every deduction leaves an audit row tied to the order.
	var logCount int64
	e.db.Model(&entity.InventoryLog{}).
		Where("order_id = ? AND action = ?", order.ID, entity.InventoryActionDeduct).
		Count(&logCount)
	if logCount != 2 {
		t.Errorf("Expected 2 deduct logs, got %d", logCount)
	}

	task, err := e.repos.Task.FindByOrderID(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("FindByOrderID task: %v", err)
	}
	if task.Status != entity.TaskStatusAssigned {
		t.Errorf("Expected assigned task, got %s", task.Status)
	}
	if task.TailorID == nil || *task.TailorID != "tailor-001" {
		t.Errorf("Expected task assigned to tailor-001, got %v", task.TailorID)
	}
	if !task.CommissionRate.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected commission rate 10, got %s", task.CommissionRate)
	}

	// Deposit option takes half the total up front.
	paid, err := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("TotalCompleted: %v", err)
	}
	if !paid.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected deposit 1000, got %s", paid)
	}
}

func TestCreateOrderFullPayment(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      1,
		PaymentOption: entity.PaymentTypeFull,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	paid, err := e.repos.Payment.TotalCompleted(ctxb(), order.ID)
	if err != nil {
		t.Fatalf("TotalCompleted: %v", err)
	}
	if !paid.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected full payment 1000, got %s", paid)
	}
}

func TestCreateOrderInsufficientFabricRollsBack(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	// Three units need 7.5m but only 5.0m is on the shelf.
	_, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      3,
	})
	if !errors.Is(err, service.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	fabric, _ := e.repos.Fabric.FindByID(ctxb(), "fab-001")
	if !fabric.StockMeters.Equal(decimal.NewFromFloat(5.0)) {
		t.Errorf("Expected stock unchanged at 5.0, got %s", fabric.StockMeters)
	}

	var orders, tasks, payments, logs int64
	e.db.Model(&entity.Order{}).Count(&orders)
	e.db.Model(&entity.TailoringTask{}).Count(&tasks)
	e.db.Model(&entity.Payment{}).Count(&payments)
	e.db.Model(&entity.InventoryLog{}).Count(&logs)
	if orders != 0 || tasks != 0 || payments != 0 || logs != 0 {
		t.Errorf("Expected no rows after rollback, got orders=%d tasks=%d payments=%d logs=%d",
			orders, tasks, payments, logs)
	}
}

func TestCreateOrderRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	_, err := e.orderSvc.Create(ctxb(), testutil.TailorActor("tailor-001"), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
	})
	if !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
}

func TestCreateOrderWithInlineCustomer(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		NewCustomer: &service.InlineCustomerRequest{
			Name:          "Rosa Mendoza",
			ContactNumber: "0918 555 0202",
		},
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	customer, err := e.repos.Customer.FindByID(ctxb(), order.CustomerID)
	if err != nil {
		t.Fatalf("Inline customer was not persisted: %v", err)
	}
	if customer.Name != "Rosa Mendoza" {
		t.Errorf("Expected customer Rosa Mendoza, got %s", customer.Name)
	}
	if customer.ContactNumber != "0918 555 0202" {
		t.Errorf("Expected contact 0918 555 0202, got %s", customer.ContactNumber)
	}
}

func TestCreateOrderCustomerRequired(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)
	admin := testutil.AdminActor()

	// Neither an existing customer nor an inline one.
	_, err := e.orderSvc.Create(ctxb(), admin, &service.CreateOrderRequest{
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation without a customer, got %v", err)
	}

	// Both at once is ambiguous.
	_, err = e.orderSvc.Create(ctxb(), admin, &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		NewCustomer:   &service.InlineCustomerRequest{Name: "Rosa Mendoza", ContactNumber: "0918 555 0202"},
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation with both customer forms, got %v", err)
	}

	// Inline customer without a phone.
	_, err = e.orderSvc.Create(ctxb(), admin, &service.CreateOrderRequest{
		NewCustomer:   &service.InlineCustomerRequest{Name: "Rosa Mendoza"},
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for inline customer without phone, got %v", err)
	}
}

func TestUpdateOrderRestoresAndRededucts(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newQty := 2
	updated, err := e.orderSvc.Update(ctxb(), testutil.AdminActor(), order.ID, &service.UpdateOrderRequest{
		Quantity: &newQty,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Quantity != 2 {
		t.Errorf("Expected quantity 2, got %d", updated.Quantity)
	}
	if !updated.FabricMetersUsed.Equal(decimal.NewFromFloat(5.0)) {
		t.Errorf("Expected 5.0m consumed after edit, got %s", updated.FabricMetersUsed)
	}
	if !updated.TotalPrice.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected total reprized to 2000, got %s", updated.TotalPrice)
	}

	// 5.0 - 2.5 + 2.5 - 5.0 = 0
	fabric, _ := e.repos.Fabric.FindByID(ctxb(), "fab-001")
	if !fabric.StockMeters.IsZero() {
		t.Errorf("Expected fabric stock 0 after edit, got %s", fabric.StockMeters)
	}

	accessory, _ := e.repos.Accessory.FindByID(ctxb(), "acc-001")
	if !accessory.StockQuantity.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected accessory stock 6 after edit, got %s", accessory.StockQuantity)
	}
}

func TestCancelOrderRestocksAndRemovesTask(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
		Quantity:      2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cancelled, err := e.orderSvc.Cancel(ctxb(), testutil.AdminActor(), order.ID, "customer backed out")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != entity.OrderStatusCancelled {
		t.Errorf("Expected cancelled order, got %s", cancelled.Status)
	}

	fabric, _ := e.repos.Fabric.FindByID(ctxb(), "fab-001")
	if !fabric.StockMeters.Equal(decimal.NewFromFloat(5.0)) {
		t.Errorf("Expected fabric restored to 5.0, got %s", fabric.StockMeters)
	}
	accessory, _ := e.repos.Accessory.FindByID(ctxb(), "acc-001")
	if !accessory.StockQuantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected accessories restored to 10, got %s", accessory.StockQuantity)
	}

	var tasks int64
	e.db.Model(&entity.TailoringTask{}).Where("order_id = ?", order.ID).Count(&tasks)
	if tasks != 0 {
		t.Errorf("Expected task withdrawn, found %d", tasks)
	}
}

func TestCancelDeliveredOrderRejected(t *testing.T) {
	e := newEnv(t)
	seedOrderFixtures(t, e)

	order, err := e.orderSvc.Create(ctxb(), testutil.AdminActor(), &service.CreateOrderRequest{
		CustomerID:    "cust-001",
		GarmentTypeID: "gar-001",
		FabricID:      "fab-001",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	e.db.Model(&entity.Order{}).Where("id = ?", order.ID).
		Update("status", entity.OrderStatusDelivered)

	_, err = e.orderSvc.Cancel(ctxb(), testutil.AdminActor(), order.ID, "")
	if !errors.Is(err, service.ErrInvalidState) {
		t.Fatalf("Expected ErrInvalidState, got %v", err)
	}
}
