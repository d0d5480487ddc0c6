package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func TestCreateFabricLogsInitialStock(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAdmin(t, e.db)
	admin := testutil.AdminActor()

	fabric, err := e.invSvc.CreateFabric(ctxb(), admin, &service.CreateFabricRequest{
		Name:          "Linen",
		Color:         "white",
		StockMeters:   decimal.NewFromInt(20),
		PricePerMeter: decimal.NewFromInt(120),
	})
	if err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}

	var logs []entity.InventoryLog
	e.db.Where("fabric_id = ?", fabric.ID).Find(&logs)
	if len(logs) != 1 {
		t.Fatalf("Expected one initial stock log, got %d", len(logs))
	}
	if logs[0].Action != entity.InventoryActionAdd {
		t.Errorf("Expected add action, got %s", logs[0].Action)
	}
	if !logs[0].NewStock.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected new stock 20, got %s", logs[0].NewStock)
	}

	// A fabric created empty gets no log.
	empty, err := e.invSvc.CreateFabric(ctxb(), admin, &service.CreateFabricRequest{Name: "Silk"})
	if err != nil {
		t.Fatalf("CreateFabric failed: %v", err)
	}
	var count int64
	e.db.Model(&entity.InventoryLog{}).Where("fabric_id = ?", empty.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected no log for empty fabric, got %d", count)
	}
}

func TestAddFabricStockWritesAuditRow(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAdmin(t, e.db)
	testutil.SeedFabric(t, e.db, "fab-001", "Navy Wool", 5.0)
	admin := testutil.AdminActor()

	fabric, err := e.invSvc.AddFabricStock(ctxb(), admin, "fab-001", decimal.NewFromFloat(2.5), "restock delivery")
	if err != nil {
		t.Fatalf("AddFabricStock failed: %v", err)
	}
	if !fabric.StockMeters.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("Expected 7.5m, got %s", fabric.StockMeters)
	}

	var log entity.InventoryLog
	if err := e.db.Where("fabric_id = ?", "fab-001").First(&log).Error; err != nil {
		t.Fatalf("Expected an audit row: %v", err)
	}
	if log.Action != entity.InventoryActionAdd {
		t.Errorf("Expected add action, got %s", log.Action)
	}
	if !log.PreviousStock.Equal(decimal.NewFromFloat(5.0)) || !log.NewStock.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("Expected 5.0 -> 7.5, got %s -> %s", log.PreviousStock, log.NewStock)
	}

	_, err = e.invSvc.AddFabricStock(ctxb(), admin, "fab-001", decimal.NewFromInt(-1), "")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for negative add, got %v", err)
	}
}

func TestAdjustFabricStockLogsDelta(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAdmin(t, e.db)
	testutil.SeedFabric(t, e.db, "fab-001", "Navy Wool", 8.0)
	admin := testutil.AdminActor()

	fabric, err := e.invSvc.AdjustFabricStock(ctxb(), admin, "fab-001", decimal.NewFromFloat(6.5), "quarterly count")
	if err != nil {
		t.Fatalf("AdjustFabricStock failed: %v", err)
	}
	if !fabric.StockMeters.Equal(decimal.NewFromFloat(6.5)) {
		t.Errorf("Expected 6.5m, got %s", fabric.StockMeters)
	}

	var log entity.InventoryLog
	if err := e.db.Where("fabric_id = ? AND action = ?", "fab-001", entity.InventoryActionAdjust).First(&log).Error; err != nil {
		t.Fatalf("Expected an adjust row: %v", err)
	}
	if !log.Quantity.Equal(decimal.NewFromFloat(-1.5)) {
		t.Errorf("Expected delta -1.5, got %s", log.Quantity)
	}

	_, err = e.invSvc.AdjustFabricStock(ctxb(), admin, "fab-001", decimal.NewFromInt(-2), "")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for negative target, got %v", err)
	}
}

func TestAddAccessoryStock(t *testing.T) {
	e := newEnv(t)
	testutil.SeedAdmin(t, e.db)
	testutil.SeedAccessory(t, e.db, "acc-001", "Buttons", 10)
	admin := testutil.AdminActor()

	accessory, err := e.invSvc.AddAccessoryStock(ctxb(), admin, "acc-001", decimal.NewFromInt(25), "supplier delivery")
	if err != nil {
		t.Fatalf("AddAccessoryStock failed: %v", err)
	}
	if !accessory.StockQuantity.Equal(decimal.NewFromInt(35)) {
		t.Errorf("Expected 35 pcs, got %s", accessory.StockQuantity)
	}

	var log entity.InventoryLog
	if err := e.db.Where("accessory_id = ?", "acc-001").First(&log).Error; err != nil {
		t.Fatalf("Expected an audit row: %v", err)
	}
	if log.ItemType != entity.ItemTypeAccessory {
		t.Errorf("Expected accessory item type, got %s", log.ItemType)
	}
}

func TestLowStockReport(t *testing.T) {
	e := newEnv(t)
	// Fabric reorder level is 5, accessory reorder level is 10.
	testutil.SeedFabric(t, e.db, "fab-low", "Navy Wool", 4.0)
	testutil.SeedFabric(t, e.db, "fab-ok", "Charcoal Wool", 12.0)
	testutil.SeedAccessory(t, e.db, "acc-low", "Buttons", 10)
	testutil.SeedAccessory(t, e.db, "acc-ok", "Zippers", 50)

	report, err := e.invSvc.LowStock(ctxb())
	if err != nil {
		t.Fatalf("LowStock failed: %v", err)
	}
	if len(report.Fabrics) != 1 || report.Fabrics[0].ID != "fab-low" {
		t.Errorf("Expected only fab-low in report, got %v", report.Fabrics)
	}
	if len(report.Accessories) != 1 || report.Accessories[0].ID != "acc-low" {
		t.Errorf("Expected only acc-low in report, got %v", report.Accessories)
	}
}
