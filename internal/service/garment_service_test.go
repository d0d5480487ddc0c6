package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/lanzy-lanzy/tailoring/internal/testutil"
)

func TestGarmentAccessoryQuantityMustBePositive(t *testing.T) {
	e := newEnv(t)
	garSvc := service.NewGarmentService(e.repos)
	testutil.SeedAccessory(t, e.db, "acc-001", "Buttons", 10)

	// A non-positive requirement would turn order intake's deduction
	// into a stock credit, so it is rejected outright.
	_, err := garSvc.Create(ctxb(), &service.CreateGarmentRequest{
		Name:                  "Barong",
		EstimatedFabricMeters: decimal.NewFromFloat(2.5),
		BasePrice:             decimal.NewFromInt(1000),
		RequiredAccessories: []service.GarmentAccessoryRequest{
			{AccessoryID: "acc-001", QuantityRequired: decimal.NewFromInt(-3)},
		},
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for negative quantity_required, got %v", err)
	}

	_, err = garSvc.Create(ctxb(), &service.CreateGarmentRequest{
		Name:                  "Barong",
		EstimatedFabricMeters: decimal.NewFromFloat(2.5),
		BasePrice:             decimal.NewFromInt(1000),
		RequiredAccessories: []service.GarmentAccessoryRequest{
			{AccessoryID: "acc-001", QuantityRequired: decimal.Zero},
		},
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation for zero quantity_required, got %v", err)
	}

	garment, err := garSvc.Create(ctxb(), &service.CreateGarmentRequest{
		Name:                  "Barong",
		EstimatedFabricMeters: decimal.NewFromFloat(2.5),
		BasePrice:             decimal.NewFromInt(1000),
		RequiredAccessories: []service.GarmentAccessoryRequest{
			{AccessoryID: "acc-001", QuantityRequired: decimal.NewFromInt(2)},
		},
	})
	if err != nil {
		t.Fatalf("Create with positive quantity failed: %v", err)
	}

	_, err = garSvc.Update(ctxb(), garment.ID, &service.UpdateGarmentRequest{
		RequiredAccessories: []service.GarmentAccessoryRequest{
			{AccessoryID: "acc-001", QuantityRequired: decimal.NewFromInt(-1)},
		},
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("Expected ErrValidation on update with negative quantity, got %v", err)
	}
}
