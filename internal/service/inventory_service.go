package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService owns fabric and accessory stock. Every mutation locks
// the stock row, updates it and writes one InventoryLog row on the same
// transaction, so the ledger always reconciles with current stock.
type InventoryService struct {
	db     *gorm.DB
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewInventoryService(db *gorm.DB, repos *repository.Repositories, logger *zap.Logger) *InventoryService {
	return &InventoryService{db: db, repos: repos, logger: logger}
}

// === Fabrics ===

func (s *InventoryService) ListFabrics(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Fabric, int64, error) {
	return s.repos.Fabric.FindAll(ctx, page, pageSize, filters)
}

func (s *InventoryService) GetFabric(ctx context.Context, id string) (*entity.Fabric, error) {
	return s.repos.Fabric.FindByID(ctx, id)
}

// CreateFabricRequest creates a fabric.
type CreateFabricRequest struct {
	Name          string           `json:"name" binding:"required"`
	Color         string           `json:"color"`
	StockMeters   decimal.Decimal  `json:"stock_meters"`
	PricePerMeter decimal.Decimal  `json:"price_per_meter"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
	Description   string           `json:"description"`
}

func (s *InventoryService) CreateFabric(ctx context.Context, actor Actor, req *CreateFabricRequest) (*entity.Fabric, error) {
	if req.StockMeters.IsNegative() {
		return nil, fmt.Errorf("%w: stock_meters cannot be negative", ErrValidation)
	}
	fabric := &entity.Fabric{
		ID:            newID(),
		Name:          req.Name,
		Color:         req.Color,
		StockMeters:   req.StockMeters,
		PricePerMeter: req.PricePerMeter,
		Description:   req.Description,
	}
	if req.ReorderLevel != nil {
		fabric.ReorderLevel = *req.ReorderLevel
	} else {
		fabric.ReorderLevel = decimal.NewFromInt(5)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(fabric).Error; err != nil {
			return err
		}
		if fabric.StockMeters.IsPositive() {
			return s.writeFabricLog(tx, fabric, entity.InventoryActionAdd, fabric.StockMeters, decimal.Zero, actor.ID, nil, "initial stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fabric, nil
}

// UpdateFabricRequest updates fabric attributes. Stock moves through the
// add/adjust endpoints, never through plain updates.
type UpdateFabricRequest struct {
	Name          *string          `json:"name"`
	Color         *string          `json:"color"`
	PricePerMeter *decimal.Decimal `json:"price_per_meter"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
	Description   *string          `json:"description"`
}

func (s *InventoryService) UpdateFabric(ctx context.Context, id string, req *UpdateFabricRequest) (*entity.Fabric, error) {
	fabric, err := s.repos.Fabric.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		fabric.Name = *req.Name
	}
	if req.Color != nil {
		fabric.Color = *req.Color
	}
	if req.PricePerMeter != nil {
		fabric.PricePerMeter = *req.PricePerMeter
	}
	if req.ReorderLevel != nil {
		fabric.ReorderLevel = *req.ReorderLevel
	}
	if req.Description != nil {
		fabric.Description = *req.Description
	}
	if err := s.repos.Fabric.Update(ctx, fabric); err != nil {
		return nil, err
	}
	return fabric, nil
}

func (s *InventoryService) DeleteFabric(ctx context.Context, id string) error {
	return s.repos.Fabric.Delete(ctx, id)
}

// AddFabricStock receives new material into stock.
func (s *InventoryService) AddFabricStock(ctx context.Context, actor Actor, id string, meters decimal.Decimal, notes string) (*entity.Fabric, error) {
	if !meters.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	var fabric *entity.Fabric
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		fabric, err = s.RestoreFabricTx(tx, id, meters, nil, actor.ID, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fabric, nil
}

// AdjustFabricStock sets stock to a counted value, logging the delta.
func (s *InventoryService) AdjustFabricStock(ctx context.Context, actor Actor, id string, newStock decimal.Decimal, notes string) (*entity.Fabric, error) {
	if newStock.IsNegative() {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	var fabric *entity.Fabric
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		fabric, err = s.repos.Fabric.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		previous := fabric.StockMeters
		fabric.StockMeters = newStock
		if err := tx.Save(fabric).Error; err != nil {
			return err
		}
		return s.writeFabricLog(tx, fabric, entity.InventoryActionAdjust, newStock.Sub(previous), previous, actor.ID, nil, notes)
	})
	if err != nil {
		return nil, err
	}
	return fabric, nil
}

// DeductFabricTx takes meters out of stock on the caller's transaction.
// The row lock makes concurrent deductions serialize, so stock can never
// go below zero.
func (s *InventoryService) DeductFabricTx(tx *gorm.DB, id string, meters decimal.Decimal, orderID *string, actorID, notes string) (*entity.Fabric, error) {
	fabric, err := s.repos.Fabric.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if fabric.StockMeters.LessThan(meters) {
		return nil, fmt.Errorf("%w: fabric %s has %s m, need %s m",
			ErrInsufficientStock, fabric.Name, fabric.StockMeters, meters)
	}
	previous := fabric.StockMeters
	fabric.StockMeters = fabric.StockMeters.Sub(meters)
	if err := tx.Save(fabric).Error; err != nil {
		return nil, err
	}
	if err := s.writeFabricLog(tx, fabric, entity.InventoryActionDeduct, meters, previous, actorID, orderID, notes); err != nil {
		return nil, err
	}
	return fabric, nil
}

// RestoreFabricTx puts meters back into stock on the caller's transaction.
func (s *InventoryService) RestoreFabricTx(tx *gorm.DB, id string, meters decimal.Decimal, orderID *string, actorID, notes string) (*entity.Fabric, error) {
	fabric, err := s.repos.Fabric.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	previous := fabric.StockMeters
	fabric.StockMeters = fabric.StockMeters.Add(meters)
	if err := tx.Save(fabric).Error; err != nil {
		return nil, err
	}
	if err := s.writeFabricLog(tx, fabric, entity.InventoryActionAdd, meters, previous, actorID, orderID, notes); err != nil {
		return nil, err
	}
	return fabric, nil
}

func (s *InventoryService) writeFabricLog(tx *gorm.DB, fabric *entity.Fabric, action string, qty, previous decimal.Decimal, actorID string, orderID *string, notes string) error {
	log := &entity.InventoryLog{
		ID:            newID(),
		ItemType:      entity.ItemTypeFabric,
		FabricID:      &fabric.ID,
		Action:        action,
		Quantity:      qty,
		PreviousStock: previous,
		NewStock:      fabric.StockMeters,
		OrderID:       orderID,
		Notes:         notes,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	return s.repos.InventoryLog.CreateTx(tx, log)
}

// === Accessories ===

func (s *InventoryService) ListAccessories(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Accessory, int64, error) {
	return s.repos.Accessory.FindAll(ctx, page, pageSize, filters)
}

func (s *InventoryService) GetAccessory(ctx context.Context, id string) (*entity.Accessory, error) {
	return s.repos.Accessory.FindByID(ctx, id)
}

type CreateAccessoryRequest struct {
	Name          string           `json:"name" binding:"required"`
	Unit          string           `json:"unit"`
	StockQuantity decimal.Decimal  `json:"stock_quantity"`
	PricePerUnit  decimal.Decimal  `json:"price_per_unit"`
	ReorderLevel  *decimal.Decimal `json:"reorder_level"`
	Description   string           `json:"description"`
}

func (s *InventoryService) CreateAccessory(ctx context.Context, actor Actor, req *CreateAccessoryRequest) (*entity.Accessory, error) {
	if req.StockQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: stock_quantity cannot be negative", ErrValidation)
	}
	accessory := &entity.Accessory{
		ID:            newID(),
		Name:          req.Name,
		Unit:          req.Unit,
		StockQuantity: req.StockQuantity,
		PricePerUnit:  req.PricePerUnit,
		Description:   req.Description,
	}
	if accessory.Unit == "" {
		accessory.Unit = "pcs"
	}
	if req.ReorderLevel != nil {
		accessory.ReorderLevel = *req.ReorderLevel
	} else {
		accessory.ReorderLevel = decimal.NewFromInt(10)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(accessory).Error; err != nil {
			return err
		}
		if accessory.StockQuantity.IsPositive() {
			return s.writeAccessoryLog(tx, accessory, entity.InventoryActionAdd, accessory.StockQuantity, decimal.Zero, actor.ID, nil, "initial stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accessory, nil
}

type UpdateAccessoryRequest struct {
	Name         *string          `json:"name"`
	Unit         *string          `json:"unit"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	Description  *string          `json:"description"`
}

func (s *InventoryService) UpdateAccessory(ctx context.Context, id string, req *UpdateAccessoryRequest) (*entity.Accessory, error) {
	accessory, err := s.repos.Accessory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		accessory.Name = *req.Name
	}
	if req.Unit != nil {
		accessory.Unit = *req.Unit
	}
	if req.PricePerUnit != nil {
		accessory.PricePerUnit = *req.PricePerUnit
	}
	if req.ReorderLevel != nil {
		accessory.ReorderLevel = *req.ReorderLevel
	}
	if req.Description != nil {
		accessory.Description = *req.Description
	}
	if err := s.repos.Accessory.Update(ctx, accessory); err != nil {
		return nil, err
	}
	return accessory, nil
}

func (s *InventoryService) DeleteAccessory(ctx context.Context, id string) error {
	return s.repos.Accessory.Delete(ctx, id)
}

func (s *InventoryService) AddAccessoryStock(ctx context.Context, actor Actor, id string, qty decimal.Decimal, notes string) (*entity.Accessory, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	var accessory *entity.Accessory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		accessory, err = s.RestoreAccessoryTx(tx, id, qty, nil, actor.ID, notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return accessory, nil
}

func (s *InventoryService) AdjustAccessoryStock(ctx context.Context, actor Actor, id string, newStock decimal.Decimal, notes string) (*entity.Accessory, error) {
	if newStock.IsNegative() {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	var accessory *entity.Accessory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		accessory, err = s.repos.Accessory.FindByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		previous := accessory.StockQuantity
		accessory.StockQuantity = newStock
		if err := tx.Save(accessory).Error; err != nil {
			return err
		}
		return s.writeAccessoryLog(tx, accessory, entity.InventoryActionAdjust, newStock.Sub(previous), previous, actor.ID, nil, notes)
	})
	if err != nil {
		return nil, err
	}
	return accessory, nil
}

// DeductAccessoryTx takes units out of stock on the caller's transaction.
func (s *InventoryService) DeductAccessoryTx(tx *gorm.DB, id string, qty decimal.Decimal, orderID *string, actorID, notes string) (*entity.Accessory, error) {
	accessory, err := s.repos.Accessory.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	if accessory.StockQuantity.LessThan(qty) {
		return nil, fmt.Errorf("%w: accessory %s has %s %s, need %s",
			ErrInsufficientStock, accessory.Name, accessory.StockQuantity, accessory.Unit, qty)
	}
	previous := accessory.StockQuantity
	accessory.StockQuantity = accessory.StockQuantity.Sub(qty)
	if err := tx.Save(accessory).Error; err != nil {
		return nil, err
	}
	if err := s.writeAccessoryLog(tx, accessory, entity.InventoryActionDeduct, qty, previous, actorID, orderID, notes); err != nil {
		return nil, err
	}
	return accessory, nil
}

// RestoreAccessoryTx puts units back into stock on the caller's transaction.
func (s *InventoryService) RestoreAccessoryTx(tx *gorm.DB, id string, qty decimal.Decimal, orderID *string, actorID, notes string) (*entity.Accessory, error) {
	accessory, err := s.repos.Accessory.FindByIDForUpdate(tx, id)
	if err != nil {
		return nil, err
	}
	previous := accessory.StockQuantity
	accessory.StockQuantity = accessory.StockQuantity.Add(qty)
	if err := tx.Save(accessory).Error; err != nil {
		return nil, err
	}
	if err := s.writeAccessoryLog(tx, accessory, entity.InventoryActionAdd, qty, previous, actorID, orderID, notes); err != nil {
		return nil, err
	}
	return accessory, nil
}

func (s *InventoryService) writeAccessoryLog(tx *gorm.DB, accessory *entity.Accessory, action string, qty, previous decimal.Decimal, actorID string, orderID *string, notes string) error {
	log := &entity.InventoryLog{
		ID:            newID(),
		ItemType:      entity.ItemTypeAccessory,
		AccessoryID:   &accessory.ID,
		Action:        action,
		Quantity:      qty,
		PreviousStock: previous,
		NewStock:      accessory.StockQuantity,
		OrderID:       orderID,
		Notes:         notes,
		CreatedBy:     actorID,
		CreatedAt:     time.Now(),
	}
	return s.repos.InventoryLog.CreateTx(tx, log)
}

// === Movement trail ===

func (s *InventoryService) ListLogs(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.InventoryLog, int64, error) {
	return s.repos.InventoryLog.FindAll(ctx, page, pageSize, filters)
}

// LowStockReport lists everything at or below its reorder level.
type LowStockReport struct {
	Fabrics     []entity.Fabric    `json:"fabrics"`
	Accessories []entity.Accessory `json:"accessories"`
}

func (s *InventoryService) LowStock(ctx context.Context) (*LowStockReport, error) {
	fabrics, err := s.repos.Fabric.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	accessories, err := s.repos.Accessory.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return &LowStockReport{Fabrics: fabrics, Accessories: accessories}, nil
}
