package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fabric is a bolt of material tracked in meters.
type Fabric struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	Name          string          `json:"name" gorm:"size:200;not null;index"`
	Color         string          `json:"color" gorm:"size:50"`
	StockMeters   decimal.Decimal `json:"stock_meters" gorm:"type:decimal(10,2);default:0"`
	PricePerMeter decimal.Decimal `json:"price_per_meter" gorm:"type:decimal(10,2);default:0"`
	ReorderLevel  decimal.Decimal `json:"reorder_level" gorm:"type:decimal(10,2);default:5"`
	Description   string          `json:"description" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Fabric) TableName() string {
	return "fabrics"
}

// Accessory is a countable supply (buttons, zippers, thread).
type Accessory struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	Name          string          `json:"name" gorm:"size:200;not null;index"`
	Unit          string          `json:"unit" gorm:"size:20;default:pcs"`
	StockQuantity decimal.Decimal `json:"stock_quantity" gorm:"type:decimal(10,2);default:0"`
	PricePerUnit  decimal.Decimal `json:"price_per_unit" gorm:"type:decimal(10,2);default:0"`
	ReorderLevel  decimal.Decimal `json:"reorder_level" gorm:"type:decimal(10,2);default:10"`
	Description   string          `json:"description" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Accessory) TableName() string {
	return "accessories"
}

// InventoryLog records a single stock movement. Every change to fabric or
// accessory stock writes exactly one row here, in the same transaction.
type InventoryLog struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	ItemType      string          `json:"item_type" gorm:"size:20;not null;index"` // fabric/accessory
	FabricID      *string         `json:"fabric_id" gorm:"size:32;index"`
	AccessoryID   *string         `json:"accessory_id" gorm:"size:32;index"`
	Action        string          `json:"action" gorm:"size:20;not null"` // add/deduct/adjust
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:decimal(10,2);not null"`
	PreviousStock decimal.Decimal `json:"previous_stock" gorm:"type:decimal(10,2);not null"`
	NewStock      decimal.Decimal `json:"new_stock" gorm:"type:decimal(10,2);not null"`
	OrderID       *string         `json:"order_id" gorm:"size:32;index"`
	ReworkID      *string         `json:"rework_id" gorm:"size:32"`
	Notes         string          `json:"notes" gorm:"size:500"`
	CreatedBy     string          `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time       `json:"created_at"`

	Fabric    *Fabric    `json:"fabric,omitempty" gorm:"foreignKey:FabricID"`
	Accessory *Accessory `json:"accessory,omitempty" gorm:"foreignKey:AccessoryID"`
}

func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// Inventory item types
const (
	ItemTypeFabric    = "fabric"
	ItemTypeAccessory = "accessory"
)

// Inventory actions
const (
	InventoryActionAdd    = "add"
	InventoryActionDeduct = "deduct"
	InventoryActionAdjust = "adjust"
)
