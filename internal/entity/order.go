package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer's garment order. Creation deducts fabric and
// accessory stock, opens a tailoring task and records the deposit,
// all in one transaction.
type Order struct {
	ID                  string          `json:"id" gorm:"primaryKey;size:32"`
	OrderCode           string          `json:"order_code" gorm:"size:32;uniqueIndex;not null"`
	CustomerID          string          `json:"customer_id" gorm:"size:32;not null;index"`
	GarmentTypeID       string          `json:"garment_type_id" gorm:"size:32;not null;index"`
	FabricID            string          `json:"fabric_id" gorm:"size:32;not null;index"`
	Quantity            int             `json:"quantity" gorm:"not null;default:1"`
	FabricMetersUsed    decimal.Decimal `json:"fabric_meters_used" gorm:"type:decimal(10,2);not null"`
	Measurements        JSONB           `json:"measurements" gorm:"type:jsonb"`
	SpecialInstructions string          `json:"special_instructions" gorm:"type:text"`

	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	DepositAmount decimal.Decimal `json:"deposit_amount" gorm:"type:decimal(10,2);default:0"`

	Status        string     `json:"status" gorm:"size:20;default:pending;index"`
	DueDate       *time.Time `json:"due_date"`
	CompletedDate *time.Time `json:"completed_date"`
	DeliveredDate *time.Time `json:"delivered_date"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Customer    *Customer        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	GarmentType *GarmentType     `json:"garment_type,omitempty" gorm:"foreignKey:GarmentTypeID"`
	Fabric      *Fabric          `json:"fabric,omitempty" gorm:"foreignKey:FabricID"`
	Accessories []OrderAccessory `json:"accessories,omitempty" gorm:"foreignKey:OrderID"`
	Payments    []Payment        `json:"payments,omitempty" gorm:"foreignKey:OrderID"`
	Task        *TailoringTask   `json:"task,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// Order status
const (
	OrderStatusPending         = "pending"
	OrderStatusInProgress      = "in_progress"
	OrderStatusCompleted       = "completed"
	OrderStatusDelivered       = "delivered"
	OrderStatusForAdjustment   = "for_adjustment"
	OrderStatusReadyForReclaim = "ready_for_reclaim"
	OrderStatusCancelled       = "cancelled"
)

// OrderAccessory snapshots the accessories consumed by an order.
// QuantityUsed is the total for the whole order, not per piece.
type OrderAccessory struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	OrderID      string          `json:"order_id" gorm:"size:32;not null;uniqueIndex:idx_order_accessory"`
	AccessoryID  string          `json:"accessory_id" gorm:"size:32;not null;uniqueIndex:idx_order_accessory"`
	QuantityUsed decimal.Decimal `json:"quantity_used" gorm:"type:decimal(10,2);not null"`

	Accessory *Accessory `json:"accessory,omitempty" gorm:"foreignKey:AccessoryID"`
}

func (OrderAccessory) TableName() string {
	return "order_accessories"
}
