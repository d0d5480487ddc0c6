package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rework is an adjustment or repair requested after an order was made.
// Opening one puts the order back into for_adjustment.
type Rework struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	ReworkCode string `json:"rework_code" gorm:"size:32;uniqueIndex;not null"`
	OrderID    string `json:"order_id" gorm:"size:32;not null;index"`

	// Order snapshot at the time the rework was opened.
	OriginalGarmentType  string `json:"original_garment_type" gorm:"size:200"`
	OriginalCustomerName string `json:"original_customer_name" gorm:"size:200"`

	Reason            string `json:"reason" gorm:"size:30;not null"` // size_issue/damage/customer_request/quality_issue/other
	ReasonDescription string `json:"reason_description" gorm:"type:text"`

	ChargeType     string          `json:"charge_type" gorm:"size:10;default:free"` // free/paid
	AdditionalCost decimal.Decimal `json:"additional_cost" gorm:"type:decimal(10,2);default:0"`

	FabricID         *string         `json:"fabric_id" gorm:"size:32"`
	FabricMetersUsed decimal.Decimal `json:"fabric_meters_used" gorm:"type:decimal(10,2);default:0"`

	Status      string     `json:"status" gorm:"size:20;default:pending;index"`
	AssignedTo  *string    `json:"assigned_to" gorm:"size:32"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Order     *Order           `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Fabric    *Fabric          `json:"fabric,omitempty" gorm:"foreignKey:FabricID"`
	Tailor    *User            `json:"tailor,omitempty" gorm:"foreignKey:AssignedTo"`
	Materials []ReworkMaterial `json:"materials,omitempty" gorm:"foreignKey:ReworkID"`
}

func (Rework) TableName() string {
	return "reworks"
}

// ReworkMaterial is an accessory consumed by a rework.
type ReworkMaterial struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	ReworkID     string          `json:"rework_id" gorm:"size:32;not null;index"`
	AccessoryID  string          `json:"accessory_id" gorm:"size:32;not null"`
	QuantityUsed decimal.Decimal `json:"quantity_used" gorm:"type:decimal(10,2);not null"`

	Accessory *Accessory `json:"accessory,omitempty" gorm:"foreignKey:AccessoryID"`
}

func (ReworkMaterial) TableName() string {
	return "rework_materials"
}

// Rework reasons
const (
	ReworkReasonSizeIssue       = "size_issue"
	ReworkReasonDamage          = "damage"
	ReworkReasonCustomerRequest = "customer_request"
	ReworkReasonQualityIssue    = "quality_issue"
	ReworkReasonOther           = "other"
)

// Rework charge types
const (
	ReworkChargeFree = "free"
	ReworkChargePaid = "paid"
)

// Rework status
const (
	ReworkStatusPending    = "pending"
	ReworkStatusInProgress = "in_progress"
	ReworkStatusCompleted  = "completed"
)
