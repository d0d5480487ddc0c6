package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TailoringTask tracks the production of one order through the tailor
// workflow: assigned -> in_progress -> completed -> approved.
type TailoringTask struct {
	ID       string  `json:"id" gorm:"primaryKey;size:32"`
	OrderID  string  `json:"order_id" gorm:"size:32;not null;uniqueIndex"`
	TailorID *string `json:"tailor_id" gorm:"size:32;index"`
	Status   string  `json:"status" gorm:"size:20;default:assigned;index"`

	// Commission terms frozen at assignment; the amount is computed once,
	// when the task is approved.
	CommissionRate   decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);default:10"`
	CommissionAmount decimal.Decimal `json:"commission_amount" gorm:"type:decimal(10,2);default:0"`
	CommissionFinal  bool            `json:"commission_final" gorm:"default:false"`
	CommissionPaid   bool            `json:"commission_paid" gorm:"default:false"`

	AssignedAt  time.Time  `json:"assigned_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	ApprovedBy  *string    `json:"approved_by" gorm:"size:32"`

	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Order  *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Tailor *User  `json:"tailor,omitempty" gorm:"foreignKey:TailorID"`
}

func (TailoringTask) TableName() string {
	return "tailoring_tasks"
}

// Task status
const (
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusApproved   = "approved"
)

// TailorCommission is the payable record created when a tailor claims
// an approved task. At most one commission exists per task; the fields
// snapshot the order so later edits cannot change what is owed.
type TailorCommission struct {
	ID             string `json:"id" gorm:"primaryKey;size:32"`
	CommissionCode string `json:"commission_code" gorm:"size:32;uniqueIndex;not null"`
	TailorID       string `json:"tailor_id" gorm:"size:32;not null;index"`
	TaskID         string `json:"task_id" gorm:"size:32;not null;uniqueIndex"`
	OrderID        string `json:"order_id" gorm:"size:32;not null;index"`

	OrderAmount      decimal.Decimal `json:"order_amount" gorm:"type:decimal(10,2);not null"`
	CommissionRate   decimal.Decimal `json:"commission_rate" gorm:"type:decimal(5,2);not null"`
	CommissionAmount decimal.Decimal `json:"commission_amount" gorm:"type:decimal(10,2);not null"`

	// Order snapshot
	GarmentType  string `json:"garment_type" gorm:"size:200"`
	Quantity     int    `json:"quantity" gorm:"default:1"`
	CustomerName string `json:"customer_name" gorm:"size:200"`

	Status     string     `json:"status" gorm:"size:20;default:credited;index"`
	EarnedAt   time.Time  `json:"earned_at"`
	CreditedAt *time.Time `json:"credited_at"`
	PaidAt     *time.Time `json:"paid_at"`
	Notes      string     `json:"notes" gorm:"size:500"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Tailor *User          `json:"tailor,omitempty" gorm:"foreignKey:TailorID"`
	Task   *TailoringTask `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

func (TailorCommission) TableName() string {
	return "tailor_commissions"
}

// Commission status
const (
	CommissionStatusCredited = "credited"
	CommissionStatusPaid     = "paid"
)
