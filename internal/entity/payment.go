package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received against an order. Only completed payments
// count toward the paid total.
type Payment struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"`
	PaymentCode string          `json:"payment_code" gorm:"size:32;uniqueIndex;not null"`
	OrderID     string          `json:"order_id" gorm:"size:32;not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentType string          `json:"payment_type" gorm:"size:20;not null"` // deposit/balance/full
	Method      string          `json:"method" gorm:"size:20;default:cash"`
	Status      string          `json:"status" gorm:"size:20;default:completed;index"`
	Notes       string          `json:"notes" gorm:"size:500"`
	ReceivedBy  string          `json:"received_by" gorm:"size:32"`
	PaymentDate time.Time       `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

func (Payment) TableName() string {
	return "payments"
}

// Payment types
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeBalance = "balance"
	PaymentTypeFull    = "full"
)

// Payment status
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusCancelled = "cancelled"
)

// Payment standing of an order, derived from completed payments.
const (
	OrderPaymentUnpaid  = "unpaid"
	OrderPaymentPartial = "partial"
	OrderPaymentPaid    = "paid"
)
