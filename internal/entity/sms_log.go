package entity

import "time"

// SMSLog records every outbound SMS attempt with the gateway's
// verbatim response, sent or not.
type SMSLog struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	CustomerID  *string    `json:"customer_id" gorm:"size:32;index"`
	OrderID     *string    `json:"order_id" gorm:"size:32;index"`
	PhoneNumber string     `json:"phone_number" gorm:"size:20;not null"`
	Message     string     `json:"message" gorm:"type:text;not null"`
	Status      string     `json:"status" gorm:"size:20;default:pending;index"`
	Response    string     `json:"response" gorm:"type:text"`
	SentAt      *time.Time `json:"sent_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (SMSLog) TableName() string {
	return "sms_logs"
}

// SMS status
const (
	SMSStatusPending = "pending"
	SMSStatusSent    = "sent"
	SMSStatusFailed  = "failed"
)
