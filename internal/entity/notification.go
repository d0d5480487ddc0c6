package entity

import "time"

// Notification is an in-app message for one staff member.
type Notification struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	RecipientID string     `json:"recipient_id" gorm:"size:32;not null;index"`
	SenderID    *string    `json:"sender_id" gorm:"size:32"`
	Type        string     `json:"type" gorm:"size:30;not null"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Message     string     `json:"message" gorm:"type:text"`
	Priority    string     `json:"priority" gorm:"size:10;default:normal"` // low/normal/high
	OrderID     *string    `json:"order_id" gorm:"size:32"`
	TaskID      *string    `json:"task_id" gorm:"size:32"`
	ActionURL   string     `json:"action_url" gorm:"size:500"`
	IsRead      bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt      *time.Time `json:"read_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Notification types
const (
	NotificationTaskAssigned   = "task_assigned"
	NotificationTaskStarted    = "task_started"
	NotificationTaskCompleted  = "task_completed"
	NotificationTaskApproved   = "task_approved"
	NotificationTaskReassigned = "task_reassigned"
	NotificationOrderCreated   = "order_created"
	NotificationOrderCancelled = "order_cancelled"
	NotificationReworkOpened   = "rework_opened"
	NotificationReworkDone     = "rework_completed"
	NotificationLowStock       = "low_stock"
)
