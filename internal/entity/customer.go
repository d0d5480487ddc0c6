package entity

import "time"

// Customer is a shop client who places orders.
type Customer struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Name          string    `json:"name" gorm:"size:200;not null;index"`
	ContactNumber string    `json:"contact_number" gorm:"size:20;not null"`
	Email         string    `json:"email" gorm:"size:200"`
	Address       string    `json:"address" gorm:"size:500"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
