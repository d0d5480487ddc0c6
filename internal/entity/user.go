package entity

import "time"

// User is a staff account. Role decides what the account may do:
// admins run the shop, tailors work tasks assigned to them.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:100;not null"`
	Name         string    `json:"name" gorm:"size:200;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	Email        string    `json:"email" gorm:"size:200"`
	Role         string    `json:"role" gorm:"size:20;not null;index"` // admin/tailor
	Status       string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Roles
const (
	RoleAdmin  = "admin"
	RoleTailor = "tailor"
)

// User status
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)
