package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrInUse is returned when deleting a record that other records
	// still reference.
	ErrInUse = errors.New("record is still referenced")
)

// Repositories is the shared repository set.
type Repositories struct {
	User         *UserRepository
	Customer     *CustomerRepository
	Fabric       *FabricRepository
	Accessory    *AccessoryRepository
	InventoryLog *InventoryLogRepository
	Garment      *GarmentRepository
	Order        *OrderRepository
	Task         *TaskRepository
	Commission   *CommissionRepository
	Payment      *PaymentRepository
	Rework       *ReworkRepository
	Notification *NotificationRepository
	SMSLog       *SMSLogRepository
}

// NewRepositories creates the repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Customer:     NewCustomerRepository(db),
		Fabric:       NewFabricRepository(db),
		Accessory:    NewAccessoryRepository(db),
		InventoryLog: NewInventoryLogRepository(db),
		Garment:      NewGarmentRepository(db),
		Order:        NewOrderRepository(db),
		Task:         NewTaskRepository(db),
		Commission:   NewCommissionRepository(db),
		Payment:      NewPaymentRepository(db),
		Rework:       NewReworkRepository(db),
		Notification: NewNotificationRepository(db),
		SMSLog:       NewSMSLogRepository(db),
	}
}
