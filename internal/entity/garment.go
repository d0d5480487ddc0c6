package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GarmentType is a catalog entry: what the shop can make, how much fabric
// one piece consumes, and which accessories it requires.
type GarmentType struct {
	ID                    string          `json:"id" gorm:"primaryKey;size:32"`
	Name                  string          `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Category              string          `json:"category" gorm:"size:20;default:both"` // upper/lower/both
	EstimatedFabricMeters decimal.Decimal `json:"estimated_fabric_meters" gorm:"type:decimal(10,2);not null"`
	BasePrice             decimal.Decimal `json:"base_price" gorm:"type:decimal(10,2);not null"`
	DefaultTailorID       *string         `json:"default_tailor_id" gorm:"size:32"`
	Description           string          `json:"description" gorm:"type:text"`
	Active                bool            `json:"active" gorm:"default:true"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	DefaultTailor       *User                  `json:"default_tailor,omitempty" gorm:"foreignKey:DefaultTailorID"`
	RequiredAccessories []GarmentTypeAccessory `json:"required_accessories,omitempty" gorm:"foreignKey:GarmentTypeID"`
}

func (GarmentType) TableName() string {
	return "garment_types"
}

// GarmentTypeAccessory is the per-piece accessory requirement of a garment type.
type GarmentTypeAccessory struct {
	ID               string          `json:"id" gorm:"primaryKey;size:32"`
	GarmentTypeID    string          `json:"garment_type_id" gorm:"size:32;not null;uniqueIndex:idx_garment_accessory"`
	AccessoryID      string          `json:"accessory_id" gorm:"size:32;not null;uniqueIndex:idx_garment_accessory"`
	QuantityRequired decimal.Decimal `json:"quantity_required" gorm:"type:decimal(10,2);not null"`

	Accessory *Accessory `json:"accessory,omitempty" gorm:"foreignKey:AccessoryID"`
}

func (GarmentTypeAccessory) TableName() string {
	return "garment_type_accessories"
}

// Garment categories
const (
	GarmentCategoryUpper = "upper"
	GarmentCategoryLower = "lower"
	GarmentCategoryBoth  = "both"
)
