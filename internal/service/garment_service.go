package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/shopspring/decimal"
)

// GarmentService manages the garment catalog.
type GarmentService struct {
	repos *repository.Repositories
}

func NewGarmentService(repos *repository.Repositories) *GarmentService {
	return &GarmentService{repos: repos}
}

func (s *GarmentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.GarmentType, int64, error) {
	return s.repos.Garment.FindAll(ctx, page, pageSize, filters)
}

func (s *GarmentService) Get(ctx context.Context, id string) (*entity.GarmentType, error) {
	return s.repos.Garment.FindByID(ctx, id)
}

// GarmentAccessoryRequest is one accessory requirement per piece.
type GarmentAccessoryRequest struct {
	AccessoryID      string          `json:"accessory_id" binding:"required"`
	QuantityRequired decimal.Decimal `json:"quantity_required" binding:"required"`
}

type CreateGarmentRequest struct {
	Name                  string                    `json:"name" binding:"required"`
	Category              string                    `json:"category"`
	EstimatedFabricMeters decimal.Decimal           `json:"estimated_fabric_meters" binding:"required"`
	BasePrice             decimal.Decimal           `json:"base_price" binding:"required"`
	DefaultTailorID       *string                   `json:"default_tailor_id"`
	Description           string                    `json:"description"`
	RequiredAccessories   []GarmentAccessoryRequest `json:"required_accessories"`
}

func (s *GarmentService) Create(ctx context.Context, req *CreateGarmentRequest) (*entity.GarmentType, error) {
	if !req.EstimatedFabricMeters.IsPositive() {
		return nil, fmt.Errorf("%w: estimated_fabric_meters must be positive", ErrValidation)
	}
	if req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: base_price cannot be negative", ErrValidation)
	}
	if req.Category == "" {
		req.Category = entity.GarmentCategoryBoth
	}
	if err := s.validateTailor(ctx, req.DefaultTailorID); err != nil {
		return nil, err
	}

	garment := &entity.GarmentType{
		ID:                    newID(),
		Name:                  req.Name,
		Category:              req.Category,
		EstimatedFabricMeters: req.EstimatedFabricMeters,
		BasePrice:             req.BasePrice,
		DefaultTailorID:       req.DefaultTailorID,
		Description:           req.Description,
		Active:                true,
	}
	for _, ra := range req.RequiredAccessories {
		if !ra.QuantityRequired.IsPositive() {
			return nil, fmt.Errorf("%w: accessory %s quantity_required must be positive", ErrValidation, ra.AccessoryID)
		}
		if _, err := s.repos.Accessory.FindByID(ctx, ra.AccessoryID); err != nil {
			return nil, fmt.Errorf("accessory %s: %w", ra.AccessoryID, err)
		}
		garment.RequiredAccessories = append(garment.RequiredAccessories, entity.GarmentTypeAccessory{
			ID:               newID(),
			GarmentTypeID:    garment.ID,
			AccessoryID:      ra.AccessoryID,
			QuantityRequired: ra.QuantityRequired,
		})
	}

	if err := s.repos.Garment.Create(ctx, garment); err != nil {
		return nil, err
	}
	return s.repos.Garment.FindByID(ctx, garment.ID)
}

type UpdateGarmentRequest struct {
	Name                  *string                   `json:"name"`
	Category              *string                   `json:"category"`
	EstimatedFabricMeters *decimal.Decimal          `json:"estimated_fabric_meters"`
	BasePrice             *decimal.Decimal          `json:"base_price"`
	DefaultTailorID       *string                   `json:"default_tailor_id"`
	Description           *string                   `json:"description"`
	Active                *bool                     `json:"active"`
	RequiredAccessories   []GarmentAccessoryRequest `json:"required_accessories"`
}

func (s *GarmentService) Update(ctx context.Context, id string, req *UpdateGarmentRequest) (*entity.GarmentType, error) {
	garment, err := s.repos.Garment.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		garment.Name = *req.Name
	}
	if req.Category != nil {
		garment.Category = *req.Category
	}
	if req.EstimatedFabricMeters != nil {
		if !req.EstimatedFabricMeters.IsPositive() {
			return nil, fmt.Errorf("%w: estimated_fabric_meters must be positive", ErrValidation)
		}
		garment.EstimatedFabricMeters = *req.EstimatedFabricMeters
	}
	if req.BasePrice != nil {
		garment.BasePrice = *req.BasePrice
	}
	if req.DefaultTailorID != nil {
		if *req.DefaultTailorID == "" {
			garment.DefaultTailorID = nil
		} else {
			if err := s.validateTailor(ctx, req.DefaultTailorID); err != nil {
				return nil, err
			}
			garment.DefaultTailorID = req.DefaultTailorID
		}
	}
	if req.Description != nil {
		garment.Description = *req.Description
	}
	if req.Active != nil {
		garment.Active = *req.Active
	}

	garment.RequiredAccessories = nil
	garment.DefaultTailor = nil
	if err := s.repos.Garment.Update(ctx, garment); err != nil {
		return nil, err
	}

	if req.RequiredAccessories != nil {
		accessories := make([]entity.GarmentTypeAccessory, 0, len(req.RequiredAccessories))
		for _, ra := range req.RequiredAccessories {
			if !ra.QuantityRequired.IsPositive() {
				return nil, fmt.Errorf("%w: accessory %s quantity_required must be positive", ErrValidation, ra.AccessoryID)
			}
			if _, err := s.repos.Accessory.FindByID(ctx, ra.AccessoryID); err != nil {
				return nil, fmt.Errorf("accessory %s: %w", ra.AccessoryID, err)
			}
			accessories = append(accessories, entity.GarmentTypeAccessory{
				ID:               newID(),
				GarmentTypeID:    garment.ID,
				AccessoryID:      ra.AccessoryID,
				QuantityRequired: ra.QuantityRequired,
			})
		}
		if err := s.repos.Garment.ReplaceAccessories(ctx, garment.ID, accessories); err != nil {
			return nil, err
		}
	}

	return s.repos.Garment.FindByID(ctx, garment.ID)
}

func (s *GarmentService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Garment.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return fmt.Errorf("%w: garment type has orders on file", ErrInvalidState)
		}
		return err
	}
	return nil
}

func (s *GarmentService) validateTailor(ctx context.Context, tailorID *string) error {
	if tailorID == nil || *tailorID == "" {
		return nil
	}
	tailor, err := s.repos.User.FindByID(ctx, *tailorID)
	if err != nil {
		return fmt.Errorf("default tailor: %w", err)
	}
	if tailor.Role != entity.RoleTailor {
		return fmt.Errorf("%w: user %s is not a tailor", ErrValidation, tailor.Name)
	}
	return nil
}
