package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
)

// CustomerService manages the client book.
type CustomerService struct {
	repos *repository.Repositories
}

func NewCustomerService(repos *repository.Repositories) *CustomerService {
	return &CustomerService{repos: repos}
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Customer, int64, error) {
	return s.repos.Customer.FindAll(ctx, page, pageSize, filters)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*entity.Customer, error) {
	return s.repos.Customer.FindByID(ctx, id)
}

type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

func (s *CustomerService) Create(ctx context.Context, req *CreateCustomerRequest) (*entity.Customer, error) {
	customer := &entity.Customer{
		ID:            newID(),
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		Notes:         req.Notes,
	}
	if err := s.repos.Customer.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

type UpdateCustomerRequest struct {
	Name          *string `json:"name"`
	ContactNumber *string `json:"contact_number"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
}

func (s *CustomerService) Update(ctx context.Context, id string, req *UpdateCustomerRequest) (*entity.Customer, error) {
	customer, err := s.repos.Customer.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.ContactNumber != nil {
		customer.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	if err := s.repos.Customer.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete refuses while the customer still has orders.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Customer.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return fmt.Errorf("%w: customer has orders on file", ErrInvalidState)
		}
		return err
	}
	return nil
}
