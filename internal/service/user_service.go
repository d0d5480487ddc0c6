package service

import (
	"context"
	"fmt"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
)

// UserService manages staff accounts. Admin only.
type UserService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

func (s *UserService) List(ctx context.Context, actor Actor, page, pageSize int, filters map[string]string) ([]entity.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrForbidden
	}
	return s.repos.User.FindAll(ctx, page, pageSize, filters)
}

func (s *UserService) Get(ctx context.Context, actor Actor, id string) (*entity.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, ErrForbidden
	}
	return s.repos.User.FindByID(ctx, id)
}

// ListTailors is open to any staff member; order intake needs it.
func (s *UserService) ListTailors(ctx context.Context) ([]entity.User, error) {
	return s.repos.User.FindActiveTailors(ctx)
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Role     string `json:"role" binding:"required"`
}

func (s *UserService) Create(ctx context.Context, actor Actor, req *CreateUserRequest) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.Role != entity.RoleAdmin && req.Role != entity.RoleTailor {
		return nil, fmt.Errorf("%w: role must be admin or tailor", ErrValidation)
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           newID(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         req.Role,
		Status:       entity.UserStatusActive,
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	Password *string `json:"password"`
}

func (s *UserService) Update(ctx context.Context, actor Actor, id string, req *UpdateUserRequest) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	user, err := s.repos.User.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != entity.RoleAdmin && *req.Role != entity.RoleTailor {
			return nil, fmt.Errorf("%w: role must be admin or tailor", ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		if *req.Status != entity.UserStatusActive && *req.Status != entity.UserStatusInactive {
			return nil, fmt.Errorf("%w: status must be active or inactive", ErrValidation)
		}
		user.Status = *req.Status
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repos.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
