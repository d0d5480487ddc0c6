package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lanzy-lanzy/tailoring/internal/entity"
)

// Domain errors surfaced to handlers.
var (
	ErrForbidden         = errors.New("operation not allowed for this user")
	ErrInvalidState      = errors.New("invalid state for this operation")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
)

// Actor is the authenticated principal performing an operation.
// Handlers build it from the JWT claims; services decide from the
// role alone, never from who sent the request.
type Actor struct {
	ID   string
	Name string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

func (a Actor) IsTailor() bool {
	return a.Role == entity.RoleTailor
}

func newID() string {
	return uuid.New().String()[:32]
}
