package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// UserHandler handles staff account management.
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "role", "status", "search")
	users, total, err := h.svc.List(c.Request.Context(), GetActor(c), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, users, page, pageSize, total)
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, user)
}

// ListTailors GET /users/tailors
func (h *UserHandler) ListTailors(c *gin.Context) {
	tailors, err := h.svc.ListTailors(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, tailors)
}

// Create POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.Create(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, user)
}

// Update PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	user, err := h.svc.Update(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, user)
}
