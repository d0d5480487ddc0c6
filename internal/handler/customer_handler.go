package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// CustomerHandler handles the client book.
type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, queryFilters(c, "search"))
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, customer)
}

// Create POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, customer)
}

// Update PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, customer)
}

// Delete DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
