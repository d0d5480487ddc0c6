package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// OrderHandler handles order intake and lifecycle.
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "status", "customer_id", "garment_type_id", "search")
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	detail, err := h.svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, detail)
}

// Create POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Create(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, order)
}

// Update PUT /orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), GetActor(c), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, order)
}

// Cancel POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional.
	_ = c.ShouldBindJSON(&req)
	order, err := h.svc.Cancel(c.Request.Context(), GetActor(c), c.Param("id"), req.Reason)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, order)
}

// ReadyForClaim GET /claims
func (h *OrderHandler) ReadyForClaim(c *gin.Context) {
	orders, err := h.svc.ReadyForClaim(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, orders)
}

// ReadyForReclaim GET /reclaims
func (h *OrderHandler) ReadyForReclaim(c *gin.Context) {
	orders, err := h.svc.ReadyForReclaim(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, orders)
}
