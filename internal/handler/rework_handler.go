package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// ReworkHandler handles adjustments and repairs.
type ReworkHandler struct {
	svc *service.ReworkService
}

func NewReworkHandler(svc *service.ReworkService) *ReworkHandler {
	return &ReworkHandler{svc: svc}
}

// List GET /reworks
func (h *ReworkHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "status", "order_id", "reason")
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /reworks/:id
func (h *ReworkHandler) Get(c *gin.Context) {
	rework, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rework)
}

// Create POST /reworks
func (h *ReworkHandler) Create(c *gin.Context) {
	var req service.CreateReworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	rework, err := h.svc.Create(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, rework)
}

// Start POST /reworks/:id/start
func (h *ReworkHandler) Start(c *gin.Context) {
	rework, err := h.svc.Start(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rework)
}

// Complete POST /reworks/:id/complete
func (h *ReworkHandler) Complete(c *gin.Context) {
	rework, err := h.svc.Complete(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rework)
}
