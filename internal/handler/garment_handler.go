package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// GarmentHandler handles the garment catalog.
type GarmentHandler struct {
	svc *service.GarmentService
}

func NewGarmentHandler(svc *service.GarmentService) *GarmentHandler {
	return &GarmentHandler{svc: svc}
}

// List GET /garments
func (h *GarmentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, queryFilters(c, "search", "category", "active"))
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /garments/:id
func (h *GarmentHandler) Get(c *gin.Context) {
	garment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, garment)
}

// Create POST /garments
func (h *GarmentHandler) Create(c *gin.Context) {
	var req service.CreateGarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	garment, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, garment)
}

// Update PUT /garments/:id
func (h *GarmentHandler) Update(c *gin.Context) {
	var req service.UpdateGarmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	garment, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, garment)
}

// Delete DELETE /garments/:id
func (h *GarmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
