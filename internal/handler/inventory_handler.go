package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles fabrics, accessories and the movement trail.
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// stockRequest is the body for add/adjust stock endpoints.
type stockRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Notes    string          `json:"notes"`
}

// === Fabrics ===

// ListFabrics GET /fabrics
func (h *InventoryHandler) ListFabrics(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListFabrics(c.Request.Context(), page, pageSize, queryFilters(c, "search", "low_stock"))
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// GetFabric GET /fabrics/:id
func (h *InventoryHandler) GetFabric(c *gin.Context) {
	fabric, err := h.svc.GetFabric(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, fabric)
}

// CreateFabric POST /fabrics
func (h *InventoryHandler) CreateFabric(c *gin.Context) {
	var req service.CreateFabricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	fabric, err := h.svc.CreateFabric(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, fabric)
}

// UpdateFabric PUT /fabrics/:id
func (h *InventoryHandler) UpdateFabric(c *gin.Context) {
	var req service.UpdateFabricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	fabric, err := h.svc.UpdateFabric(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, fabric)
}

// DeleteFabric DELETE /fabrics/:id
func (h *InventoryHandler) DeleteFabric(c *gin.Context) {
	if err := h.svc.DeleteFabric(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// AddFabricStock POST /fabrics/:id/add-stock
func (h *InventoryHandler) AddFabricStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	fabric, err := h.svc.AddFabricStock(c.Request.Context(), GetActor(c), c.Param("id"), req.Quantity, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, fabric)
}

// AdjustFabricStock POST /fabrics/:id/adjust-stock
func (h *InventoryHandler) AdjustFabricStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	fabric, err := h.svc.AdjustFabricStock(c.Request.Context(), GetActor(c), c.Param("id"), req.Quantity, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, fabric)
}

// === Accessories ===

// ListAccessories GET /accessories
func (h *InventoryHandler) ListAccessories(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListAccessories(c.Request.Context(), page, pageSize, queryFilters(c, "search", "low_stock"))
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// GetAccessory GET /accessories/:id
func (h *InventoryHandler) GetAccessory(c *gin.Context) {
	accessory, err := h.svc.GetAccessory(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, accessory)
}

// CreateAccessory POST /accessories
func (h *InventoryHandler) CreateAccessory(c *gin.Context) {
	var req service.CreateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	accessory, err := h.svc.CreateAccessory(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, accessory)
}

// UpdateAccessory PUT /accessories/:id
func (h *InventoryHandler) UpdateAccessory(c *gin.Context) {
	var req service.UpdateAccessoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	accessory, err := h.svc.UpdateAccessory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, accessory)
}

// DeleteAccessory DELETE /accessories/:id
func (h *InventoryHandler) DeleteAccessory(c *gin.Context) {
	if err := h.svc.DeleteAccessory(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}

// AddAccessoryStock POST /accessories/:id/add-stock
func (h *InventoryHandler) AddAccessoryStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	accessory, err := h.svc.AddAccessoryStock(c.Request.Context(), GetActor(c), c.Param("id"), req.Quantity, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, accessory)
}

// AdjustAccessoryStock POST /accessories/:id/adjust-stock
func (h *InventoryHandler) AdjustAccessoryStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	accessory, err := h.svc.AdjustAccessoryStock(c.Request.Context(), GetActor(c), c.Param("id"), req.Quantity, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, accessory)
}

// === Movement trail ===

// ListLogs GET /inventory/logs
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "item_type", "fabric_id", "accessory_id", "order_id", "action", "from", "to")
	items, total, err := h.svc.ListLogs(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// LowStock GET /inventory/low-stock
func (h *InventoryHandler) LowStock(c *gin.Context) {
	report, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, report)
}
