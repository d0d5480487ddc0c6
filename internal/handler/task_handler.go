package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// TaskHandler handles the tailoring workflow.
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "tailor_id", "status")
	items, total, err := h.svc.List(c.Request.Context(), GetActor(c), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, task)
}

// Start POST /tasks/:id/start
func (h *TaskHandler) Start(c *gin.Context) {
	task, err := h.svc.Start(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, task)
}

// Complete POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	task, err := h.svc.Complete(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, task)
}

// Approve POST /tasks/:id/approve
func (h *TaskHandler) Approve(c *gin.Context) {
	task, err := h.svc.Approve(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, task)
}

// Reassign POST /tasks/:id/reassign
func (h *TaskHandler) Reassign(c *gin.Context) {
	var req struct {
		TailorID string `json:"tailor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	task, err := h.svc.Reassign(c.Request.Context(), GetActor(c), c.Param("id"), req.TailorID)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, task)
}

// ClaimCommission POST /tasks/:id/claim-commission
func (h *TaskHandler) ClaimCommission(c *gin.Context) {
	commission, err := h.svc.ClaimCommission(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, commission)
}
