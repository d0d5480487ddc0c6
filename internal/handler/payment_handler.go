package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// PaymentHandler handles payments, pickup settlement and commissions.
type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// List GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "order_id", "payment_type", "status")
	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// Get GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, payment)
}

// Record POST /payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	payment, err := h.svc.RecordPayment(c.Request.Context(), GetActor(c), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, payment)
}

type settleRequest struct {
	Method string `json:"method"`
}

// ProcessClaim POST /claims/:orderId/process
func (h *PaymentHandler) ProcessClaim(c *gin.Context) {
	var req settleRequest
	_ = c.ShouldBindJSON(&req)
	order, err := h.svc.ProcessClaim(c.Request.Context(), GetActor(c), c.Param("orderId"), req.Method)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, order)
}

// ProcessReclaim POST /reclaims/:orderId/process
func (h *PaymentHandler) ProcessReclaim(c *gin.Context) {
	var req settleRequest
	_ = c.ShouldBindJSON(&req)
	order, err := h.svc.ProcessReclaim(c.Request.Context(), GetActor(c), c.Param("orderId"), req.Method)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, order)
}

// === Commissions ===

// ListCommissions GET /commissions
func (h *PaymentHandler) ListCommissions(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := queryFilters(c, "tailor_id", "status")
	items, total, err := h.svc.ListCommissions(c.Request.Context(), GetActor(c), page, pageSize, filters)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, items, page, pageSize, total)
}

// CommissionSummary GET /commissions/summary
func (h *PaymentHandler) CommissionSummary(c *gin.Context) {
	rows, err := h.svc.CommissionSummary(c.Request.Context(), GetActor(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, rows)
}

// PayCommission POST /commissions/:id/pay
func (h *PaymentHandler) PayCommission(c *gin.Context) {
	commission, err := h.svc.PayCommission(c.Request.Context(), GetActor(c), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, commission)
}
