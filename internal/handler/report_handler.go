package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/service"
	"github.com/xuri/excelize/v2"
)

// ReportHandler streams xlsx exports.
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func writeExcel(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// CommissionSummary GET /reports/commissions
func (h *ReportHandler) CommissionSummary(c *gin.Context) {
	f, filename, err := h.svc.CommissionSummaryExport(c.Request.Context(), GetActor(c))
	if err != nil {
		Fail(c, err)
		return
	}
	writeExcel(c, f, filename)
}

// InventoryLogs GET /reports/inventory-logs
func (h *ReportHandler) InventoryLogs(c *gin.Context) {
	filters := queryFilters(c, "item_type", "action", "from", "to")
	f, filename, err := h.svc.InventoryLogExport(c.Request.Context(), GetActor(c), filters)
	if err != nil {
		Fail(c, err)
		return
	}
	writeExcel(c, f, filename)
}

// Production GET /reports/production
func (h *ReportHandler) Production(c *gin.Context) {
	f, filename, err := h.svc.ProductionExport(c.Request.Context(), GetActor(c))
	if err != nil {
		Fail(c, err)
		return
	}
	writeExcel(c, f, filename)
}

// Sales GET /reports/sales
func (h *ReportHandler) Sales(c *gin.Context) {
	f, filename, err := h.svc.SalesExport(c.Request.Context(), GetActor(c), c.Query("from"), c.Query("to"))
	if err != nil {
		Fail(c, err)
		return
	}
	writeExcel(c, f, filename)
}
