package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/service"
)

// DashboardHandler serves the landing-page summaries.
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary GET /dashboard
// Admins get the shop-wide overview, tailors get their own workload.
func (h *DashboardHandler) Summary(c *gin.Context) {
	actor := GetActor(c)
	if actor.Role == entity.RoleTailor {
		summary, err := h.svc.TailorDashboard(c.Request.Context(), actor)
		if err != nil {
			Fail(c, err)
			return
		}
		Success(c, summary)
		return
	}
	summary, err := h.svc.AdminDashboard(c.Request.Context(), actor)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, summary)
}
