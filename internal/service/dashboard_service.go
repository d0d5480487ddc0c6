package service

import (
	"context"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/shopspring/decimal"
)

// DashboardService aggregates the landing-page numbers. Admins see the
// whole shop; tailors see their own workload and earnings.
type DashboardService struct {
	repos *repository.Repositories
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// AdminSummary is the shop-wide dashboard.
type AdminSummary struct {
	OrdersByStatus        map[string]int64 `json:"orders_by_status"`
	RevenueThisMonth      decimal.Decimal  `json:"revenue_this_month"`
	LowStockFabrics       int              `json:"low_stock_fabrics"`
	LowStockAccessories   int              `json:"low_stock_accessories"`
	TasksAwaitingApproval int64            `json:"tasks_awaiting_approval"`
	OpenReworks           int64            `json:"open_reworks"`
	UnpaidCommissions     decimal.Decimal  `json:"unpaid_commissions"`
}

// TailorSummary is one tailor's dashboard.
type TailorSummary struct {
	AssignedTasks   int64           `json:"assigned_tasks"`
	TasksInProgress int64           `json:"tasks_in_progress"`
	EarnedTotal     decimal.Decimal `json:"earned_total"`
	UnpaidTotal     decimal.Decimal `json:"unpaid_total"`
}

func (s *DashboardService) AdminDashboard(ctx context.Context, actor Actor) (*AdminSummary, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	counts, err := s.repos.Order.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue, err := s.repos.Payment.RevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	lowFabrics, err := s.repos.Fabric.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	lowAccessories, err := s.repos.Accessory.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	_, pendingApproval, err := s.repos.Task.FindAll(ctx, 1, 1, map[string]string{"status": entity.TaskStatusCompleted})
	if err != nil {
		return nil, err
	}
	_, openReworks, err := s.repos.Rework.FindAll(ctx, 1, 1, map[string]string{"status": entity.ReworkStatusPending})
	if err != nil {
		return nil, err
	}

	summaries, err := s.repos.Commission.SummarizeByTailor(ctx)
	if err != nil {
		return nil, err
	}
	unpaid := decimal.Zero
	for _, row := range summaries {
		unpaid = unpaid.Add(row.UnpaidAmount)
	}

	return &AdminSummary{
		OrdersByStatus:        counts,
		RevenueThisMonth:      revenue,
		LowStockFabrics:       len(lowFabrics),
		LowStockAccessories:   len(lowAccessories),
		TasksAwaitingApproval: pendingApproval,
		OpenReworks:           openReworks,
		UnpaidCommissions:     unpaid,
	}, nil
}

func (s *DashboardService) TailorDashboard(ctx context.Context, actor Actor) (*TailorSummary, error) {
	_, assigned, err := s.repos.Task.FindAll(ctx, 1, 1, map[string]string{
		"tailor_id": actor.ID, "status": entity.TaskStatusAssigned,
	})
	if err != nil {
		return nil, err
	}
	_, inProgress, err := s.repos.Task.FindAll(ctx, 1, 1, map[string]string{
		"tailor_id": actor.ID, "status": entity.TaskStatusInProgress,
	})
	if err != nil {
		return nil, err
	}
	earned, unpaid, err := s.repos.Commission.TotalsForTailor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &TailorSummary{
		AssignedTasks:   assigned,
		TasksInProgress: inProgress,
		EarnedTotal:     earned,
		UnpaidTotal:     unpaid,
	}, nil
}
