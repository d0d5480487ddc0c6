package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lanzy-lanzy/tailoring/internal/entity"
	"github.com/lanzy-lanzy/tailoring/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService builds the xlsx exports the shop owner downloads.
type ReportService struct {
	repos *repository.Repositories
}

func NewReportService(repos *repository.Repositories) *ReportService {
	return &ReportService{repos: repos}
}

func (s *ReportService) headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, style int, headers []string) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// CommissionSummaryExport totals commissions per tailor.
func (s *ReportService) CommissionSummaryExport(ctx context.Context, actor Actor) (*excelize.File, string, error) {
	if !actor.IsAdmin() {
		return nil, "", ErrForbidden
	}
	rows, err := s.repos.Commission.SummarizeByTailor(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Commissions"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, s.headerStyle(f), []string{
		"Tailor", "Commissions", "Total", "Paid", "Unpaid",
	})

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.TailorName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.TotalCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.TotalAmount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.PaidAmount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.UnpaidAmount.InexactFloat64())
	}

	filename := fmt.Sprintf("commission-summary-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// InventoryLogExport dumps the stock movement trail.
func (s *ReportService) InventoryLogExport(ctx context.Context, actor Actor, filters map[string]string) (*excelize.File, string, error) {
	if !actor.IsAdmin() {
		return nil, "", ErrForbidden
	}
	logs, _, err := s.repos.InventoryLog.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, s.headerStyle(f), []string{
		"Date", "Item", "Type", "Action", "Quantity", "Previous", "New", "Notes",
	})

	for i, log := range logs {
		r := i + 2
		name := ""
		if log.Fabric != nil {
			name = log.Fabric.Name
		} else if log.Accessory != nil {
			name = log.Accessory.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), log.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), log.ItemType)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), log.Action)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), log.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), log.PreviousStock.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), log.NewStock.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", r), log.Notes)
	}

	filename := fmt.Sprintf("inventory-log-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// ProductionExport totals non-cancelled orders per garment type.
func (s *ReportService) ProductionExport(ctx context.Context, actor Actor) (*excelize.File, string, error) {
	if !actor.IsAdmin() {
		return nil, "", ErrForbidden
	}
	rows, err := s.repos.Order.ProductionByGarment(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Production"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, s.headerStyle(f), []string{
		"Garment", "Orders", "Pieces", "Revenue",
	})

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.GarmentName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.OrderCount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), row.TotalPieces)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.TotalRevenue.InexactFloat64())
	}

	filename := fmt.Sprintf("garment-production-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// SalesExport lists completed payments in a date range.
func (s *ReportService) SalesExport(ctx context.Context, actor Actor, from, to string) (*excelize.File, string, error) {
	if !actor.IsAdmin() {
		return nil, "", ErrForbidden
	}
	filters := map[string]string{"status": entity.PaymentStatusCompleted}
	payments, _, err := s.repos.Payment.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", err
	}

	fromDate, toDate := parseDateRange(from, to)

	f := excelize.NewFile()
	sheet := "Sales"
	f.SetSheetName("Sheet1", sheet)
	writeHeaders(f, sheet, s.headerStyle(f), []string{
		"Date", "Payment", "Order", "Customer", "Type", "Method", "Amount",
	})

	r := 2
	for _, p := range payments {
		if p.PaymentDate.Before(fromDate) || !p.PaymentDate.Before(toDate) {
			continue
		}
		orderCode, customer := "", ""
		if p.Order != nil {
			orderCode = p.Order.OrderCode
			if p.Order.Customer != nil {
				customer = p.Order.Customer.Name
			}
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", r), p.PaymentDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", r), p.PaymentCode)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", r), orderCode)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", r), customer)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", r), p.PaymentType)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", r), p.Method)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", r), p.Amount.InexactFloat64())
		r++
	}

	filename := fmt.Sprintf("sales-%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

func parseDateRange(from, to string) (time.Time, time.Time) {
	fromDate := time.Time{}
	toDate := time.Now().AddDate(0, 0, 1)
	if t, err := time.Parse("2006-01-02", from); err == nil {
		fromDate = t
	}
	if t, err := time.Parse("2006-01-02", to); err == nil {
		toDate = t.AddDate(0, 0, 1)
	}
	return fromDate, toDate
}
