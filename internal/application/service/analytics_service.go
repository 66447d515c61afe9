package service

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/infrastructure/render"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

// monthKeyLayout buckets bills by calendar month of the issue date in UTC
const monthKeyLayout = "2006-01"

// AnalyticsSummary is the all-time bill total of an owner
type AnalyticsSummary struct {
	TotalBills  int64   `json:"totalBills"`
	TotalAmount float64 `json:"totalAmount"`
	TotalTax    float64 `json:"totalTax"`
}

// MonthlyStat is the aggregate of one month bucket
type MonthlyStat struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ReportRenderer renders the monthly report document
type ReportRenderer interface {
	RenderMonthly(ctx context.Context, report *render.MonthlyReport) ([]byte, error)
}

// AnalyticsService folds an owner's bills into summary statistics.
// Every call scans the owner's full bill set.
type AnalyticsService struct {
	billRepo    repository.BillRepository
	companyRepo repository.CompanyRepository
	reports     ReportRenderer
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(billRepo repository.BillRepository, companyRepo repository.CompanyRepository, reports ReportRenderer) *AnalyticsService {
	return &AnalyticsService{
		billRepo:    billRepo,
		companyRepo: companyRepo,
		reports:     reports,
		now:         time.Now,
	}
}

// Summary returns bill count, the sum of rounded totals and the sum of taxes
func (s *AnalyticsService) Summary(ctx context.Context, userID uuid.UUID) (*AnalyticsSummary, error) {
	bills, err := s.billRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &AnalyticsSummary{TotalBills: int64(len(bills))}
	for i := range bills {
		summary.TotalAmount += bills[i].Tax.TotalAfterTax
		summary.TotalTax += bills[i].Tax.TotalTax()
	}
	return summary, nil
}

// Monthly returns per-month totals keyed "YYYY-MM"
func (s *AnalyticsService) Monthly(ctx context.Context, userID uuid.UUID) (map[string]MonthlyStat, error) {
	bills, err := s.billRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	months := make(map[string]MonthlyStat)
	for i := range bills {
		key := bills[i].Date.UTC().Format(monthKeyLayout)
		stat := months[key]
		stat.Total += bills[i].Tax.TotalAfterTax
		stat.Count++
		months[key] = stat
	}
	return months, nil
}

// MonthlyReportPDF renders the monthly statistics as a PDF, oldest month first
func (s *AnalyticsService) MonthlyReportPDF(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	months, err := s.Monthly(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &render.MonthlyReport{
		GeneratedAt: s.now(),
		Rows:        make([]render.MonthlyRow, 0, len(months)),
		TotalBills:  int(summary.TotalBills),
		TotalAmount: summary.TotalAmount,
		TotalTax:    summary.TotalTax,
	}

	company, err := s.companyRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if company != nil {
		report.CompanyName = company.CompanyName
	}

	for month, stat := range months {
		report.Rows = append(report.Rows, render.MonthlyRow{Month: month, Count: stat.Count, Total: stat.Total})
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Month < report.Rows[j].Month })

	out, err := s.reports.RenderMonthly(ctx, report)
	if err != nil {
		return nil, &apperror.AppError{Code: http.StatusInternalServerError, Message: "Failed to generate report", Err: err}
	}
	return out, nil
}
