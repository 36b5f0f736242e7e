package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Summary aggregates records per user over a date range
	Summary(ctx context.Context, req SummaryRequest) (SummaryReport, error)

	// Daily lists one day's records and the employees without one
	Daily(ctx context.Context, req DailyRequest) (DailyReport, error)

	// Monthly builds a calendar of one month
	Monthly(ctx context.Context, req MonthlyRequest) (MonthlyReport, error)

	// Trends rolls up records per date over a lookback window
	Trends(ctx context.Context, req TrendRequest) (TrendReport, error)

	// Export flattens records for download
	Export(ctx context.Context, req ExportRequest) (ExportReport, error)
}
