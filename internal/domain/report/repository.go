package report

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// RecordFilter selects records over an inclusive date range.
type RecordFilter struct {
	StartDate time.Time
	EndDate   time.Time
	UserID    *string
}

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// ListRecords returns records in range with user and approver names
	// joined, ordered by date then check-in ascending (missing check-ins
	// last).
	ListRecords(ctx context.Context, filter RecordFilter) ([]attendance.Attendance, error)
}
