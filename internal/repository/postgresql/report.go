package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// ListRecords returns every record of the inclusive range. Aggregation happens
// in the report package so the maths stays unit-testable.
func (r *reportRepositoryImpl) ListRecords(ctx context.Context, filter report.RecordFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := attendanceSelect + ` WHERE a.date >= $1 AND a.date <= $2`
	args := []interface{}{filter.StartDate, filter.EndDate}

	if filter.UserID != nil && *filter.UserID != "" {
		query += ` AND a.user_id = $3`
		args = append(args, *filter.UserID)
	}
	query += ` ORDER BY a.date ASC, a.check_in_time ASC NULLS LAST, u.name ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report records: %w", err)
	}

	records, err := collectAttendances(rows)
	if err != nil {
		return nil, err
	}
	return records, nil
}
