package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	userRepo   user.UserRepository
	cache      cache.Cache
	clock      clock.Clock
	loc        *time.Location
}

func NewReportService(
	reportRepo report.ReportRepository,
	userRepo user.UserRepository,
	reportCache cache.Cache,
	clk clock.Clock,
	loc *time.Location,
) report.ReportService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		cache:      reportCache,
		clock:      clk,
		loc:        loc,
	}
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, req report.SummaryRequest) (report.SummaryReport, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return report.SummaryReport{}, err
	}
	if err := req.Validate(); err != nil {
		return report.SummaryReport{}, err
	}
	req.UserID = p.ScopeUserID(req.UserID)
	start, end := req.Range()

	return cache.Remember(ctx, s.cache, req.CacheKey(), func() (report.SummaryReport, error) {
		records, err := s.reportRepo.ListRecords(ctx, report.RecordFilter{StartDate: start, EndDate: end, UserID: req.UserID})
		if err != nil {
			return report.SummaryReport{}, fmt.Errorf("failed to get summary records: %w", err)
		}
		return report.BuildSummary(start, end, records), nil
	})
}

// Daily implements report.ReportService.
func (s *ReportServiceImpl) Daily(ctx context.Context, req report.DailyRequest) (report.DailyReport, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return report.DailyReport{}, err
	}
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}
	req.UserID = p.ScopeUserID(nil)
	day := req.Day()

	return cache.Remember(ctx, s.cache, req.CacheKey(), func() (report.DailyReport, error) {
		records, err := s.reportRepo.ListRecords(ctx, report.RecordFilter{StartDate: day, EndDate: day, UserID: req.UserID})
		if err != nil {
			return report.DailyReport{}, fmt.Errorf("failed to get daily records: %w", err)
		}
		employees, err := s.userRepo.ListActiveEmployees(ctx, req.UserID)
		if err != nil {
			return report.DailyReport{}, fmt.Errorf("failed to get active employees: %w", err)
		}
		return report.BuildDaily(day, records, employees), nil
	})
}

// Monthly implements report.ReportService.
func (s *ReportServiceImpl) Monthly(ctx context.Context, req report.MonthlyRequest) (report.MonthlyReport, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return report.MonthlyReport{}, err
	}
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}
	req.UserID = p.ScopeUserID(req.UserID)

	return cache.Remember(ctx, s.cache, req.CacheKey(), func() (report.MonthlyReport, error) {
		start, end := report.MonthBounds(req.Year, req.Month, s.loc)
		records, err := s.reportRepo.ListRecords(ctx, report.RecordFilter{StartDate: start, EndDate: end, UserID: req.UserID})
		if err != nil {
			return report.MonthlyReport{}, fmt.Errorf("failed to get monthly records: %w", err)
		}
		return report.BuildMonthly(req.Year, req.Month, s.loc, records), nil
	})
}

// Trends implements report.ReportService.
func (s *ReportServiceImpl) Trends(ctx context.Context, req report.TrendRequest) (report.TrendReport, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return report.TrendReport{}, err
	}
	if err := req.Validate(); err != nil {
		return report.TrendReport{}, err
	}
	req.UserID = p.ScopeUserID(req.UserID)

	now := s.clock.Now()
	period := report.TrendPeriod(req.Period)
	start, end, err := report.WindowFor(period, now)
	if err != nil {
		return report.TrendReport{}, err
	}

	return cache.Remember(ctx, s.cache, req.CacheKey(now), func() (report.TrendReport, error) {
		records, err := s.reportRepo.ListRecords(ctx, report.RecordFilter{StartDate: start, EndDate: end, UserID: req.UserID})
		if err != nil {
			return report.TrendReport{}, fmt.Errorf("failed to get trend records: %w", err)
		}
		employees, err := s.userRepo.ListActiveEmployees(ctx, req.UserID)
		if err != nil {
			return report.TrendReport{}, fmt.Errorf("failed to get active employees: %w", err)
		}
		return report.BuildTrend(period, start, end, records, len(employees)), nil
	})
}

// Export implements report.ReportService. Exports are not cached; the
// rendered file is built from fresh rows on every call.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportReport, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return report.ExportReport{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ExportReport{}, err
	}
	req.UserID = p.ScopeUserID(req.UserID)
	start, end := req.Range()

	records, err := s.reportRepo.ListRecords(ctx, report.RecordFilter{StartDate: start, EndDate: end, UserID: req.UserID})
	if err != nil {
		return report.ExportReport{}, fmt.Errorf("failed to get export records: %w", err)
	}

	rows := report.BuildExportRows(records)
	return report.ExportReport{
		Period: report.Period{
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			TotalDays: report.InclusiveDays(start, end),
		},
		Format:         req.Format,
		TotalRecords:   len(rows),
		AttendanceData: rows,
	}, nil
}
