package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

func validateUserID(errs *validator.ValidationErrors, userID *string) {
	if userID != nil && !validator.IsValidUUID(*userID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}
}

func userKey(userID *string) string {
	if userID == nil {
		return "all"
	}
	return *userID
}

type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
}

// ========================================
// SUMMARY REPORT
// ========================================

type SummaryRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UserID    *string `json:"user_id,omitempty"`

	start, end time.Time
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	r.start, r.end = validator.ValidateDateRange(&errs, r.StartDate, r.EndDate)
	validateUserID(&errs, r.UserID)
	return errs.Err()
}

// Range returns the validated inclusive bounds.
func (r SummaryRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

func (r SummaryRequest) CacheKey() string {
	return fmt.Sprintf("summary:%s:%s:%s", r.StartDate, r.EndDate, userKey(r.UserID))
}

type SummaryStatistics struct {
	TotalDays        int     `json:"total_days"`
	PresentDays      int     `json:"present_days"`
	LateDays         int     `json:"late_days"`
	PartialDays      int     `json:"partial_days"`
	AbsentDays       int     `json:"absent_days"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
	ApprovedRecords  int     `json:"approved_records"`
	PendingRecords   int     `json:"pending_records"`
}

type UserSummary struct {
	User       attendance.UserRef `json:"user"`
	Statistics SummaryStatistics  `json:"statistics"`
}

type SummaryReport struct {
	Period  Period        `json:"period"`
	Summary []UserSummary `json:"summary"`
}

// ========================================
// DAILY REPORT
// ========================================

type DailyRequest struct {
	Date   string  `json:"date"`
	UserID *string `json:"-"`

	date time.Time
}

func (r *DailyRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.date = d
	}
	return errs.Err()
}

func (r DailyRequest) Day() time.Time {
	return r.date
}

func (r DailyRequest) CacheKey() string {
	return fmt.Sprintf("daily:%s:%s", r.Date, userKey(r.UserID))
}

type DailyStatistics struct {
	TotalEmployees   int     `json:"total_employees"`
	Present          int     `json:"present"`
	Absent           int     `json:"absent"`
	Late             int     `json:"late"`
	OnTime           int     `json:"on_time"`
	Partial          int     `json:"partial"`
	TotalWorkHours   float64 `json:"total_work_hours"`
	AverageWorkHours float64 `json:"average_work_hours"`
}

type DailyReport struct {
	Date              string                          `json:"date"`
	Statistics        DailyStatistics                 `json:"statistics"`
	AttendanceRecords []attendance.AttendanceResponse `json:"attendance_records"`
	AbsentEmployees   []attendance.UserRef            `json:"absent_employees"`
}

// ========================================
// MONTHLY REPORT
// ========================================

const (
	MinReportYear = 2020
	MaxReportYear = 2030
)

type MonthlyRequest struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	UserID *string `json:"user_id,omitempty"`
}

func (r *MonthlyRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Year < MinReportYear || r.Year > MaxReportYear {
		errs.Add("year", fmt.Sprintf("year must be between %d and %d", MinReportYear, MaxReportYear))
	}
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
	validateUserID(&errs, r.UserID)
	return errs.Err()
}

func (r MonthlyRequest) CacheKey() string {
	return fmt.Sprintf("monthly:%04d-%02d:%s", r.Year, r.Month, userKey(r.UserID))
}

type MonthPeriod struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type DayStatistics struct {
	TotalPresent   int     `json:"total_present"`
	TotalLate      int     `json:"total_late"`
	TotalWorkHours float64 `json:"total_work_hours"`
}

type CalendarDay struct {
	Date       string                          `json:"date"`
	DayName    string                          `json:"day_name"`
	IsWeekend  bool                            `json:"is_weekend"`
	Attendance []attendance.AttendanceResponse `json:"attendance"`
	Statistics DayStatistics                   `json:"statistics"`
}

type MonthlyStatistics struct {
	TotalWorkingDays       int     `json:"total_working_days"`
	TotalAttendanceRecords int     `json:"total_attendance_records"`
	TotalPresentDays       int     `json:"total_present_days"`
	TotalLateDays          int     `json:"total_late_days"`
	TotalWorkHours         float64 `json:"total_work_hours"`
	AverageDailyHours      float64 `json:"average_daily_hours"`
}

type MonthlyReport struct {
	Period     MonthPeriod       `json:"period"`
	Statistics MonthlyStatistics `json:"statistics"`
	Calendar   []CalendarDay     `json:"calendar"`
}

// ========================================
// TREND REPORT
// ========================================

type TrendPeriod string

const (
	TrendWeek    TrendPeriod = "week"
	TrendMonth   TrendPeriod = "month"
	TrendQuarter TrendPeriod = "quarter"
	TrendYear    TrendPeriod = "year"
)

func TrendPeriods() []string {
	return []string{string(TrendWeek), string(TrendMonth), string(TrendQuarter), string(TrendYear)}
}

type TrendRequest struct {
	Period string  `json:"period"`
	UserID *string `json:"user_id,omitempty"`
}

func (r *TrendRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Period) {
		errs.Add("period", "period is required")
	} else if !validator.IsInSlice(r.Period, TrendPeriods()) {
		errs.Add("period", "period must be one of: "+strings.Join(TrendPeriods(), ", "))
	}
	validateUserID(&errs, r.UserID)
	return errs.Err()
}

func (r TrendRequest) CacheKey(today time.Time) string {
	return fmt.Sprintf("trends:%s:%s:%s", r.Period, today.Format(dateLayout), userKey(r.UserID))
}

type TrendWindow struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type TrendRow struct {
	Date             string  `json:"date"`
	TotalRecords     int     `json:"total_records"`
	PresentCount     int     `json:"present_count"`
	LateCount        int     `json:"late_count"`
	AbsentCount      int     `json:"absent_count"`
	PartialCount     int     `json:"partial_count"`
	AverageWorkHours float64 `json:"avg_work_hours"`
	TotalWorkHours   float64 `json:"total_work_hours"`
}

type PerformanceMetrics struct {
	AttendanceRate   float64 `json:"attendance_rate"`
	PunctualityRate  float64 `json:"punctuality_rate"`
	AverageWorkHours float64 `json:"average_work_hours"`
	ApprovalRate     float64 `json:"approval_rate"`
}

type TrendReport struct {
	Period             TrendWindow        `json:"period"`
	Trends             []TrendRow         `json:"trends"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

// ========================================
// EXPORT
// ========================================

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

func ExportFormats() []string {
	return []string{string(FormatJSON), string(FormatCSV), string(FormatXLSX), string(FormatPDF)}
}

type ExportRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UserID    *string `json:"user_id,omitempty"`
	Format    string  `json:"format"`

	start, end time.Time
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors
	r.start, r.end = validator.ValidateDateRange(&errs, r.StartDate, r.EndDate)
	validateUserID(&errs, r.UserID)
	if r.Format == "" {
		r.Format = string(FormatJSON)
	}
	r.Format = strings.ToLower(r.Format)
	if !validator.IsInSlice(r.Format, ExportFormats()) {
		errs.Add("format", "format must be one of: "+strings.Join(ExportFormats(), ", "))
	}
	return errs.Err()
}

func (r ExportRequest) Range() (time.Time, time.Time) {
	return r.start, r.end
}

// ExportRow is one flattened record. Times are HH:MM:SS and approved_at is
// YYYY-MM-DD HH:MM:SS.
type ExportRow struct {
	Date          string   `json:"date"`
	EmployeeName  string   `json:"employee_name"`
	EmployeeEmail string   `json:"employee_email"`
	CheckInTime   *string  `json:"check_in_time"`
	CheckOutTime  *string  `json:"check_out_time"`
	WorkHours     *float64 `json:"work_hours"`
	Status        string   `json:"status"`
	IsApproved    string   `json:"is_approved"`
	ApprovedBy    *string  `json:"approved_by"`
	ApprovedAt    *string  `json:"approved_at"`
	Notes         *string  `json:"notes"`
}

type ExportReport struct {
	Period         Period      `json:"period"`
	Format         string      `json:"format"`
	TotalRecords   int         `json:"total_records"`
	AttendanceData []ExportRow `json:"attendance_data"`
}
