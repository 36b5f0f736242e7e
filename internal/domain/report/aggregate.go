package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s, e := truncateDay(start), truncateDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24+0.5) + 1
}

// CountWeekdays counts Monday to Friday dates from start to end inclusive.
func CountWeekdays(start, end time.Time) int {
	n := 0
	for d := truncateDay(start); !d.After(truncateDay(end)); d = d.AddDate(0, 0, 1) {
		if !isWeekend(d) {
			n++
		}
	}
	return n
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// hoursStats sums non-null work hours and averages over those same records.
// Hours are summed as exact hundredths. A set without any hours averages to 0.
func hoursStats(records []attendance.Attendance) (total, average float64) {
	var sum, n int64
	for _, r := range records {
		if r.WorkHours != nil {
			sum += utils.ToHundredths(*r.WorkHours)
			n++
		}
	}
	if n > 0 {
		average = utils.FromHundredths(utils.DivRoundHalfUp(sum, n))
	}
	return utils.FromHundredths(sum), average
}

func countStatus(records []attendance.Attendance, status attendance.Status) int {
	n := 0
	for _, r := range records {
		if r.Status == status {
			n++
		}
	}
	return n
}

func countNonAbsent(records []attendance.Attendance) int {
	return len(records) - countStatus(records, attendance.StatusAbsent)
}

func countApproved(records []attendance.Attendance) int {
	n := 0
	for _, r := range records {
		if r.IsApproved {
			n++
		}
	}
	return n
}

func userRefOf(r attendance.Attendance) attendance.UserRef {
	ref := attendance.UserRef{ID: r.UserID}
	if r.UserName != nil {
		ref.Name = *r.UserName
	}
	if r.UserEmail != nil {
		ref.Email = *r.UserEmail
	}
	return ref
}

func toResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, attendance.NewAttendanceResponse(r))
	}
	return out
}

// BuildSummary groups records per user. Users appear ordered by name, then id.
func BuildSummary(start, end time.Time, records []attendance.Attendance) SummaryReport {
	groups := map[string][]attendance.Attendance{}
	refs := map[string]attendance.UserRef{}
	for _, r := range records {
		groups[r.UserID] = append(groups[r.UserID], r)
		if _, ok := refs[r.UserID]; !ok {
			refs[r.UserID] = userRefOf(r)
		}
	}

	summary := make([]UserSummary, 0, len(groups))
	for id, recs := range groups {
		total, avg := hoursStats(recs)
		approved := countApproved(recs)
		summary = append(summary, UserSummary{
			User: refs[id],
			Statistics: SummaryStatistics{
				TotalDays:        len(recs),
				PresentDays:      countStatus(recs, attendance.StatusPresent),
				LateDays:         countStatus(recs, attendance.StatusLate),
				PartialDays:      countStatus(recs, attendance.StatusPartial),
				AbsentDays:       countStatus(recs, attendance.StatusAbsent),
				TotalWorkHours:   total,
				AverageWorkHours: avg,
				ApprovedRecords:  approved,
				PendingRecords:   len(recs) - approved,
			},
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].User.Name != summary[j].User.Name {
			return summary[i].User.Name < summary[j].User.Name
		}
		return summary[i].User.ID < summary[j].User.ID
	})

	return SummaryReport{
		Period: Period{
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
			TotalDays: InclusiveDays(start, end),
		},
		Summary: summary,
	}
}

// BuildDaily reports one date. records must already be ordered by check-in;
// employees are the active employee-role users in scope.
func BuildDaily(date time.Time, records []attendance.Attendance, employees []user.User) DailyReport {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.UserID] = true
	}
	absent := make([]attendance.UserRef, 0)
	for _, e := range employees {
		if !seen[e.ID] {
			absent = append(absent, attendance.UserRef{ID: e.ID, Name: e.Name, Email: e.Email})
		}
	}

	total, avg := hoursStats(records)
	return DailyReport{
		Date: date.Format(dateLayout),
		Statistics: DailyStatistics{
			TotalEmployees:   len(employees),
			Present:          countNonAbsent(records),
			Absent:           len(absent),
			Late:             countStatus(records, attendance.StatusLate),
			OnTime:           countStatus(records, attendance.StatusPresent),
			Partial:          countStatus(records, attendance.StatusPartial),
			TotalWorkHours:   total,
			AverageWorkHours: avg,
		},
		AttendanceRecords: toResponses(records),
		AbsentEmployees:   absent,
	}
}

// MonthBounds returns the first and last date of a month in loc.
func MonthBounds(year, month int, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return first, first.AddDate(0, 1, -1)
}

// BuildMonthly lays out every calendar day of the month, including days
// without records.
func BuildMonthly(year, month int, loc *time.Location, records []attendance.Attendance) MonthlyReport {
	first, last := MonthBounds(year, month, loc)

	byDate := map[string][]attendance.Attendance{}
	for _, r := range records {
		key := r.DateString()
		byDate[key] = append(byDate[key], r)
	}

	calendar := make([]CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		dayRecords := byDate[key]
		total, _ := hoursStats(dayRecords)
		calendar = append(calendar, CalendarDay{
			Date:       key,
			DayName:    d.Weekday().String(),
			IsWeekend:  isWeekend(d),
			Attendance: toResponses(dayRecords),
			Statistics: DayStatistics{
				TotalPresent:   countNonAbsent(dayRecords),
				TotalLate:      countStatus(dayRecords, attendance.StatusLate),
				TotalWorkHours: total,
			},
		})
	}

	total, avg := hoursStats(records)
	return MonthlyReport{
		Period: MonthPeriod{
			Year:      year,
			Month:     month,
			MonthName: time.Month(month).String(),
			StartDate: first.Format(dateLayout),
			EndDate:   last.Format(dateLayout),
		},
		Statistics: MonthlyStatistics{
			TotalWorkingDays:       CountWeekdays(first, last),
			TotalAttendanceRecords: len(records),
			TotalPresentDays:       countNonAbsent(records),
			TotalLateDays:          countStatus(records, attendance.StatusLate),
			TotalWorkHours:         total,
			AverageDailyHours:      avg,
		},
		Calendar: calendar,
	}
}

func startOfWeek(t time.Time) time.Time {
	d := truncateDay(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

// WindowFor returns the lookback window of a trend period: the start of the
// current unit moved back by the period's span, through today.
func WindowFor(period TrendPeriod, now time.Time) (time.Time, time.Time, error) {
	today := truncateDay(now)
	y, m, _ := today.Date()
	loc := today.Location()

	switch period {
	case TrendWeek:
		return startOfWeek(today).AddDate(0, 0, -4*7), today, nil
	case TrendMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, -6, 0), today, nil
	case TrendQuarter:
		quarterStart := time.Month((int(m)-1)/3*3 + 1)
		return time.Date(y, quarterStart, 1, 0, 0, 0, 0, loc).AddDate(0, -12, 0), today, nil
	case TrendYear:
		return time.Date(y-3, time.January, 1, 0, 0, 0, 0, loc), today, nil
	}
	return time.Time{}, time.Time{}, ErrInvalidPeriod
}

// BuildTrendRows rolls records up per distinct date, ascending.
func BuildTrendRows(records []attendance.Attendance) []TrendRow {
	byDate := map[string][]attendance.Attendance{}
	var dates []string
	for _, r := range records {
		key := r.DateString()
		if _, ok := byDate[key]; !ok {
			dates = append(dates, key)
		}
		byDate[key] = append(byDate[key], r)
	}
	sort.Strings(dates)

	rows := make([]TrendRow, 0, len(dates))
	for _, d := range dates {
		recs := byDate[d]
		total, avg := hoursStats(recs)
		rows = append(rows, TrendRow{
			Date:             d,
			TotalRecords:     len(recs),
			PresentCount:     countStatus(recs, attendance.StatusPresent),
			LateCount:        countStatus(recs, attendance.StatusLate),
			AbsentCount:      countStatus(recs, attendance.StatusAbsent),
			PartialCount:     countStatus(recs, attendance.StatusPartial),
			AverageWorkHours: avg,
			TotalWorkHours:   total,
		})
	}
	return rows
}

// ComputeMetrics derives the window-level rates. Each rate is a percentage in
// [0, 100] and is 0 when its denominator is 0.
func ComputeMetrics(records []attendance.Attendance, start, end time.Time, activeEmployees int) PerformanceMetrics {
	nonAbsent := countNonAbsent(records)
	expected := CountWeekdays(start, end) * activeEmployees
	_, avg := hoursStats(records)

	attendanceRate := utils.Percentage(nonAbsent, expected)
	if attendanceRate > 100 {
		attendanceRate = 100
	}

	return PerformanceMetrics{
		AttendanceRate:   attendanceRate,
		PunctualityRate:  utils.Percentage(countStatus(records, attendance.StatusPresent), nonAbsent),
		AverageWorkHours: avg,
		ApprovalRate:     utils.Percentage(countApproved(records), len(records)),
	}
}

// BuildTrend assembles the trend report for a window.
func BuildTrend(period TrendPeriod, start, end time.Time, records []attendance.Attendance, activeEmployees int) TrendReport {
	return TrendReport{
		Period: TrendWindow{
			Type:      string(period),
			StartDate: start.Format(dateLayout),
			EndDate:   end.Format(dateLayout),
		},
		Trends:             BuildTrendRows(records),
		PerformanceMetrics: ComputeMetrics(records, start, end, activeEmployees),
	}
}

// BuildExportRows flattens records ordered by date descending, then check-in
// ascending with missing check-ins last.
func BuildExportRows(records []attendance.Attendance) []ExportRow {
	sorted := make([]attendance.Attendance, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		switch {
		case a.CheckInTime == nil:
			return false
		case b.CheckInTime == nil:
			return true
		}
		return *a.CheckInTime < *b.CheckInTime
	})

	rows := make([]ExportRow, 0, len(sorted))
	for _, r := range sorted {
		ref := userRefOf(r)
		resp := attendance.NewAttendanceResponse(r)
		approved := "No"
		if r.IsApproved {
			approved = "Yes"
		}
		rows = append(rows, ExportRow{
			Date:          resp.Date,
			EmployeeName:  ref.Name,
			EmployeeEmail: ref.Email,
			CheckInTime:   resp.CheckInTime,
			CheckOutTime:  resp.CheckOutTime,
			WorkHours:     r.WorkHours,
			Status:        string(r.Status),
			IsApproved:    approved,
			ApprovedBy:    r.ApprovedByName,
			ApprovedAt:    resp.ApprovedAt,
			Notes:         r.Notes,
		})
	}
	return rows
}
