package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aliceID = "0190b7a2-0000-7000-8000-00000000000a"
	bobID   = "0190b7a2-0000-7000-8000-00000000000b"
	carlID  = "0190b7a2-0000-7000-8000-00000000000c"
	adminID = "0190b7a2-0000-7000-8000-0000000000ad"
)

type fakeReportRepo struct {
	records []attendance.Attendance
	calls   int
}

func (r *fakeReportRepo) ListRecords(_ context.Context, f report.RecordFilter) ([]attendance.Attendance, error) {
	r.calls++
	var out []attendance.Attendance
	for _, rec := range r.records {
		if rec.Date.Before(f.StartDate) || rec.Date.After(f.EndDate) {
			continue
		}
		if f.UserID != nil && rec.UserID != *f.UserID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type fakeUserRepo struct {
	users []user.User
}

func (r fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r fakeUserRepo) ListActiveEmployees(_ context.Context, userID *string) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if !u.HasRole(user.RoleEmployee) || !u.IsActive {
			continue
		}
		if userID != nil && u.ID != *userID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type memoryCache struct {
	entries map[cache.Slot][]byte
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (cache.Slot, bool, error) {
	slot := cache.Slot(key)
	b, ok := c.entries[slot]
	if !ok {
		return slot, false, nil
	}
	return slot, true, json.Unmarshal(b, dest)
}

func (c *memoryCache) Set(_ context.Context, slot cache.Slot, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[slot] = b
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.entries = map[cache.Slot][]byte{}
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(validator.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func record(userID, name, date string, in string, status attendance.Status, hours float64, approved bool) attendance.Attendance {
	t, err := attendance.ParseTimeOfDay(in)
	if err != nil {
		panic(err)
	}
	email := name + "@example.com"
	return attendance.Attendance{
		ID:          userID[len(userID)-2:] + "-" + date,
		UserID:      userID,
		UserName:    &name,
		UserEmail:   &email,
		Date:        day(date),
		CheckInTime: &t,
		Status:      status,
		WorkHours:   &hours,
		IsApproved:  approved,
	}
}

type testEnv struct {
	svc   report.ReportService
	repo  *fakeReportRepo
	cache *memoryCache
}

func newTestEnv(now time.Time) *testEnv {
	repo := &fakeReportRepo{records: []attendance.Attendance{
		record(aliceID, "Alice", "2024-03-04", "08:55:00", attendance.StatusPresent, 8, true),
		record(bobID, "Bob", "2024-03-04", "09:20:00", attendance.StatusLate, 7.5, false),
		record(aliceID, "Alice", "2024-03-05", "09:00:00", attendance.StatusPresent, 8.25, false),
		record(bobID, "Bob", "2024-02-29", "08:00:00", attendance.StatusPresent, 9, true),
	}}
	users := fakeUserRepo{users: []user.User{
		{ID: aliceID, Name: "Alice", Email: "Alice@example.com", Roles: []user.Role{user.RoleEmployee}, IsActive: true},
		{ID: bobID, Name: "Bob", Email: "Bob@example.com", Roles: []user.Role{user.RoleEmployee}, IsActive: true},
		{ID: carlID, Name: "Carl", Email: "Carl@example.com", Roles: []user.Role{user.RoleEmployee}, IsActive: true},
		{ID: adminID, Name: "Ada", Email: "ada@example.com", Roles: []user.Role{user.RoleAdmin}, IsActive: true},
	}}
	c := &memoryCache{entries: map[cache.Slot][]byte{}}
	svc := NewReportService(repo, users, c, &clock.Fixed{T: now}, time.UTC)
	return &testEnv{svc: svc, repo: repo, cache: c}
}

func asEmployee(id string) context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: id, Roles: []user.Role{user.RoleEmployee}})
}

func asAdmin() context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: adminID, Roles: []user.Role{user.RoleAdmin}})
}

var wednesday = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func TestSummary(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Summary(asAdmin(), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 31, rep.Period.TotalDays)
	require.Len(t, rep.Summary, 2)

	alice := rep.Summary[0]
	assert.Equal(t, "Alice", alice.User.Name)
	assert.Equal(t, 2, alice.Statistics.TotalDays)
	assert.Equal(t, 2, alice.Statistics.PresentDays)
	assert.Equal(t, 16.25, alice.Statistics.TotalWorkHours)
	assert.Equal(t, 8.13, alice.Statistics.AverageWorkHours)
	assert.Equal(t, 1, alice.Statistics.ApprovedRecords)
	assert.Equal(t, 1, alice.Statistics.PendingRecords)

	bob := rep.Summary[1]
	assert.Equal(t, 1, bob.Statistics.LateDays)
	assert.Equal(t, 7.5, bob.Statistics.TotalWorkHours)
}

func TestSummary_SelfScope(t *testing.T) {
	env := newTestEnv(wednesday)
	other := bobID

	rep, err := env.svc.Summary(asEmployee(aliceID), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", UserID: &other})
	require.NoError(t, err)
	require.Len(t, rep.Summary, 1)
	assert.Equal(t, aliceID, rep.Summary[0].User.ID)
}

func TestSummary_Validation(t *testing.T) {
	env := newTestEnv(wednesday)

	_, err := env.svc.Summary(asAdmin(), report.SummaryRequest{StartDate: "2024-03-31", EndDate: "2024-03-01"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")

	_, err = env.svc.Summary(context.Background(), report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	assert.ErrorIs(t, err, user.ErrUnauthenticated)
}

func TestSummary_CacheHit(t *testing.T) {
	env := newTestEnv(wednesday)
	req := report.SummaryRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"}

	first, err := env.svc.Summary(asAdmin(), req)
	require.NoError(t, err)
	second, err := env.svc.Summary(asAdmin(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, env.repo.calls)
	assert.Equal(t, first, second)

	// Self-scoped callers get their own cache entry.
	_, err = env.svc.Summary(asEmployee(aliceID), req)
	require.NoError(t, err)
	assert.Equal(t, 2, env.repo.calls)

	require.NoError(t, env.cache.Invalidate(context.Background()))
	_, err = env.svc.Summary(asAdmin(), req)
	require.NoError(t, err)
	assert.Equal(t, 3, env.repo.calls)
}

func TestDaily(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Daily(asAdmin(), report.DailyRequest{Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Statistics.TotalEmployees)
	assert.Equal(t, 2, rep.Statistics.Present)
	assert.Equal(t, 1, rep.Statistics.Absent)
	assert.Equal(t, 1, rep.Statistics.Late)
	assert.Equal(t, 1, rep.Statistics.OnTime)
	assert.Equal(t, 15.5, rep.Statistics.TotalWorkHours)
	assert.Equal(t, 7.75, rep.Statistics.AverageWorkHours)
	require.Len(t, rep.AbsentEmployees, 1)
	assert.Equal(t, "Carl", rep.AbsentEmployees[0].Name)
	require.Len(t, rep.AttendanceRecords, 2)
}

func TestDaily_SelfScope(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Daily(asEmployee(carlID), report.DailyRequest{Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Statistics.TotalEmployees)
	assert.Equal(t, 0, rep.Statistics.Present)
	require.Len(t, rep.AbsentEmployees, 1)
	assert.Equal(t, carlID, rep.AbsentEmployees[0].ID)
	assert.Empty(t, rep.AttendanceRecords)
}

func TestMonthly(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Monthly(asAdmin(), report.MonthlyRequest{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Len(t, rep.Calendar, 29)
	assert.Equal(t, "February", rep.Period.MonthName)
	assert.Equal(t, 21, rep.Statistics.TotalWorkingDays)
	assert.Equal(t, 1, rep.Statistics.TotalAttendanceRecords)

	last := rep.Calendar[28]
	assert.Equal(t, "2024-02-29", last.Date)
	assert.Equal(t, "Thursday", last.DayName)
	assert.Equal(t, 1, last.Statistics.TotalPresent)

	_, err = env.svc.Monthly(asAdmin(), report.MonthlyRequest{Year: 2019, Month: 13})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "year")
	assert.Contains(t, verrs.ToMap(), "month")
}

func TestTrends(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Trends(asAdmin(), report.TrendRequest{Period: "week"})
	require.NoError(t, err)
	assert.Equal(t, "week", rep.Period.Type)
	assert.Equal(t, "2024-02-05", rep.Period.StartDate)
	assert.Equal(t, "2024-03-06", rep.Period.EndDate)
	require.Len(t, rep.Trends, 3)
	assert.Equal(t, "2024-02-29", rep.Trends[0].Date)

	m := rep.PerformanceMetrics
	for _, rate := range []float64{m.AttendanceRate, m.PunctualityRate, m.ApprovalRate} {
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 100.0)
	}
	assert.Equal(t, 50.0, m.ApprovalRate)
	assert.Equal(t, 75.0, m.PunctualityRate)

	_, err = env.svc.Trends(asAdmin(), report.TrendRequest{Period: "decade"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestTrends_PeriodRequired(t *testing.T) {
	env := newTestEnv(wednesday)

	_, err := env.svc.Trends(asAdmin(), report.TrendRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "period is required", verrs.ToMap()["period"])
	assert.Zero(t, env.repo.calls)
}

func TestExport(t *testing.T) {
	env := newTestEnv(wednesday)

	rep, err := env.svc.Export(asAdmin(), report.ExportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31", Format: "CSV"})
	require.NoError(t, err)
	assert.Equal(t, "csv", rep.Format)
	assert.Equal(t, 3, rep.TotalRecords)
	assert.Equal(t, 31, rep.Period.TotalDays)
	assert.Equal(t, "2024-03-05", rep.AttendanceData[0].Date)
	assert.Equal(t, "Alice", rep.AttendanceData[1].EmployeeName)
	assert.Equal(t, "Bob", rep.AttendanceData[2].EmployeeName)

	rep, err = env.svc.Export(asEmployee(bobID), report.ExportRequest{StartDate: "2024-02-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "json", rep.Format)
	assert.Equal(t, 2, rep.TotalRecords)
	assert.Equal(t, 2, env.repo.calls)
}
