package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Transactor runs fn with a context whose repository calls share one
// transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AttendanceServiceImpl struct {
	tx Transactor
	attendance.AttendanceRepository
	user.UserRepository
	reportCache cache.Cache
	clock       clock.Clock
	policy      attendance.Policy
	pageSize    int
}

func NewAttendanceService(
	tx Transactor,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	reportCache cache.Cache,
	clk clock.Clock,
	policy attendance.Policy,
	pageSize int,
) attendance.AttendanceService {
	if reportCache == nil {
		reportCache = cache.Noop{}
	}
	if pageSize <= 0 {
		pageSize = attendance.DefaultPageSize
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		reportCache:          reportCache,
		clock:                clk,
		policy:               policy,
		pageSize:             pageSize,
	}
}

// invalidateReports drops cached report results after a write.
func (a *AttendanceServiceImpl) invalidateReports(ctx context.Context) {
	if err := a.reportCache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate report cache", "error", err)
	}
}

func requireAdmin(p user.Principal) error {
	if !p.IsAdmin() {
		return user.ErrAdminPrivilegeRequired
	}
	return nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.ClockInResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ClockInResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ClockInResponse{}, err
	}

	now := a.clock.Now()
	today := clock.Today(now)
	at := attendance.TimeOfDayFrom(now)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, p.UserID, today)
	if err != nil {
		return attendance.ClockInResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	att, err := attendance.ClockIn(existing, p.UserID, today, at, req.Notes, a.policy)
	if err != nil {
		return attendance.ClockInResponse{}, err
	}

	saved, err := a.AttendanceRepository.UpsertClockIn(ctx, att)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			// A concurrent clock-in won; report the record that is on file.
			return attendance.ClockInResponse{}, a.currentStateError(ctx, p.UserID, today, err, func(cur *attendance.Attendance) error {
				_, err := attendance.ClockIn(cur, p.UserID, today, at, req.Notes, a.policy)
				return err
			})
		}
		return attendance.ClockInResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	a.invalidateReports(ctx)

	return attendance.ClockInResponse{
		ID:          saved.ID,
		Date:        saved.DateString(),
		CheckInTime: saved.CheckInTime.String(),
		Status:      string(saved.Status),
		IsLate:      saved.Status == attendance.StatusLate,
	}, nil
}

// currentStateError re-reads the day's record after a lost race and replays
// the transition against it to produce an error carrying the stored state.
func (a *AttendanceServiceImpl) currentStateError(ctx context.Context, userID string, today time.Time, fallback error, replay func(*attendance.Attendance) error) error {
	current, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil || current == nil {
		return fallback
	}
	if err := replay(current); err != nil {
		return err
	}
	return fallback
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.ClockOutResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ClockOutResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ClockOutResponse{}, err
	}

	now := a.clock.Now()
	today := clock.Today(now)
	at := attendance.TimeOfDayFrom(now)

	var saved attendance.Attendance
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, p.UserID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		att, err := attendance.ClockOut(existing, at, req.Notes)
		if err != nil {
			return err
		}

		saved, err = a.AttendanceRepository.SaveClockOut(ctx, att)
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyClockedOut) {
				return err
			}
			return fmt.Errorf("failed to clock out: %w", err)
		}
		return nil
	})
	if err != nil {
		var stateErr *attendance.StateError
		if errors.Is(err, attendance.ErrAlreadyClockedOut) && !errors.As(err, &stateErr) {
			return attendance.ClockOutResponse{}, a.currentStateError(ctx, p.UserID, today, err, func(cur *attendance.Attendance) error {
				_, err := attendance.ClockOut(cur, at, req.Notes)
				return err
			})
		}
		return attendance.ClockOutResponse{}, err
	}

	if saved.WorkHours != nil && *saved.WorkHours <= 0 {
		slog.WarnContext(ctx, "clock-out produced non-positive work hours",
			"attendance_id", saved.ID,
			"check_in_time", saved.CheckInTime.String(),
			"check_out_time", saved.CheckOutTime.String(),
			"work_hours", *saved.WorkHours,
		)
	}

	a.invalidateReports(ctx)

	return attendance.ClockOutResponse{
		ID:           saved.ID,
		Date:         saved.DateString(),
		CheckInTime:  saved.CheckInTime.String(),
		CheckOutTime: saved.CheckOutTime.String(),
		WorkHours:    saved.WorkHours,
		Status:       string(saved.Status),
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := clock.Today(a.clock.Now())
	resp := attendance.TodayStatusResponse{Date: today.Format(validator.DateLayout)}

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, p.UserID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if att == nil {
		return resp, nil
	}

	view := attendance.NewAttendanceResponse(*att)
	resp.HasClockedIn = att.HasClockedIn()
	resp.HasClockedOut = att.HasClockedOut()
	resp.CheckInTime = view.CheckInTime
	resp.CheckOutTime = view.CheckOutTime
	if att.WorkHours != nil {
		resp.WorkHours = *att.WorkHours
	}
	status := string(att.Status)
	resp.Status = &status
	resp.IsApproved = att.IsApproved
	resp.Notes = att.Notes
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.UserID = &p.UserID
	filter.PendingOnly = false
	return a.list(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.UserID = p.ScopeUserID(filter.UserID)
	filter.PendingOnly = false
	return a.list(ctx, filter)
}

// ListPending implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListPending(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := requireAdmin(p); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.PendingOnly = true
	return a.list(ctx, filter)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = a.pageSize
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	// Map to response
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, attendance.NewAttendanceResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", filter.Offset()+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// getAccessible loads a record the caller may see. Records owned by someone
// else are reported as missing to non-admins.
func (a *AttendanceServiceImpl) getAccessible(ctx context.Context, p user.Principal, id string) (attendance.Attendance, error) {
	if !validator.IsValidUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if !p.CanAccess(att.UserID) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.getAccessible(ctx, p, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(att), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err = a.tx.WithinTx(ctx, func(ctx context.Context) error {
		att, err := a.getAccessible(ctx, p, req.ID)
		if err != nil {
			return err
		}

		corrected, err := attendance.ApplyCorrection(att, req.Correction())
		if err != nil {
			return err
		}

		updated, err = a.AttendanceRepository.UpdateCorrection(ctx, corrected)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceApproved) {
				return err
			}
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.invalidateReports(ctx)
	return attendance.NewAttendanceResponse(updated), nil
}

// ApproveAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := requireAdmin(p); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.getAccessible(ctx, p, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att.IsApproved {
		return attendance.NewAttendanceResponse(att), nil
	}

	changed, err := a.AttendanceRepository.Approve(ctx, att.ID, p.UserID, a.clock.Now())
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to approve attendance: %w", err)
	}
	if changed {
		a.invalidateReports(ctx)
	}

	// Fetch updated record
	updated, err := a.AttendanceRepository.GetByID(ctx, att.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// BulkApprove implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BulkApprove(ctx context.Context, req attendance.BulkApproveRequest) (attendance.BulkApproveResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.BulkApproveResponse{}, err
	}
	if err := requireAdmin(p); err != nil {
		return attendance.BulkApproveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.BulkApproveResponse{}, err
	}

	pending, err := a.AttendanceRepository.FilterPending(ctx, req.IDs)
	if err != nil {
		return attendance.BulkApproveResponse{}, fmt.Errorf("failed to filter pending attendances: %w", err)
	}

	now := a.clock.Now()
	approved := 0
	for _, id := range pending {
		changed, err := a.AttendanceRepository.Approve(ctx, id, p.UserID, now)
		if err != nil {
			slog.WarnContext(ctx, "failed to approve attendance in bulk", "attendance_id", id, "error", err)
			continue
		}
		if changed {
			approved++
		}
	}

	if approved > 0 {
		a.invalidateReports(ctx)
	}

	resp := attendance.BulkApproveResponse{ApprovedCount: approved}
	approver, err := a.UserRepository.GetByID(ctx, p.UserID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load approver", "user_id", p.UserID, "error", err)
	} else {
		resp.ApproverName = approver.Name
	}
	return resp, nil
}
