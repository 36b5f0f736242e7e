package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn records the caller's check-in for today
	ClockIn(ctx context.Context, req ClockInRequest) (ClockInResponse, error)

	// ClockOut records the caller's check-out for today
	ClockOut(ctx context.Context, req ClockOutRequest) (ClockOutResponse, error)

	// GetTodayStatus reports the caller's record for today
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// GetMyAttendance lists the caller's own records
	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance lists records across users; non-admins see only their own
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListPending lists unapproved records (admin)
	ListPending(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// UpdateAttendance corrects an unapproved record
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// ApproveAttendance approves a single record (admin)
	ApproveAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// BulkApprove approves every still-pending record in the selection (admin)
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkApproveResponse, error)
}
