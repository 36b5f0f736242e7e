package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// UpsertClockIn writes the day's check-in, keyed by (user, date). It
	// returns ErrAlreadyClockedIn when a check-in for that day already exists.
	UpsertClockIn(ctx context.Context, att Attendance) (Attendance, error)

	// SaveClockOut sets the check-out of an open record. It returns
	// ErrAlreadyClockedOut when the record was closed concurrently.
	SaveClockOut(ctx context.Context, att Attendance) (Attendance, error)

	// UpdateCorrection persists corrected fields of an unapproved record. It
	// returns ErrAttendanceApproved when the record was approved meanwhile.
	UpdateCorrection(ctx context.Context, att Attendance) (Attendance, error)

	// Approve sets the approval fields if the record is still unapproved and
	// reports whether a row changed.
	Approve(ctx context.Context, id string, approverID string, at time.Time) (bool, error)

	// GetByID retrieves a record with user and approver names joined.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record of one user on one date, or nil.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// FilterPending returns the subset of ids that are not yet approved.
	FilterPending(ctx context.Context, ids []string) ([]string, error)

	// List retrieves records with filters and pagination, newest date first.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
