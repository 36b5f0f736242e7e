package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in / clock-out errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you must clock in first before clocking out")
	ErrAlreadyClockedOut = errors.New("you have already clocked out today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceApproved = errors.New("cannot update approved attendance record")
	ErrNoRecordsSelected  = errors.New("please select records to approve")
)

// StateError reports a lifecycle violation together with the record's current
// state so callers can show what is already on file.
type StateError struct {
	Err          error
	Date         string
	CheckInTime  *TimeOfDay
	CheckOutTime *TimeOfDay
	Status       Status
	WorkHours    *float64
}

func (e *StateError) Error() string {
	return e.Err.Error()
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// Details renders the carried state for an error response body.
func (e *StateError) Details() map[string]string {
	d := map[string]string{}
	if e.Date != "" {
		d["date"] = e.Date
	}
	if e.CheckInTime != nil {
		d["check_in_time"] = e.CheckInTime.String()
	}
	if e.CheckOutTime != nil {
		d["check_out_time"] = e.CheckOutTime.String()
	}
	if e.Status != "" {
		d["status"] = string(e.Status)
	}
	if e.WorkHours != nil {
		d["work_hours"] = formatHours(*e.WorkHours)
	}
	return d
}

func newStateError(err error, att *Attendance) *StateError {
	se := &StateError{Err: err}
	if att == nil {
		return se
	}
	se.Date = att.DateString()
	se.CheckInTime = att.CheckInTime
	se.CheckOutTime = att.CheckOutTime
	se.Status = att.Status
	se.WorkHours = att.WorkHours
	return se
}
