package attendance

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// DefaultLateThreshold is the last on-time clock-in second.
var DefaultLateThreshold = NewTimeOfDay(9, 0, 0)

// Policy holds the configurable lifecycle rules.
type Policy struct {
	LateThreshold TimeOfDay
}

func DefaultPolicy() Policy {
	return Policy{LateThreshold: DefaultLateThreshold}
}

// StatusFor derives the clock-in status. Exactly the threshold is on time.
func (p Policy) StatusFor(checkIn TimeOfDay) Status {
	if checkIn > p.LateThreshold {
		return StatusLate
	}
	return StatusPresent
}

// ComputeWorkHours returns checkOut-checkIn in hours, rounded half away from
// zero to two decimals. The result is signed and nil when either time is
// missing.
func ComputeWorkHours(checkIn, checkOut *TimeOfDay) *float64 {
	if checkIn == nil || checkOut == nil {
		return nil
	}
	secs := int64(*checkOut - *checkIn)
	neg := secs < 0
	if neg {
		secs = -secs
	}
	hundredths := (secs*100 + 1800) / 3600
	if neg {
		hundredths = -hundredths
	}
	hours := float64(hundredths) / 100
	return &hours
}

// ClockIn opens the day's record. existing is today's record if one is on
// file.
func ClockIn(existing *Attendance, userID string, date time.Time, at TimeOfDay, notes *string, policy Policy) (Attendance, error) {
	if existing != nil && existing.HasClockedIn() {
		return Attendance{}, newStateError(ErrAlreadyClockedIn, existing)
	}

	var att Attendance
	if existing != nil {
		att = *existing
	}
	att.UserID = userID
	att.Date = date
	att.CheckInTime = &at
	att.Status = policy.StatusFor(at)

	n := ""
	if notes != nil {
		n = *notes
	}
	att.Notes = &n
	att.WorkHours = ComputeWorkHours(att.CheckInTime, att.CheckOutTime)
	return att, nil
}

// ClockOut closes the day's record. Notes are only replaced when given.
func ClockOut(existing *Attendance, at TimeOfDay, notes *string) (Attendance, error) {
	if existing == nil || !existing.HasClockedIn() {
		return Attendance{}, newStateError(ErrNotClockedIn, existing)
	}
	if existing.HasClockedOut() {
		return Attendance{}, newStateError(ErrAlreadyClockedOut, existing)
	}

	att := *existing
	att.CheckOutTime = &at
	if notes != nil {
		att.Notes = notes
	}
	att.WorkHours = ComputeWorkHours(att.CheckInTime, att.CheckOutTime)
	return att, nil
}

// Approve marks the record approved by approverID at the given instant.
func Approve(att Attendance, approverID string, at time.Time) Attendance {
	att.IsApproved = true
	att.ApprovedBy = &approverID
	att.ApprovedAt = &at
	return att
}

// Correction is a partial update. Nil fields are left unchanged.
type Correction struct {
	CheckInTime  *TimeOfDay
	CheckOutTime *TimeOfDay
	Notes        *string
	Status       *Status
}

func (c Correction) touchesTimes() bool {
	return c.CheckInTime != nil || c.CheckOutTime != nil
}

// ApplyCorrection edits an unapproved record. Work hours are recomputed when
// a time changes, and a check-out that is not after the check-in is rejected.
func ApplyCorrection(att Attendance, c Correction) (Attendance, error) {
	if att.IsApproved {
		return Attendance{}, ErrAttendanceApproved
	}

	if c.CheckInTime != nil {
		att.CheckInTime = c.CheckInTime
	}
	if c.CheckOutTime != nil {
		att.CheckOutTime = c.CheckOutTime
	}
	if c.Notes != nil {
		att.Notes = c.Notes
	}
	if c.Status != nil {
		att.Status = *c.Status
	}

	if c.touchesTimes() {
		if att.CheckInTime != nil && att.CheckOutTime != nil && *att.CheckOutTime <= *att.CheckInTime {
			return Attendance{}, validator.ValidationErrors{{
				Field:   "check_out_time",
				Message: "check_out_time must be after check_in_time",
			}}
		}
		att.WorkHours = ComputeWorkHours(att.CheckInTime, att.CheckOutTime)
	}
	return att, nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
