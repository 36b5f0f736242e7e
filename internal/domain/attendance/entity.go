package attendance

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusPartial Status = "partial"
	StatusAbsent  Status = "absent"
)

// Statuses lists every valid status in display order.
func Statuses() []string {
	return []string{string(StatusPresent), string(StatusLate), string(StatusPartial), string(StatusAbsent)}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusPartial, StatusAbsent:
		return true
	}
	return false
}

// TimeOfDay is a wall-clock time as seconds since midnight.
type TimeOfDay int

const secondsPerDay = 24 * 60 * 60

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayFrom drops the date and sub-second part of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts HH:MM:SS or HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayFrom(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Duration returns t as an offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

func (t TimeOfDay) IsValid() bool {
	return t >= 0 && t < secondsPerDay
}

// Attendance is one user's record for one calendar date.
type Attendance struct {
	ID           string
	UserID       string
	Date         time.Time
	CheckInTime  *TimeOfDay
	CheckOutTime *TimeOfDay
	Status       Status
	WorkHours    *float64
	Notes        *string
	IsApproved   bool
	ApprovedBy   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	UserName       *string
	UserEmail      *string
	ApprovedByName *string
}

func (a Attendance) HasClockedIn() bool {
	return a.CheckInTime != nil
}

func (a Attendance) HasClockedOut() bool {
	return a.CheckOutTime != nil
}

// DateString formats the record date as YYYY-MM-DD.
func (a Attendance) DateString() string {
	return a.Date.Format("2006-01-02")
}
