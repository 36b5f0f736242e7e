package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04:05"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add appends a field error.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns v as an error, or nil when no field failed.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUID validation, canonical 36-character form only.
func IsValidUUID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, dateStr)
	return date, err == nil
}

// IsValidTimeOfDay accepts HH:MM:SS and HH:MM.
func IsValidTimeOfDay(s string) (time.Time, bool) {
	if t, err := time.Parse(TimeOfDayLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// ValidateDateRange checks a required inclusive start/end pair and returns the
// parsed bounds.
func ValidateDateRange(errs *ValidationErrors, startDate, endDate string) (time.Time, time.Time) {
	var start, end time.Time
	var startOK, endOK bool

	if IsEmpty(startDate) {
		errs.Add("start_date", "start_date is required")
	} else if start, startOK = IsValidDate(startDate); !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	if IsEmpty(endDate) {
		errs.Add("end_date", "end_date is required")
	} else if end, endOK = IsValidDate(endDate); !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}

	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	return start, end
}
