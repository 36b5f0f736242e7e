package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const (
	DefaultPageSize = 15
	MaxPageSize     = 100
)

// ========================================
// CLOCK IN / CLOCK OUT DTOs
// ========================================

type ClockInRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	return errs.Err()
}

type ClockOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	return errs.Err()
}

type ClockInResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
	IsLate      bool   `json:"is_late"`
}

type ClockOutResponse struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
	WorkHours    *float64 `json:"work_hours"`
	Status       string   `json:"status"`
}

type TodayStatusResponse struct {
	Date          string  `json:"date"`
	HasClockedIn  bool    `json:"has_clocked_in"`
	HasClockedOut bool    `json:"has_clocked_out"`
	CheckInTime   *string `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time"`
	WorkHours     float64 `json:"work_hours"`
	Status        *string `json:"status"`
	IsApproved    bool    `json:"is_approved"`
	Notes         *string `json:"notes"`
}

// ========================================
// RECORD DTOs
// ========================================

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	User         *UserRef `json:"user,omitempty"`
	Date         string   `json:"date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	Status       string   `json:"status"`
	WorkHours    *float64 `json:"work_hours"`
	Notes        *string  `json:"notes"`
	IsApproved   bool     `json:"is_approved"`
	ApprovedBy   *UserRef `json:"approved_by,omitempty"`
	ApprovedAt   *string  `json:"approved_at"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func timeOfDayPtrToString(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

// NewAttendanceResponse maps an entity to its API shape.
func NewAttendanceResponse(att Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           att.ID,
		Date:         att.DateString(),
		CheckInTime:  timeOfDayPtrToString(att.CheckInTime),
		CheckOutTime: timeOfDayPtrToString(att.CheckOutTime),
		Status:       string(att.Status),
		WorkHours:    att.WorkHours,
		Notes:        att.Notes,
		IsApproved:   att.IsApproved,
		CreatedAt:    att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if att.UserName != nil {
		resp.User = &UserRef{ID: att.UserID, Name: *att.UserName}
		if att.UserEmail != nil {
			resp.User.Email = *att.UserEmail
		}
	}
	if att.ApprovedBy != nil {
		resp.ApprovedBy = &UserRef{ID: *att.ApprovedBy}
		if att.ApprovedByName != nil {
			resp.ApprovedBy.Name = *att.ApprovedByName
		}
	}
	if att.ApprovedAt != nil {
		s := att.ApprovedAt.Format("2006-01-02 15:04:05")
		resp.ApprovedAt = &s
	}
	return resp
}

type AttendanceFilter struct {
	// Search & Filter
	UserID    *string `json:"user_id,omitempty"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Set by the service for the pending-approval view
	PendingOnly bool `json:"-"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if f.Status != nil {
		if !Status(*f.Status).IsValid() {
			errs.Add("status", "status must be one of: "+strings.Join(Statuses(), ", "))
		}
	}

	var startOK, endOK bool
	start, end := f.StartDate, f.EndDate
	if start != nil && *start != "" {
		if _, startOK = validator.IsValidDate(*start); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if end != nil && *end != "" {
		if _, endOK = validator.IsValidDate(*end); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && *end < *start {
		errs.Add("end_date", "end_date must be on or after start_date")
	}

	return errs.Err()
}

// Offset returns the row offset of the current page.
func (f AttendanceFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// CORRECTION DTOs
// ========================================

// UpdateAttendanceRequest corrects an unapproved record. Work hours are never
// accepted from input.
type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // HH:MM:SS
	CheckOutTime *string `json:"check_out_time,omitempty"` // HH:MM:SS
	Notes        *string `json:"notes,omitempty"`
	Status       *string `json:"status,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.CheckInTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckInTime); !ok {
			errs.Add("check_in_time", "check_in_time must be in HH:MM:SS format")
		}
	}
	if r.CheckOutTime != nil {
		if _, ok := validator.IsValidTimeOfDay(*r.CheckOutTime); !ok {
			errs.Add("check_out_time", "check_out_time must be in HH:MM:SS format")
		}
	}
	if r.Status != nil && !Status(strings.ToLower(*r.Status)).IsValid() {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses(), ", "))
	}
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}
	if r.CheckInTime == nil && r.CheckOutTime == nil && r.Notes == nil && r.Status == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

// Correction converts a validated request into a lifecycle correction.
func (r *UpdateAttendanceRequest) Correction() Correction {
	var c Correction
	if r.CheckInTime != nil {
		if t, err := ParseTimeOfDay(*r.CheckInTime); err == nil {
			c.CheckInTime = &t
		}
	}
	if r.CheckOutTime != nil {
		if t, err := ParseTimeOfDay(*r.CheckOutTime); err == nil {
			c.CheckOutTime = &t
		}
	}
	c.Notes = r.Notes
	if r.Status != nil {
		s := Status(strings.ToLower(*r.Status))
		c.Status = &s
	}
	return c
}

// ========================================
// APPROVAL DTOs
// ========================================

type BulkApproveRequest struct {
	IDs []string `json:"attendance_ids"`
}

func (r *BulkApproveRequest) Validate() error {
	if len(r.IDs) == 0 {
		return ErrNoRecordsSelected
	}

	var errs validator.ValidationErrors
	for _, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			errs.Add("attendance_ids", "attendance_ids must contain valid UUIDs")
			break
		}
	}
	return errs.Err()
}

type BulkApproveResponse struct {
	ApprovedCount int    `json:"approved_count"`
	ApproverName  string `json:"approver_name"`
}
