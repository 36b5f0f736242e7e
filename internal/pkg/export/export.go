package export

import (
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

// Headers are the column titles shared by every tabular format.
var Headers = []string{
	"Date", "Employee Name", "Employee Email", "Check In", "Check Out",
	"Work Hours", "Status", "Approved", "Approved By", "Approved At", "Notes",
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// neutralize prefixes free text that a spreadsheet would evaluate as a
// formula with a single quote.
func neutralize(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// Cells renders one row as strings in Headers order. Names, emails and notes
// are user input and are neutralized.
func Cells(r report.ExportRow) []string {
	hours := ""
	if r.WorkHours != nil {
		hours = strconv.FormatFloat(*r.WorkHours, 'f', 2, 64)
	}
	return []string{
		r.Date,
		neutralize(r.EmployeeName),
		neutralize(r.EmployeeEmail),
		deref(r.CheckInTime),
		deref(r.CheckOutTime),
		hours,
		r.Status,
		r.IsApproved,
		neutralize(deref(r.ApprovedBy)),
		deref(r.ApprovedAt),
		neutralize(deref(r.Notes)),
	}
}

// Filename builds the download name for a report period.
func Filename(rep report.ExportReport, ext string) string {
	return "attendance_" + rep.Period.StartDate + "_" + rep.Period.EndDate + "." + ext
}
