package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Daily(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	Trends(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
	clock         func() time.Time
}

// NewReportHandler wires report endpoints. now supplies the default date and
// month when a request omits them.
func NewReportHandler(reportService report.ReportService, now func() time.Time) ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &reportHandlerImpl{
		reportService: reportService,
		clock:         now,
	}
}

func optionalQuery(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// Summary handles GET /reports/summary
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req := report.SummaryRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		UserID:    optionalQuery(r, "user_id"),
	}

	result, err := h.reportService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Daily handles GET /reports/daily
func (h *reportHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.clock().Format("2006-01-02")
	}

	result, err := h.reportService.Daily(r.Context(), report.DailyRequest{Date: date})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Monthly handles GET /reports/monthly
func (h *reportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	req := report.MonthlyRequest{
		Year:   now.Year(),
		Month:  int(now.Month()),
		UserID: optionalQuery(r, "user_id"),
	}

	var errs validator.ValidationErrors
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			errs.Add("year", "year must be an integer")
		}
		req.Year = year
	}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			errs.Add("month", "month must be an integer")
		}
		req.Month = month
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Monthly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Trends handles GET /reports/trends
func (h *reportHandlerImpl) Trends(w http.ResponseWriter, r *http.Request) {
	req := report.TrendRequest{
		Period: r.URL.Query().Get("period"),
		UserID: optionalQuery(r, "user_id"),
	}

	result, err := h.reportService.Trends(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/export. JSON is returned in the envelope; other
// formats are sent as file downloads.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		UserID:    optionalQuery(r, "user_id"),
		Format:    r.URL.Query().Get("format"),
	}

	result, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var (
		render      func(io.Writer, report.ExportReport) error
		contentType string
	)
	switch report.ExportFormat(result.Format) {
	case report.FormatCSV:
		render, contentType = export.WriteCSV, export.ContentTypeCSV
	case report.FormatXLSX:
		render, contentType = export.WriteXLSX, export.ContentTypeXLSX
	case report.FormatPDF:
		render, contentType = export.WritePDF, export.ContentTypePDF
	default:
		response.Success(w, result)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, result); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render export", "format", result.Format, "error", err)
		response.HandleError(w, report.ErrReportGenerationFailed)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(result, result.Format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
