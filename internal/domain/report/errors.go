package report

import "errors"

var (
	ErrInvalidPeriod          = errors.New("period must be one of: week, month, quarter, year")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
