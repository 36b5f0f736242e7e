package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

const ContentTypeCSV = "text/csv; charset=utf-8"

func WriteCSV(w io.Writer, rep report.ExportReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rep.AttendanceData {
		if err := cw.Write(Cells(row)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
