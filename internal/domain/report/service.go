package report

import (
	"context"
	"io"
)

// ReportService builds reports and renders them as XLSX.
type ReportService interface {
	Generate(ctx context.Context, filter ReportFilter) (Report, error)

	// Export writes the report as a workbook and returns a suggested file name.
	Export(ctx context.Context, filter ReportFilter, w io.Writer) (string, error)
}
