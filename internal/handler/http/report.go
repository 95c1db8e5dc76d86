package http

import (
	"bytes"
	"net/http"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/export"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Generate returns the report as JSON
	Generate(w http.ResponseWriter, r *http.Request)

	// Export downloads the same report as an XLSX workbook
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Generate handles GET /reports/{type}
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Generate(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /reports/{type}/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Buffered so a failed export still gets a JSON error instead of a
	// truncated download.
	var buf bytes.Buffer
	filename, err := h.reportService.Export(r.Context(), filter, &buf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, export.ContentTypeXLSX, filename, buf.Bytes())
}

func reportFilterFromRequest(r *http.Request) (report.ReportFilter, error) {
	reportType := chi.URLParam(r, "type")
	if !validator.IsInSlice(reportType, report.Types()) {
		return report.ReportFilter{}, report.ErrInvalidReportType
	}

	q := r.URL.Query()
	return report.ReportFilter{
		Type:       report.Type(reportType),
		DateRange:  report.DateRange(q.Get("date_range")),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		EmployeeID: queryString(r, "employee_id"),
		Status:     queryString(r, "status"),
	}, nil
}
