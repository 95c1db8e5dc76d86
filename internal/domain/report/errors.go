package report

import "errors"

var (
	ErrInvalidReportType = errors.New("unknown report type")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
	ErrMissingCustomDate = errors.New("custom range needs start_date and end_date")
)
