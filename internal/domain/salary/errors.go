package salary

import "errors"

var (
	ErrSalaryNotFound          = errors.New("salary record not found")
	ErrDuplicatePeriod         = errors.New("salary already exists for this employee for the selected month")
	ErrInvalidStatusTransition = errors.New("salary status cannot change from a final state")
)
