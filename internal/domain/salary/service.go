package salary

import "context"

type SalaryService interface {
	GenerateSalary(ctx context.Context, req GenerateSalaryRequest) (GenerateSalaryResponse, error)
	UpdateSalaryStatus(ctx context.Context, req UpdateSalaryStatusRequest) (SalaryResponse, error)
	GetSalary(ctx context.Context, id string) (SalaryResponse, error)
	DeleteSalary(ctx context.Context, id string) error
	ListSalaries(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	// Month and year of zero select the current month.
	StatusCounts(ctx context.Context, month, year int) (StatusCountsResponse, error)
	Stats(ctx context.Context, month, year int) (StatsResponse, error)
	ListUnsalariedEmployees(ctx context.Context, month, year int) ([]UnsalariedEmployeeResponse, error)
}
