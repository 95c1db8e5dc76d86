package salary

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Options carries the deployment's payroll rules.
type Options struct {
	OvertimeMultiplier decimal.Decimal
	StrictTransitions  bool
	CurrencyCode       string
	DefaultPageSize    int
}

type SalaryServiceImpl struct {
	salaryRepo     salary.SalaryRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	cache          cache.Cache
	activity       activity.Recorder
	clock          clock.Clock
	opts           Options
}

func NewSalaryService(
	salaryRepo salary.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	c cache.Cache,
	recorder activity.Recorder,
	clk clock.Clock,
	opts Options,
) salary.SalaryService {
	if opts.OvertimeMultiplier.IsZero() {
		opts.OvertimeMultiplier = decimal.NewFromFloat(1.5)
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 10
	}
	return &SalaryServiceImpl{
		salaryRepo:     salaryRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		cache:          c,
		activity:       recorder,
		clock:          clk,
		opts:           opts,
	}
}

func (s *SalaryServiceImpl) GenerateSalary(ctx context.Context, req salary.GenerateSalaryRequest) (salary.GenerateSalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.GenerateSalaryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return salary.GenerateSalaryResponse{}, err
	}

	exists, err := s.salaryRepo.ExistsForPeriod(ctx, emp.ID, req.Month, req.Year)
	if err != nil {
		return salary.GenerateSalaryResponse{}, fmt.Errorf("failed to check salary period: %w", err)
	}
	if exists {
		return salary.GenerateSalaryResponse{}, salary.ErrDuplicatePeriod
	}

	start, end := MonthPeriod(req.Month, req.Year)
	records, err := s.attendanceRepo.ListByEmployeeAndPeriod(ctx, emp.ID, start, end)
	if err != nil {
		return salary.GenerateSalaryResponse{}, err
	}

	calc := Calculate(emp, records, Input{
		Month:      req.Month,
		Year:       req.Year,
		Bonus:      req.Bonus,
		Deductions: req.Deductions,
		Note:       emptyToNil(req.Note),
	}, s.opts.OvertimeMultiplier)

	// The unique (employee_id, month, year) key still guards a concurrent
	// generation that passed the existence check.
	created, err := s.salaryRepo.Create(ctx, calc.Salary)
	if err != nil {
		return salary.GenerateSalaryResponse{}, err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, activity.ActionCreate,
		fmt.Sprintf("Generated salary for %s for %s", emp.Name, monthLabel(req.Month, req.Year)),
		auth.ActorID(ctx), &emp.ID)

	return salary.GenerateSalaryResponse{
		Salary:    salary.NewSalaryResponse(created),
		Breakdown: calc.Breakdown,
	}, nil
}

func (s *SalaryServiceImpl) UpdateSalaryStatus(ctx context.Context, req salary.UpdateSalaryStatusRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	existing, err := s.salaryRepo.GetByID(ctx, req.ID)
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	next := salary.PaymentStatus(req.Status)
	if !salary.CanTransition(existing.PaymentStatus, next, s.opts.StrictTransitions) {
		return salary.SalaryResponse{}, salary.ErrInvalidStatusTransition
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		d, ok := validator.IsValidDate(*req.PaymentDate)
		if !ok {
			return salary.SalaryResponse{}, validator.ValidationErrors{{Field: "payment_date", Message: "payment_date must be in YYYY-MM-DD format"}}
		}
		paymentDate = &d
	}

	updated, err := s.salaryRepo.UpdateStatus(ctx, existing.ID, next, paymentDate, emptyToNil(req.PaymentMethod), emptyToNil(req.Note))
	if err != nil {
		return salary.SalaryResponse{}, err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, activity.ActionUpdate,
		fmt.Sprintf("Updated salary status to '%s' for %s for %s", next, updated.EmployeeName, monthLabel(updated.Month, updated.Year)),
		auth.ActorID(ctx), &updated.EmployeeID)

	return salary.NewSalaryResponse(updated), nil
}

func (s *SalaryServiceImpl) GetSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	record, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	return salary.NewSalaryResponse(record), nil
}

func (s *SalaryServiceImpl) DeleteSalary(ctx context.Context, id string) error {
	existing, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.salaryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.activity.Record(ctx, activity.ActionDelete,
		fmt.Sprintf("Deleted salary record for %s for %s", existing.EmployeeName, monthLabel(existing.Month, existing.Year)),
		auth.ActorID(ctx), &existing.EmployeeID)

	return nil
}

func (s *SalaryServiceImpl) ListSalaries(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = s.opts.DefaultPageSize
	}
	if filter.Status != nil && (*filter.Status == "" || *filter.Status == "all") {
		filter.Status = nil
	}
	if filter.Search != nil && *filter.Search == "" {
		filter.Search = nil
	}
	month, year := s.resolveMonth(filter.Month, filter.Year)

	key := cache.Key("salary", "list", strconv.Itoa(month), strconv.Itoa(year), deref(filter.Status), deref(filter.Search),
		strconv.Itoa(filter.Page), strconv.Itoa(filter.Limit))

	return cache.Remember(ctx, s.cache, key, []cache.Tag{cache.TagSalary},
		func(ctx context.Context) (salary.ListSalaryResponse, error) {
			records, total, err := s.salaryRepo.List(ctx, month, year, filter)
			if err != nil {
				return salary.ListSalaryResponse{}, err
			}

			responses := make([]salary.SalaryResponse, 0, len(records))
			for _, r := range records {
				responses = append(responses, salary.NewSalaryResponse(r))
			}

			return salary.ListSalaryResponse{
				Month:      month,
				Year:       year,
				TotalCount: total,
				Page:       filter.Page,
				Limit:      filter.Limit,
				TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
				Salaries:   responses,
			}, nil
		})
}

func (s *SalaryServiceImpl) StatusCounts(ctx context.Context, month, year int) (salary.StatusCountsResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return salary.StatusCountsResponse{}, err
	}
	month, year = s.resolveMonth(month, year)

	return cache.Remember(ctx, s.cache, cache.Key("salary", "counts", strconv.Itoa(month), strconv.Itoa(year)), []cache.Tag{cache.TagSalary},
		func(ctx context.Context) (salary.StatusCountsResponse, error) {
			counts, err := s.salaryRepo.CountByStatus(ctx, month, year)
			if err != nil {
				return salary.StatusCountsResponse{}, err
			}
			return salary.NewStatusCountsResponse(month, year, counts), nil
		})
}

func (s *SalaryServiceImpl) Stats(ctx context.Context, month, year int) (salary.StatsResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return salary.StatsResponse{}, err
	}
	month, year = s.resolveMonth(month, year)

	return cache.Remember(ctx, s.cache, cache.Key("salary", "stats", strconv.Itoa(month), strconv.Itoa(year)), []cache.Tag{cache.TagSalary},
		func(ctx context.Context) (salary.StatsResponse, error) {
			stats, err := s.salaryRepo.Stats(ctx, month, year)
			if err != nil {
				return salary.StatsResponse{}, err
			}
			return salary.StatsResponse{
				Month:           month,
				Year:            year,
				TotalRecords:    stats.TotalRecords,
				TotalBasic:      stats.TotalBasic,
				TotalOvertime:   stats.TotalOvertime,
				TotalBonus:      stats.TotalBonus,
				TotalDeductions: stats.TotalDeductions,
				TotalAmount:     stats.TotalAmount,
				CurrencyCode:    s.opts.CurrencyCode,
			}, nil
		})
}

func (s *SalaryServiceImpl) ListUnsalariedEmployees(ctx context.Context, month, year int) ([]salary.UnsalariedEmployeeResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	month, year = s.resolveMonth(month, year)

	employees, err := s.salaryRepo.ListUnsalaried(ctx, month, year)
	if err != nil {
		return nil, err
	}

	responses := make([]salary.UnsalariedEmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, salary.UnsalariedEmployeeResponse{ID: e.ID, Name: e.Name, Position: e.Position})
	}
	return responses, nil
}

// resolveMonth fills a zero month or year from the service clock.
func (s *SalaryServiceImpl) resolveMonth(month, year int) (int, int) {
	now := s.clock.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func (s *SalaryServiceImpl) invalidate(ctx context.Context) {
	cache.InvalidateQuietly(ctx, s.cache, cache.TagSalary, cache.TagDashboard)
}

func validatePeriod(month, year int) error {
	f := salary.SalaryFilter{Month: month, Year: year}
	return f.Validate()
}

// monthLabel renders a period the way activity entries name it, e.g. "March 2024".
func monthLabel(month, year int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
