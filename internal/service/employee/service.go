package employee

import (
	"context"
	"fmt"
	"math"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/worktime"
)

type EmployeeServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	cache           cache.Cache
	activity        activity.Recorder
	defaultHours    float64
	defaultPageSize int
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	c cache.Cache,
	recorder activity.Recorder,
	defaultHours float64,
	defaultPageSize int,
) employee.EmployeeService {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &EmployeeServiceImpl{
		employeeRepo:    employeeRepo,
		cache:           c,
		activity:        recorder,
		defaultHours:    worktime.StandardHours(defaultHours, 0),
		defaultPageSize: defaultPageSize,
	}
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return cache.Remember(ctx, s.cache, cache.EmployeeKey(id), []cache.Tag{cache.TagEmployees, cache.TagEmployee(id)},
		func(ctx context.Context) (employee.EmployeeResponse, error) {
			e, err := s.employeeRepo.GetByID(ctx, id)
			if err != nil {
				return employee.EmployeeResponse{}, err
			}
			return employee.NewEmployeeResponse(e), nil
		})
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, nil)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	newEmployee, err := s.fromRequest(req)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.invalidate(ctx, created.ID)
	s.activity.Record(ctx, activity.ActionCreate, "Added new employee: "+created.Name, auth.ActorID(ctx), &created.ID)

	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, &req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee email: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	changes, err := s.fromRequest(req.CreateEmployeeRequest)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	changes.ID = existing.ID
	changes.CreatedAt = existing.CreatedAt

	updated, err := s.employeeRepo.Update(ctx, changes)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Attendance and salary listings carry the employee's name and position.
	s.invalidate(ctx, updated.ID)
	cache.InvalidateQuietly(ctx, s.cache, cache.TagAttendance, cache.TagSalary)
	s.activity.Record(ctx, activity.ActionUpdate, "Updated employee: "+updated.Name, auth.ActorID(ctx), &updated.ID)

	return employee.NewEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Attendance and salary rows went with the employee.
	s.invalidate(ctx, id)
	cache.InvalidateQuietly(ctx, s.cache, cache.TagAttendance, cache.TagSalary)
	// The employee row is gone, so the audit entry cannot reference it.
	s.activity.Record(ctx, activity.ActionDelete, "Deleted employee: "+existing.Name, auth.ActorID(ctx), nil)

	return nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if filter.Limit == 0 {
		filter.Limit = s.defaultPageSize
	}
	if filter.Status != nil && (*filter.Status == "" || *filter.Status == "all") {
		filter.Status = nil
	}
	if filter.Search != nil && *filter.Search == "" {
		filter.Search = nil
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

func (s *EmployeeServiceImpl) StatusCounts(ctx context.Context) (employee.StatusCountsResponse, error) {
	return cache.Remember(ctx, s.cache, cache.Key("employees", "status_counts"), []cache.Tag{cache.TagEmployees},
		func(ctx context.Context) (employee.StatusCountsResponse, error) {
			counts, err := s.employeeRepo.CountByStatus(ctx)
			if err != nil {
				return employee.StatusCountsResponse{}, err
			}
			return employee.NewStatusCountsResponse(counts), nil
		})
}

func (s *EmployeeServiceImpl) ListActiveEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return cache.Remember(ctx, s.cache, cache.Key("employees", "active"), []cache.Tag{cache.TagEmployees},
		func(ctx context.Context) ([]employee.EmployeeResponse, error) {
			employees, err := s.employeeRepo.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			responses := make([]employee.EmployeeResponse, 0, len(employees))
			for _, e := range employees {
				responses = append(responses, employee.NewEmployeeResponse(e))
			}
			return responses, nil
		})
}

func (s *EmployeeServiceImpl) fromRequest(req employee.CreateEmployeeRequest) (employee.Employee, error) {
	hireDate, ok := validator.IsValidDate(req.HireDate)
	if !ok {
		return employee.Employee{}, validator.ValidationErrors{{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"}}
	}

	hours := s.defaultHours
	if req.WorkHoursPerDay != nil {
		hours = *req.WorkHoursPerDay
	}

	return employee.Employee{
		Name:            req.Name,
		Position:        req.Position,
		Email:           req.Email,
		Phone:           emptyToNil(req.Phone),
		Address:         emptyToNil(req.Address),
		HireDate:        hireDate,
		HourlyRate:      req.HourlyRate,
		MonthlyRate:     req.MonthlyRate,
		WorkHoursPerDay: hours,
		Status:          employee.Status(req.Status),
	}, nil
}

func (s *EmployeeServiceImpl) invalidate(ctx context.Context, id string) {
	cache.InvalidateQuietly(ctx, s.cache, cache.TagEmployees, cache.TagEmployee(id), cache.TagDashboard)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
