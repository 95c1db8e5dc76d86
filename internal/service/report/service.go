package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/export"
)

const dateLayout = "2006-01-02"

var (
	attendanceColumns = []string{"Employee", "Date", "Status", "Check In", "Check Out", "Work Hours", "Overtime", "Note"}
	salaryColumns     = []string{"Employee", "Period", "Basic Salary", "Overtime Pay", "Bonus", "Deductions", "Total Salary", "Status", "Payment Date"}
	employeeColumns   = []string{"Name", "Position", "Email", "Phone", "Hire Date", "Status", "Salary Rate"}
	summaryColumns    = []string{"Metric", "Value"}
)

type ReportServiceImpl struct {
	reportRepo   report.ReportRepository
	employeeRepo employee.EmployeeRepository
	clock        clock.Clock
	currency     string
}

func NewReportService(reportRepo report.ReportRepository, employeeRepo employee.EmployeeRepository, clk clock.Clock, currency string) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:   reportRepo,
		employeeRepo: employeeRepo,
		clock:        clk,
		currency:     currency,
	}
}

func (s *ReportServiceImpl) Generate(ctx context.Context, filter report.ReportFilter) (report.Report, error) {
	if err := filter.Validate(); err != nil {
		return report.Report{}, err
	}

	now := s.clock.Now()
	period, err := report.ResolveRange(filter.DateRange, filter.StartDate, filter.EndDate, now)
	if err != nil {
		return report.Report{}, err
	}

	scope := report.Scope{Period: period, EmployeeID: filter.EmployeeID, Status: filter.Status}

	subtitle := period.Start.Format(dateLayout) + " - " + period.End.Format(dateLayout)
	if filter.EmployeeID != nil {
		emp, err := s.employeeRepo.GetByID(ctx, *filter.EmployeeID)
		if err != nil {
			return report.Report{}, err
		}
		subtitle = fmt.Sprintf("%s (%s) - %s", emp.Name, emp.Position, subtitle)
	}

	out := report.Report{
		Type:        string(filter.Type),
		Subtitle:    subtitle,
		StartDate:   period.Start.Format(dateLayout),
		EndDate:     period.End.Format(dateLayout),
		GeneratedAt: now.Format(time.RFC3339),
	}

	switch filter.Type {
	case report.TypeAttendance:
		out.Title = "Attendance Report"
		out.Columns = attendanceColumns
		out.Attendance, err = s.attendanceReport(ctx, scope)
	case report.TypeSalary:
		out.Title = "Salary Report"
		out.Columns = salaryColumns
		out.Salary, err = s.salaryReport(ctx, scope)
	case report.TypeEmployee:
		out.Title = "Employee Report"
		out.Columns = employeeColumns
		out.Employee, err = s.employeeReport(ctx, scope)
		if err == nil {
			out.Subtitle = fmt.Sprintf("Total Employees: %d", len(out.Employee.Rows))
		}
	case report.TypeSummary:
		out.Title = "Summary Report"
		out.Summary, err = s.summaryReport(ctx, scope)
	default:
		return report.Report{}, report.ErrInvalidReportType
	}
	if err != nil {
		return report.Report{}, err
	}

	return out, nil
}

func (s *ReportServiceImpl) attendanceReport(ctx context.Context, scope report.Scope) (*report.AttendanceReport, error) {
	rows, err := s.reportRepo.AttendanceRows(ctx, scope)
	if err != nil {
		return nil, err
	}
	agg, err := s.reportRepo.AttendanceAggregate(ctx, scope)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, a := range rows {
		responses = append(responses, attendance.NewAttendanceResponse(a))
	}
	return &report.AttendanceReport{Rows: responses, Summary: report.NewAttendanceSummary(agg)}, nil
}

func (s *ReportServiceImpl) salaryReport(ctx context.Context, scope report.Scope) (*report.SalaryReport, error) {
	rows, err := s.reportRepo.SalaryRows(ctx, scope)
	if err != nil {
		return nil, err
	}
	agg, err := s.reportRepo.SalaryAggregate(ctx, scope)
	if err != nil {
		return nil, err
	}

	responses := make([]salary.SalaryResponse, 0, len(rows))
	for _, r := range rows {
		responses = append(responses, salary.NewSalaryResponse(r))
	}
	return &report.SalaryReport{Rows: responses, Summary: report.NewSalarySummary(agg, s.currency)}, nil
}

func (s *ReportServiceImpl) employeeReport(ctx context.Context, scope report.Scope) (*report.EmployeeReport, error) {
	rows, err := s.reportRepo.EmployeeRows(ctx, scope)
	if err != nil {
		return nil, err
	}

	counts := make(map[employee.Status]int64)
	responses := make([]employee.EmployeeResponse, 0, len(rows))
	for _, e := range rows {
		counts[e.Status]++
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return &report.EmployeeReport{Rows: responses, Summary: employee.NewStatusCountsResponse(counts)}, nil
}

// summaryReport aggregates the whole period. The status filter narrows only
// the employee count, since it names an employee status.
func (s *ReportServiceImpl) summaryReport(ctx context.Context, scope report.Scope) (*report.SummaryReport, error) {
	status := scope.Status
	scope.Status = nil

	att, err := s.reportRepo.AttendanceAggregate(ctx, scope)
	if err != nil {
		return nil, err
	}
	sal, err := s.reportRepo.SalaryAggregate(ctx, scope)
	if err != nil {
		return nil, err
	}
	total, err := s.reportRepo.EmployeeCount(ctx, status)
	if err != nil {
		return nil, err
	}

	return &report.SummaryReport{
		Attendance:     report.NewAttendanceSummary(att),
		Salary:         report.NewSalarySummary(sal, s.currency),
		TotalEmployees: total,
	}, nil
}

func (s *ReportServiceImpl) Export(ctx context.Context, filter report.ReportFilter, w io.Writer) (string, error) {
	rep, err := s.Generate(ctx, filter)
	if err != nil {
		return "", err
	}

	if err := export.WriteXLSX(w, Sheets(rep)...); err != nil {
		return "", fmt.Errorf("failed to export %s report: %w", rep.Type, err)
	}

	return fmt.Sprintf("%s_report_%s_to_%s.xlsx", rep.Type, rep.StartDate, rep.EndDate), nil
}
