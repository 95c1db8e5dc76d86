package report

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/export"
)

// Sheets lays a generated report out as worksheets: the data rows first,
// then a two-column summary.
func Sheets(rep report.Report) []export.Sheet {
	switch {
	case rep.Attendance != nil:
		return []export.Sheet{attendanceSheet(rep), attendanceSummarySheet(rep.Attendance.Summary)}
	case rep.Salary != nil:
		return []export.Sheet{salarySheet(rep), salarySummarySheet(rep.Salary.Summary)}
	case rep.Employee != nil:
		return []export.Sheet{employeeSheet(rep), employeeSummarySheet(rep.Employee.Summary)}
	case rep.Summary != nil:
		att := attendanceSummarySheet(rep.Summary.Attendance)
		att.Name = "Attendance"
		sal := salarySummarySheet(rep.Summary.Salary)
		sal.Name = "Salary"
		overview := export.Sheet{
			Name:    "Summary",
			Headers: summaryColumns,
			Rows: [][]interface{}{
				{"Report", rep.Title},
				{"Period", rep.Subtitle},
				{"Total Employees", rep.Summary.TotalEmployees},
			},
		}
		return []export.Sheet{overview, att, sal}
	}
	return []export.Sheet{{Name: "Report", Headers: summaryColumns}}
}

func attendanceSheet(rep report.Report) export.Sheet {
	rows := make([][]interface{}, 0, len(rep.Attendance.Rows))
	for _, a := range rep.Attendance.Rows {
		rows = append(rows, []interface{}{
			a.EmployeeName, a.Date, a.Status, a.CheckInTime, a.CheckOutTime, a.WorkHours, a.OvertimeHours, a.Note,
		})
	}
	return export.Sheet{Name: "Attendance", Headers: rep.Columns, Rows: rows}
}

func attendanceSummarySheet(sum report.AttendanceSummary) export.Sheet {
	return export.Sheet{
		Name:    "Summary",
		Headers: summaryColumns,
		Rows: [][]interface{}{
			{"Total Records", sum.TotalRecords},
			{"Present", sum.Present},
			{"Absent", sum.Absent},
			{"Half Day", sum.HalfDay},
			{"Late", sum.Late},
			{"Leave", sum.Leave},
			{"Total Work Hours", sum.WorkHours},
			{"Total Overtime Hours", sum.OvertimeHours},
		},
	}
}

func salarySheet(rep report.Report) export.Sheet {
	rows := make([][]interface{}, 0, len(rep.Salary.Rows))
	for _, r := range rep.Salary.Rows {
		rows = append(rows, []interface{}{
			r.EmployeeName,
			fmt.Sprintf("%04d-%02d", r.Year, r.Month),
			r.BasicSalary, r.OvertimePay, r.Bonus, r.Deductions, r.TotalSalary,
			r.PaymentStatus, r.PaymentDate,
		})
	}
	return export.Sheet{Name: "Salary", Headers: rep.Columns, Rows: rows}
}

func salarySummarySheet(sum report.SalarySummary) export.Sheet {
	return export.Sheet{
		Name:    "Summary",
		Headers: summaryColumns,
		Rows: [][]interface{}{
			{"Total Records", sum.TotalRecords},
			{"Total Basic", sum.TotalBasic},
			{"Total Overtime", sum.TotalOvertime},
			{"Total Bonus", sum.TotalBonus},
			{"Total Deductions", sum.TotalDeductions},
			{"Total Amount", sum.TotalAmount},
			{"Paid", sum.Paid},
			{"Pending", sum.Pending},
			{"Cancelled", sum.Cancelled},
			{"Currency", sum.CurrencyCode},
		},
	}
}

func employeeSheet(rep report.Report) export.Sheet {
	rows := make([][]interface{}, 0, len(rep.Employee.Rows))
	for _, e := range rep.Employee.Rows {
		rows = append(rows, []interface{}{
			e.Name, e.Position, e.Email, e.Phone, e.HireDate, e.Status, salaryRate(e),
		})
	}
	return export.Sheet{Name: "Employees", Headers: rep.Columns, Rows: rows}
}

func employeeSummarySheet(sum employee.StatusCountsResponse) export.Sheet {
	return export.Sheet{
		Name:    "Summary",
		Headers: summaryColumns,
		Rows: [][]interface{}{
			{"Total", sum.Total},
			{"Active", sum.Active},
			{"Inactive", sum.Inactive},
			{"On Leave", sum.OnLeave},
			{"Terminated", sum.Terminated},
		},
	}
}

// salaryRate prefers the monthly rate, as basic pay does.
func salaryRate(e employee.EmployeeResponse) string {
	switch {
	case e.MonthlyRate != nil && e.MonthlyRate.IsPositive():
		return e.MonthlyRate.StringFixed(2) + " / month"
	case e.HourlyRate != nil && e.HourlyRate.IsPositive():
		return e.HourlyRate.StringFixed(2) + " / hour"
	default:
		return ""
	}
}
