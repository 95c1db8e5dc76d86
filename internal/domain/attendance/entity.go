package attendance

import "time"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
)

func Statuses() []string {
	return []string{string(StatusPresent), string(StatusAbsent), string(StatusHalfDay), string(StatusLate), string(StatusLeave)}
}

// Attendance is one employee's record for one calendar date.
// WorkHours, IsOvertime and OvertimeHours are derived from the check-in and
// check-out times when the row is written.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	Status        Status
	CheckInTime   *string // HH:MM:SS
	CheckOutTime  *string
	WorkHours     *float64
	IsOvertime    bool
	OvertimeHours float64
	Note          *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined from employees
	EmployeeName     string
	EmployeePosition string
}

// UnmarkedEmployee is an active employee with no attendance row for a date.
type UnmarkedEmployee struct {
	ID       string
	Name     string
	Position string
}
