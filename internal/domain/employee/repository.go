package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// ExistsByEmail ignores the employee with excludeID when it is set.
	ExistsByEmail(ctx context.Context, email string, excludeID *string) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
