package activity

import "time"

type Action string

const (
	ActionLogin          Action = "login"
	ActionLoginFailed    Action = "login_failed"
	ActionLogout         Action = "logout"
	ActionRegister       Action = "register"
	ActionChangePassword Action = "change_password"
	ActionResetPassword  Action = "reset_password"
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionBulkCreate     Action = "bulk_create"
)

// Activity is an append-only audit row. Rows are never updated or deleted.
type Activity struct {
	ID          string
	UserID      *string
	EmployeeID  *string
	Action      Action
	Description string
	CreatedAt   time.Time

	// Joined for display
	Username     *string
	EmployeeName *string
}
