package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUsernameExists          = errors.New("username already taken")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrAdminPrivilegeRequired  = errors.New("admin privilege required")
)
