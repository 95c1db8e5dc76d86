package user

import (
	"time"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
	LastLogin   *string      `json:"last_login"`
	CreatedAt   string       `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: PermissionsFor(u.Role),
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		ll := u.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &ll
	}
	return resp
}

// CreateUserRequest is an admin registering a new account.
type CreateUserRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Role            string `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	errs := validator.Struct(r)

	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	} else if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username must be 3-50 characters of letters, numbers, dots, underscores or hyphens")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters long")
	} else if len(r.Password) > 255 {
		errs.Add("password", "password must not exceed 255 characters")
	}
	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	if validator.IsEmpty(r.Role) {
		r.Role = string(RoleUser)
	} else if !validator.IsInSlice(r.Role, Roles()) {
		errs.Add("role", "role must be one of: admin, manager, user")
	}

	return errs.OrNil()
}

// ResetPasswordResponse carries the generated password back to the admin once.
type ResetPasswordResponse struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}
