package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	Me(ctx context.Context) (user.UserResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	RegisterUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	ResetPassword(ctx context.Context, userID string) (user.ResetPasswordResponse, error)
}
