package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/activity"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwt.Service
	tx       database.Transactor
	activity activity.Recorder
	clock    clock.Clock
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	jwtService jwt.Service,
	refreshTokenRepository auth.RefreshTokenRepository,
	recorder activity.Recorder,
	clk clock.Clock,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		tx:                     tx,
		activity:               recorder,
		clock:                  clk,
	}
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+"

// GeneratePassword returns a random password of length n.
func GeneratePassword(n int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}

func (a *AuthServiceImpl) accessClaims(u user.User) jwt.AccessClaims {
	return jwt.AccessClaims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := loginReq.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	var tokenResponse auth.TokenResponse

	userData, err := a.UserRepository.GetByUsername(ctx, loginReq.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			a.activity.Record(ctx, activity.ActionLoginFailed, "Failed login attempt for username: "+loginReq.Username, nil, nil)
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		a.activity.Record(ctx, activity.ActionLoginFailed, "Failed login attempt for username: "+loginReq.Username, nil, nil)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	now := a.clock.Now()
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(a.accessClaims(userData))
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		err = a.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
		if err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}

		return a.UserRepository.UpdateLastLogin(txCtx, userData.ID, now)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	userData.LastLogin = &now
	tokenResponse.User = user.NewUserResponse(userData)

	a.activity.Record(ctx, activity.ActionLogin, "User logged in", &userData.ID, nil)

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.AccessToken != "" {
		a.Service.RevokeToken(req.AccessToken, req.AccessTokenExpiresAt)
	}

	if req.RefreshToken != "" {
		err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			_, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(txCtx, req.RefreshToken)
			if err != nil {
				return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
			}
			if !isRevoked {
				if err := a.RefreshTokenRepository.RevokeRefreshToken(txCtx, req.RefreshToken); err != nil {
					return fmt.Errorf("failed to revoke refresh token: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	a.activity.Record(ctx, activity.ActionLogout, "User logged out", auth.ActorID(ctx), nil)
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify signature, expiry and type
	if _, err := a.Service.ParseRefreshToken(ctx, req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	userID, isRevoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Get user, the role may have changed since login
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	// 4. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(a.accessClaims(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return user.UserResponse{}, auth.ErrUnauthenticated
	}

	userData, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(userData), nil
}

// ChangePassword implements auth.AuthService. Other sessions of the user are
// signed out.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.ErrUnauthenticated
	}

	userData, err := a.UserRepository.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrCurrentPasswordMismatch
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, userData.ID, hashed); err != nil {
			return err
		}
		return a.RefreshTokenRepository.RevokeAllForUser(txCtx, userData.ID)
	})
	if err != nil {
		return err
	}

	a.activity.Record(ctx, activity.ActionChangePassword, "Changed password", &userData.ID, nil)
	return nil
}

// RegisterUser implements auth.AuthService.
func (a *AuthServiceImpl) RegisterUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	usernameTaken, emailTaken, err := a.UserRepository.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return user.UserResponse{}, err
	}
	if usernameTaken {
		return user.UserResponse{}, user.ErrUsernameExists
	}
	if emailTaken {
		return user.UserResponse{}, user.ErrUserEmailExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Name:         req.Name,
		Email:        req.Email,
		Role:         user.Role(req.Role),
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	a.activity.Record(ctx, activity.ActionRegister, "Registered new user: "+created.Username, auth.ActorID(ctx), nil)

	return user.NewUserResponse(created), nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, userID string) (user.ResetPasswordResponse, error) {
	target, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.ResetPasswordResponse{}, err
	}

	password, err := GeneratePassword(10)
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return user.ResetPasswordResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, target.ID, hashed); err != nil {
			return err
		}
		return a.RefreshTokenRepository.RevokeAllForUser(txCtx, target.ID)
	})
	if err != nil {
		return user.ResetPasswordResponse{}, err
	}

	a.activity.Record(ctx, activity.ActionResetPassword, "Reset password for user: "+target.Username, auth.ActorID(ctx), nil)

	return user.ResetPasswordResponse{UserID: target.ID, NewPassword: password}, nil
}
