package auth

import "errors"

var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrTokenExpired            = errors.New("token has expired")
	ErrRefreshTokenRevoked     = errors.New("refresh token has been revoked")
	ErrUnauthenticated         = errors.New("authentication required")
	ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
)
