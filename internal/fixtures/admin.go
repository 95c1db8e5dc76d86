// Package fixtures seeds the data a fresh installation needs before anyone
// can log in.
package fixtures

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/config"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	serviceAuth "github.com/cmlabs-hris/attendance-payroll-go/internal/service/auth"
)

const generatedPasswordLength = 16

// SeedAdmin creates the first admin account when the users table is empty.
// Without a configured password a random one is generated and logged once.
func SeedAdmin(ctx context.Context, users user.UserRepository, cfg config.BootstrapConfig) (bool, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	password := cfg.AdminPassword
	generated := password == ""
	if generated {
		password, err = serviceAuth.GeneratePassword(generatedPasswordLength)
		if err != nil {
			return false, fmt.Errorf("failed to generate admin password: %w", err)
		}
	}

	hashed, err := serviceAuth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := users.Create(ctx, user.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hashed,
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		Role:         user.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	if generated {
		slog.Warn("Seeded admin account with a generated password, change it after first login",
			"username", admin.Username, "password", password)
	} else {
		slog.Info("Seeded admin account", "username", admin.Username)
	}
	return true, nil
}
