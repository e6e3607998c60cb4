package config

import (
	"context"
	"errors"
	"fmt"

	"patshala-server/internal/domain"
)

// superAdminSeeder creates the first super_admin when none exists.
type superAdminSeeder interface {
	EnsureSuperAdmin(ctx context.Context, email, password, name string) (*domain.User, bool, error)
}

// seedSuperAdmin runs on every start. It is a no-op without SUPER_ADMIN_EMAIL.
func seedSuperAdmin(ctx context.Context, cfg domain.Config, seeder superAdminSeeder, logger domain.Logger) error {
	email := cfg.GetSuperAdminEmail()
	if email == "" {
		logger.Debug("SUPER_ADMIN_EMAIL not set, skipping super admin seed")
		return nil
	}
	if cfg.GetSuperAdminPassword() == "" {
		return errors.New("SUPER_ADMIN_PASSWORD is required when SUPER_ADMIN_EMAIL is set")
	}

	user, created, err := seeder.EnsureSuperAdmin(ctx, email, cfg.GetSuperAdminPassword(), cfg.GetSuperAdminName())
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	if created {
		logger.Info("Super admin created", "email", user.Email)
	} else {
		logger.Info("Super admin already present", "email", user.Email)
	}
	return nil
}

// warnInsecureDefaults flags settings that are only safe for local development.
func warnInsecureDefaults(cfg domain.Config, logger domain.Logger) {
	if cfg.PersistenceEnabled() && cfg.UsesDefaultJWTSecret() && !cfg.IsDebug() {
		logger.Warn("JWT_SECRET not set, access tokens are signed with the public default secret")
	}
}
