// Package bootstrap seeds the rows the system needs before it can take
// its first sale: the settings singletons, the register opening secret
// and the initial admin account. Seeding is idempotent; existing rows
// are never touched.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Seeder creates missing first-run rows at startup
type Seeder struct {
	users              identity.UserRepository
	registerSettings   register.SettingsRepository
	validationSettings supervision.SettingsRepository
	cfg                config.BootstrapConfig
	logger             *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(
	users identity.UserRepository,
	registerSettings register.SettingsRepository,
	validationSettings supervision.SettingsRepository,
	cfg config.BootstrapConfig,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{
		users:              users,
		registerSettings:   registerSettings,
		validationSettings: validationSettings,
		cfg:                cfg,
		logger:             logger,
	}
}

// Run seeds everything that is missing
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedValidationSettings(ctx); err != nil {
		return fmt.Errorf("seed validation settings: %w", err)
	}
	if err := s.seedRegisterSettings(ctx); err != nil {
		return fmt.Errorf("seed register settings: %w", err)
	}
	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

func (s *Seeder) seedValidationSettings(ctx context.Context) error {
	_, err := s.validationSettings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if err := s.validationSettings.Save(ctx, supervision.DefaultSettings()); err != nil {
		return err
	}
	s.logger.Info("Seeded default validation settings")
	return nil
}

func (s *Seeder) seedRegisterSettings(ctx context.Context) error {
	_, err := s.registerSettings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if s.cfg.OpeningSecret == "" {
		s.logger.Warn("No register settings row and bootstrap.opening_secret is empty; " +
			"registers cannot be opened until one is configured")
		return nil
	}

	hash, err := identity.HashPassword(s.cfg.OpeningSecret)
	if err != nil {
		return err
	}

	settings := &register.Settings{
		BaseEntity:           shared.NewBaseEntity(),
		OpeningSecretHash:    hash,
		DefaultOpeningAmount: decimal.Zero,
	}
	if err := s.registerSettings.Save(ctx, settings); err != nil {
		return err
	}
	s.logger.Info("Seeded register settings with opening secret")
	return nil
}

func (s *Seeder) seedAdminUser(ctx context.Context) error {
	_, err := s.users.FindByUsername(ctx, s.cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if s.cfg.AdminPassword == "" {
		s.logger.Warn("Admin user missing and bootstrap.admin_password is empty; skipping",
			zap.String("username", s.cfg.AdminUsername))
		return nil
	}

	admin, err := identity.NewUser(s.cfg.AdminUsername, s.cfg.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("Seeded initial admin user", zap.String("username", admin.Username))
	return nil
}
