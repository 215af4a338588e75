package supervision

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// ValidationRepository defines the interface for validation persistence
type ValidationRepository interface {
	// FindByID finds a validation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Validation, error)

	// FindAll finds validations matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Validation, error)

	// Save creates or updates a validation with an optimistic version check
	Save(ctx context.Context, validation *Validation) error

	// Count counts validations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SettingsRepository loads and saves the singleton settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
