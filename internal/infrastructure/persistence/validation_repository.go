package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
	"gorm.io/gorm"
)

// GormValidationRepository implements ValidationRepository using GORM
type GormValidationRepository struct {
	db *gorm.DB
}

// NewGormValidationRepository creates a new GormValidationRepository
func NewGormValidationRepository(db *gorm.DB) *GormValidationRepository {
	return &GormValidationRepository{db: db}
}

// FindByID finds a validation by its ID
func (r *GormValidationRepository) FindByID(ctx context.Context, id uuid.UUID) (*supervision.Validation, error) {
	var validation supervision.Validation
	if err := r.db.WithContext(ctx).First(&validation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &validation, nil
}

// FindAll finds validations matching the filter, newest first
func (r *GormValidationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supervision.Validation, error) {
	var validations []supervision.Validation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&supervision.Validation{}), filter)
	query = applyPagination(query, filter, ValidationSortFields, "created_at")

	if err := query.Find(&validations).Error; err != nil {
		return nil, err
	}
	return validations, nil
}

// Save creates or updates a validation with an optimistic version check
func (r *GormValidationRepository) Save(ctx context.Context, validation *supervision.Validation) error {
	return saveAggregate(r.db.WithContext(ctx), validation, validation.ID, validation.Version)
}

// Count counts validations matching the filter
func (r *GormValidationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&supervision.Validation{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormValidationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "operation_type":
			query = query.Where("operation_type = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		case "consumed":
			query = query.Where("consumed = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

// Ensure GormValidationRepository implements ValidationRepository
var _ supervision.ValidationRepository = (*GormValidationRepository)(nil)

// GormValidationSettingsRepository stores the singleton validation
// threshold settings row
type GormValidationSettingsRepository struct {
	db *gorm.DB
}

// NewGormValidationSettingsRepository creates a new GormValidationSettingsRepository
func NewGormValidationSettingsRepository(db *gorm.DB) *GormValidationSettingsRepository {
	return &GormValidationSettingsRepository{db: db}
}

// Get loads the settings row
func (r *GormValidationSettingsRepository) Get(ctx context.Context) (*supervision.Settings, error) {
	var settings supervision.Settings
	if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the settings row
func (r *GormValidationSettingsRepository) Save(ctx context.Context, settings *supervision.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Ensure GormValidationSettingsRepository implements SettingsRepository
var _ supervision.SettingsRepository = (*GormValidationSettingsRepository)(nil)
