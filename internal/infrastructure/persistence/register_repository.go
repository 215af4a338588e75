package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegisterRepository implements register.Repository using GORM
type GormRegisterRepository struct {
	db *gorm.DB
}

// NewGormRegisterRepository creates a new GormRegisterRepository
func NewGormRegisterRepository(db *gorm.DB) *GormRegisterRepository {
	return &GormRegisterRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*register.CashRegister, error) {
	var session register.CashRegister
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindOpenByCashier finds the cashier's open session
func (r *GormRegisterRepository) FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*register.CashRegister, error) {
	return r.findOpenByCashier(r.db.WithContext(ctx), cashierID)
}

// FindOpenByCashierForUpdate is FindOpenByCashier holding a row lock
// for the duration of the surrounding transaction
func (r *GormRegisterRepository) FindOpenByCashierForUpdate(ctx context.Context, cashierID uuid.UUID) (*register.CashRegister, error) {
	return r.findOpenByCashier(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		cashierID,
	)
}

func (r *GormRegisterRepository) findOpenByCashier(db *gorm.DB, cashierID uuid.UUID) (*register.CashRegister, error) {
	var session register.CashRegister
	if err := db.
		Where("cashier_id = ? AND status = ?", cashierID, register.StatusOpen).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindAll finds sessions matching the filter, newest first
func (r *GormRegisterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]register.CashRegister, error) {
	var sessions []register.CashRegister
	query := r.applyFilter(r.db.WithContext(ctx).Model(&register.CashRegister{}), filter)
	query = applyPagination(query, filter, RegisterSortFields, "opened_at")

	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountOpenedOn counts sessions opened on the given day
func (r *GormRegisterRepository) CountOpenedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&register.CashRegister{}).
		Where("opened_at >= ? AND opened_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a register number is taken
func (r *GormRegisterRepository) ExistsByNumber(ctx context.Context, registerNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&register.CashRegister{}).
		Where("register_number = ?", registerNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a session with an optimistic version check
func (r *GormRegisterRepository) Save(ctx context.Context, session *register.CashRegister) error {
	return saveAggregate(r.db.WithContext(ctx), session, session.ID, session.Version)
}

// Count counts sessions matching the filter
func (r *GormRegisterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&register.CashRegister{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRegisterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("register_number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "from":
			query = query.Where("opened_at >= ?", value)
		case "to":
			query = query.Where("opened_at < ?", value)
		}
	}
	return query
}

// Ensure GormRegisterRepository implements register.Repository
var _ register.Repository = (*GormRegisterRepository)(nil)

// GormRegisterSettingsRepository stores the singleton register settings row
type GormRegisterSettingsRepository struct {
	db *gorm.DB
}

// NewGormRegisterSettingsRepository creates a new GormRegisterSettingsRepository
func NewGormRegisterSettingsRepository(db *gorm.DB) *GormRegisterSettingsRepository {
	return &GormRegisterSettingsRepository{db: db}
}

// Get loads the settings row
func (r *GormRegisterSettingsRepository) Get(ctx context.Context) (*register.Settings, error) {
	var settings register.Settings
	if err := r.db.WithContext(ctx).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the settings row
func (r *GormRegisterSettingsRepository) Save(ctx context.Context, settings *register.Settings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

// Ensure GormRegisterSettingsRepository implements register.SettingsRepository
var _ register.SettingsRepository = (*GormRegisterSettingsRepository)(nil)
