package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProformaRepository implements ProformaRepository using GORM
type GormProformaRepository struct {
	db *gorm.DB
}

// NewGormProformaRepository creates a new GormProformaRepository
func NewGormProformaRepository(db *gorm.DB) *GormProformaRepository {
	return &GormProformaRepository{db: db}
}

// FindByID finds a proforma with its items
func (r *GormProformaRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Proforma, error) {
	var proforma sales.Proforma
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&proforma, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proforma, nil
}

// FindByNumber finds a proforma by its number
func (r *GormProformaRepository) FindByNumber(ctx context.Context, number string) (*sales.Proforma, error) {
	var proforma sales.Proforma
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&proforma, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proforma, nil
}

// FindAll finds proformas matching the filter, newest first
func (r *GormProformaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Proforma, error) {
	var proformas []sales.Proforma
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Proforma{}), filter)
	query = applyPagination(query, filter, ProformaSortFields, "created_at")

	if err := query.Preload("Items").Find(&proformas).Error; err != nil {
		return nil, err
	}
	return proformas, nil
}

// FindExpiredDrafts finds draft proformas whose validity deadline passed
// before the given time
func (r *GormProformaRepository) FindExpiredDrafts(ctx context.Context, before time.Time) ([]sales.Proforma, error) {
	var proformas []sales.Proforma
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND valid_until < ?", sales.ProformaStatusDraft, before).
		Find(&proformas).Error; err != nil {
		return nil, err
	}
	return proformas, nil
}

// CountCreatedOn counts proformas created on the given day
func (r *GormProformaRepository) CountCreatedOn(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Proforma{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a proforma number is taken
func (r *GormProformaRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Proforma{}).
		Where("number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a proforma and its items with an optimistic
// version check. On update the item rows are reconciled against the
// aggregate: current items are upserted, removed ones deleted.
func (r *GormProformaRepository) Save(ctx context.Context, proforma *sales.Proforma) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := upsertAggregate(tx, proforma, proforma.ID, proforma.Version)
		if err != nil {
			return err
		}
		if created {
			return nil
		}
		return r.syncItems(tx, proforma)
	})
}

func (r *GormProformaRepository) syncItems(tx *gorm.DB, proforma *sales.Proforma) error {
	keep := make([]uuid.UUID, 0, len(proforma.Items))
	for i := range proforma.Items {
		keep = append(keep, proforma.Items[i].ID)
	}

	if len(proforma.Items) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&proforma.Items).Error; err != nil {
			return err
		}
	}

	query := tx.Where("proforma_id = ?", proforma.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(&sales.ProformaItem{}).Error
}

// Count counts proformas matching the filter
func (r *GormProformaRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Proforma{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProformaRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

// Ensure GormProformaRepository implements ProformaRepository
var _ sales.ProformaRepository = (*GormProformaRepository)(nil)
