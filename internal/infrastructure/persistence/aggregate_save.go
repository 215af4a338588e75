package persistence

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// saveAggregate creates the row on first save and otherwise replaces it,
// rejecting the write when the stored version is not older than the one
// being saved. Domain mutators increment the version, so a stale load
// shows up here as zero affected rows.
func saveAggregate(db *gorm.DB, value interface{}, id uuid.UUID, version int) error {
	_, err := upsertAggregate(db, value, id, version)
	return err
}

// upsertAggregate is saveAggregate reporting whether the row was created.
// Updates omit associations; callers that carry child rows sync them
// separately after an update. Create still writes them in one go.
func upsertAggregate(db *gorm.DB, value interface{}, id uuid.UUID, version int) (created bool, err error) {
	result := db.Model(value).
		Where("id = ? AND version < ?", id, version).
		Select("*").Omit("id", "created_at", "Items").
		Updates(value)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	var count int64
	if err := db.Model(value).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return true, db.Create(value).Error
	}
	return false, shared.ErrConcurrencyConflict
}
