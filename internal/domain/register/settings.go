package register

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Settings is the singleton row holding till-wide configuration:
// the shared opening secret (bcrypt hash, seeded at startup) and the
// default opening float.
type Settings struct {
	shared.BaseEntity
	OpeningSecretHash  string          `gorm:"type:varchar(100);not null"`
	DefaultOpeningAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "register_settings"
}

// UpdateOpeningSecret replaces the stored opening secret hash.
// Callers verify the current secret before invoking this.
func (s *Settings) UpdateOpeningSecret(newHash string) error {
	if newHash == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Opening secret hash cannot be empty")
	}

	s.OpeningSecretHash = newHash
	s.UpdatedAt = time.Now()

	return nil
}

// UpdateDefaultOpeningAmount sets the default opening float
func (s *Settings) UpdateDefaultOpeningAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Default opening amount cannot be negative")
	}

	s.DefaultOpeningAmount = amount
	s.UpdatedAt = time.Now()

	return nil
}
