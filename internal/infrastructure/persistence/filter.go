package persistence

import (
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies ordering and pagination from a filter. The sort
// field is checked against the repository's whitelist so a caller cannot
// inject arbitrary SQL through OrderBy.
func applyPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, sortFields, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}
