package helpers

import (
	"github.com/clicksapp/clicks/internal/app/models/dto"
)

// Pagination defaults and bounds
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CalculateOffsetLimit converts page/pageSize into SQL offset and limit,
// clamping out-of-range values to the defaults.
func CalculateOffsetLimit(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return (page - 1) * pageSize, pageSize
}

// NewPaginationInfo builds pagination metadata for a list response
func NewPaginationInfo(page, pageSize int, totalItems int64) dto.PaginationInfo {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	totalPages := int(totalItems) / pageSize
	if int(totalItems)%pageSize > 0 {
		totalPages++
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}
