package persistence

import (
	"strings"

	"github.com/labqueue/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies page/page-size windowing to a query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 200 {
		filter.PageSize = 200
	}
	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applySort applies ordering, restricted to a whitelist of sortable
// columns so filter input can never inject SQL
func applySort(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	column := strings.ToLower(strings.TrimSpace(filter.OrderBy))
	if column == "" || !allowed[column] {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	return query.Order(column + " " + dir)
}
