package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/shared"
)

// allowedOrderColumns guards ORDER BY against injection: only column names
// listed here may come from a client-supplied filter.
var allowedOrderColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"sort_order":   true,
	"order_number": true,
	"status":       true,
	"total":        true,
	"email":        true,
	"installed_at": true,
	"started_at":   true,
}

// applyFilter applies search, ordering and pagination from a shared.Filter.
// searchColumns lists the columns matched with ILIKE when Search is set.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	query = applySearch(query, filter, searchColumns...)

	if filter.OrderBy != "" && allowedOrderColumns[filter.OrderBy] {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applySearch applies only the search clause, for Count queries that must
// not paginate
func applySearch(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search == "" || len(searchColumns) == 0 {
		return query
	}

	pattern := "%" + filter.Search + "%"
	clause := ""
	args := make([]interface{}, 0, len(searchColumns))
	for i, col := range searchColumns {
		if i > 0 {
			clause += " OR "
		}
		clause += col + " LIKE ?"
		args = append(args, pattern)
	}
	return query.Where(clause, args...)
}
