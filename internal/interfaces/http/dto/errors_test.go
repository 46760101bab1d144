package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"CATEGORY_NOT_FOUND", http.StatusNotFound},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"CATEGORY_NOT_EMPTY", http.StatusConflict},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"STORE_OFFLINE", http.StatusUnprocessableEntity},
		{"NO_COVERAGE", http.StatusUnprocessableEntity},
		{"MINIMUM_ORDER", http.StatusUnprocessableEntity},
		{"PRODUCT_UNAVAILABLE", http.StatusUnprocessableEntity},
		{"OUT_OF_HOURS", http.StatusUnprocessableEntity},
		{"INVALID_POLYGON", http.StatusBadRequest},
		{"UNKNOWN_OPTION", http.StatusBadRequest},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
		{"RATE_LIMITED", http.StatusTooManyRequests},
		{"SOME_BUSINESS_RULE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestListRequest_ToFilter(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
		assert.Equal(t, "desc", filter.OrderDir)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "bacalhau"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "name", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
		assert.Equal(t, "bacalhau", filter.Search)
	})
}
