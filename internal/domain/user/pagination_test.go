package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		total, page, limit int64
		expectedTotalPages int64
	}{
		{name: "exact multiple", total: 20, page: 1, limit: 10, expectedTotalPages: 2},
		{name: "partial last page", total: 21, page: 3, limit: 10, expectedTotalPages: 3},
		{name: "empty", total: 0, page: 1, limit: 10, expectedTotalPages: 0},
		{name: "zero limit", total: 5, page: 1, limit: 0, expectedTotalPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.expectedTotalPages, p.TotalPages)
		})
	}
}
