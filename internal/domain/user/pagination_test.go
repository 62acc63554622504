package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page       int64
		limit      int64
		totalPages int64
		offset     int64
	}{
		{name: "exact fit", total: 12, page: 1, limit: 6, totalPages: 2, offset: 0},
		{name: "partial last page", total: 12, page: 2, limit: 10, totalPages: 2, offset: 10},
		{name: "empty", total: 0, page: 1, limit: 10, totalPages: 0, offset: 0},
		{name: "zero limit", total: 5, page: 1, limit: 0, totalPages: 0, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.offset, p.Offset())
		})
	}
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ann Lee", User{FirstName: "Ann", LastName: "Lee"}.FullName())
}
