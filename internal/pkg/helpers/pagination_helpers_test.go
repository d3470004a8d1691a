package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"zero page clamps to first", 0, 25, 0, 25},
		{"negative page clamps to first", -5, 25, 0, 25},
		{"zero size falls back to default", 2, 0, 20, 20},
		{"oversized limit falls back to default", 2, 500, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("computes total pages with remainder", func(t *testing.T) {
		info := NewPaginationInfo(45, 2, 20)
		assert.Equal(t, 2, info.CurrentPage)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, 20, info.PageSize)
		assert.Equal(t, int64(45), info.TotalItems)
	})

	t.Run("empty result still reports one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 20)
		assert.Equal(t, 1, info.CurrentPage)
		assert.Equal(t, 1, info.TotalPages)
		assert.Equal(t, int64(0), info.TotalItems)
	})

	t.Run("page past the end clamps to last page", func(t *testing.T) {
		info := NewPaginationInfo(10, 9, 20)
		assert.Equal(t, 1, info.CurrentPage)
		assert.Equal(t, 1, info.TotalPages)
	})
}
