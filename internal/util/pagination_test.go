package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page, size int
		wantFrom   int
		wantLimit  int
	}{
		{"defaults", 0, 0, 0, 10},
		{"first page", 1, 20, 0, 20},
		{"third page", 3, 20, 40, 20},
		{"negative page", -5, 20, 0, 20},
		{"oversized page size", 1, 1000, 0, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestLimitOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		limit, offset int
		wantLimit     int
		wantOffset    int
	}{
		{"defaults", 0, 0, 10, 0},
		{"passthrough", 50, 100, 50, 100},
		{"negative offset", 10, -1, 10, 0},
		{"limit capped", 10000, 0, 500, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			limit, offset := LimitOffset(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
