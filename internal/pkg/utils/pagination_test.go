package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name               string
		total, page, lim   int
		wantStart, wantEnd int
		want               Pagination
	}{
		{
			name: "first page", total: 30, page: 1, lim: 12,
			wantStart: 0, wantEnd: 12,
			want: Pagination{Page: 1, Limit: 12, Total: 30, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name: "last partial page", total: 30, page: 3, lim: 12,
			wantStart: 24, wantEnd: 30,
			want: Pagination{Page: 3, Limit: 12, Total: 30, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "exact boundary", total: 24, page: 2, lim: 12,
			wantStart: 12, wantEnd: 24,
			want: Pagination{Page: 2, Limit: 12, Total: 24, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name: "beyond range", total: 5, page: 4, lim: 12,
			wantStart: 5, wantEnd: 5,
			want: Pagination{Page: 4, Limit: 12, Total: 5, TotalPages: 1, HasNext: false, HasPrev: true},
		},
		{
			name: "page number overflowing offset", total: 3, page: math.MaxInt/12 + 1, lim: 12,
			wantStart: 3, wantEnd: 3,
			want: Pagination{Page: math.MaxInt/12 + 1, Limit: 12, Total: 3, TotalPages: 1, HasNext: false, HasPrev: true},
		},
		{
			name: "max int page", total: 30, page: math.MaxInt, lim: 100,
			wantStart: 30, wantEnd: 30,
			want: Pagination{Page: math.MaxInt, Limit: 100, Total: 30, TotalPages: 1, HasNext: false, HasPrev: true},
		},
		{
			name: "empty", total: 0, page: 1, lim: 12,
			wantStart: 0, wantEnd: 0,
			want: Pagination{Page: 1, Limit: 12, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, meta := Paginate(tt.total, tt.page, tt.lim)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.want, meta)
		})
	}
}
