package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	defaults := PaginationDefaults{DefaultLimit: 10, MaxLimit: 100}

	cases := []struct {
		name   string
		limit  string
		offset string
		want   PaginationParams
	}{
		{"absent inputs use defaults", "", "", PaginationParams{Limit: 10, Offset: 0}},
		{"valid values pass through", "25", "50", PaginationParams{Limit: 25, Offset: 50}},
		{"limit clamped to max", "500", "0", PaginationParams{Limit: 100, Offset: 0}},
		{"limit at max is kept", "100", "0", PaginationParams{Limit: 100, Offset: 0}},
		{"zero limit falls back", "0", "0", PaginationParams{Limit: 10, Offset: 0}},
		{"negative limit falls back", "-5", "0", PaginationParams{Limit: 10, Offset: 0}},
		{"negative offset falls back", "10", "-1", PaginationParams{Limit: 10, Offset: 0}},
		{"non-numeric inputs fall back", "abc", "xyz", PaginationParams{Limit: 10, Offset: 0}},
		{"offset has no upper bound", "10", "100000", PaginationParams{Limit: 10, Offset: 100000}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePagination(tc.limit, tc.offset, defaults))
		})
	}
}

func TestParsePaginationDefaultAboveMax(t *testing.T) {
	// a misconfigured default still respects the cap
	d := PaginationDefaults{DefaultLimit: 200, MaxLimit: 100}
	got := ParsePagination("", "", d)
	assert.Equal(t, 100, got.Limit)
}
