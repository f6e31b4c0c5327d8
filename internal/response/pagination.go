package response

import "strconv"

// PaginationDefaults configures limit/offset normalization per deployment.
type PaginationDefaults struct {
	DefaultLimit  int
	MaxLimit      int
	DefaultOffset int
}

// PaginationParams is a normalized limit/offset pair.
type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination normalizes raw query values into effective limit/offset.
// Non-numeric or absent inputs fall back to the configured defaults, and the
// limit is clamped to MaxLimit. Offset has no upper bound.
func ParsePagination(limit, offset string, d PaginationDefaults) PaginationParams {
	params := PaginationParams{Limit: d.DefaultLimit, Offset: d.DefaultOffset}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		params.Limit = n
	}
	if params.Limit > d.MaxLimit {
		params.Limit = d.MaxLimit
	}

	if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
		params.Offset = n
	}
	return params
}
