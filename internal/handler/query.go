package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/authgrid/rbac-backend/internal/repository"
	"github.com/authgrid/rbac-backend/internal/response"
)

// parseListQuery reads the shared search/sort/paginate query params.
// Unknown sort fields and operators fall back to defaults downstream; the
// limit is clamped against the deployment's pagination settings.
func parseListQuery(c *gin.Context, defaults response.PaginationDefaults) repository.ListQuery {
	params := response.ParsePagination(c.Query("limit"), c.Query("offset"), defaults)
	return repository.ListQuery{
		SearchValue:    c.Query("search_value"),
		SearchField:    c.Query("search_field"),
		SearchOperator: c.Query("search_operator"),
		SortBy:         c.Query("sort_by"),
		SortDirection:  c.Query("sort_direction"),
		Limit:          params.Limit,
		Offset:         params.Offset,
	}
}
