package repository

import (
	"fmt"
	"strconv"
	"strings"
)

func itoa(n int) string { return strconv.Itoa(n) }

// ListQuery captures the search/sort/paginate knobs shared by the permission
// and role listing endpoints.
type ListQuery struct {
	SearchValue    string
	SearchField    string // "name" or "key"
	SearchOperator string // "contains", "starts_with", "ends_with"
	SortBy         string
	SortDirection  string // "asc" or "desc"
	Limit          int
	Offset         int
}

var sortableColumns = map[string]string{
	"name":       "name",
	"key":        "key",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// searchClause renders "AND <col> ILIKE $n" for the query's search settings.
// Returns the empty string when no search was requested. The column is taken
// from a fixed whitelist; the value travels as a bind parameter.
func (q ListQuery) searchClause(args *[]interface{}, alias string) string {
	if q.SearchValue == "" {
		return ""
	}
	col := "name"
	if q.SearchField == "key" {
		col = "key"
	}
	if alias != "" {
		col = alias + "." + col
	}

	pattern := "%" + q.SearchValue + "%"
	switch q.SearchOperator {
	case "starts_with":
		pattern = q.SearchValue + "%"
	case "ends_with":
		pattern = "%" + q.SearchValue
	}

	*args = append(*args, pattern)
	return fmt.Sprintf(" AND %s ILIKE $%d", col, len(*args))
}

// orderClause renders "ORDER BY <col> <dir>" against the sortable-column
// whitelist, defaulting to name ascending.
func (q ListQuery) orderClause(alias string) string {
	col, ok := sortableColumns[q.SortBy]
	if !ok {
		col = "name"
	}
	if alias != "" {
		col = alias + "." + col
	}
	dir := "ASC"
	if strings.EqualFold(q.SortDirection, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

// limitClause renders "LIMIT $n OFFSET $m".
func (q ListQuery) limitClause(args *[]interface{}) string {
	*args = append(*args, q.Limit)
	limitPos := len(*args)
	*args = append(*args, q.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitPos, len(*args))
}
