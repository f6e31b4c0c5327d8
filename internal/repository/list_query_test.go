package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchClause(t *testing.T) {
	t.Run("empty search renders nothing", func(t *testing.T) {
		args := []interface{}{}
		clause := ListQuery{}.searchClause(&args, "")
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("contains is the default operator", func(t *testing.T) {
		args := []interface{}{}
		clause := ListQuery{SearchValue: "adm"}.searchClause(&args, "")
		assert.Equal(t, " AND name ILIKE $1", clause)
		assert.Equal(t, []interface{}{"%adm%"}, args)
	})

	t.Run("starts_with and ends_with shape the pattern", func(t *testing.T) {
		args := []interface{}{}
		ListQuery{SearchValue: "adm", SearchOperator: "starts_with"}.searchClause(&args, "")
		ListQuery{SearchValue: "adm", SearchOperator: "ends_with"}.searchClause(&args, "")
		assert.Equal(t, []interface{}{"adm%", "%adm"}, args)
	})

	t.Run("key field and alias", func(t *testing.T) {
		args := []interface{}{"existing"}
		clause := ListQuery{SearchValue: "user", SearchField: "key"}.searchClause(&args, "p")
		assert.Equal(t, " AND p.key ILIKE $2", clause)
	})

	t.Run("unknown field falls back to name", func(t *testing.T) {
		args := []interface{}{}
		clause := ListQuery{SearchValue: "x", SearchField: "id; DROP TABLE"}.searchClause(&args, "")
		assert.Equal(t, " AND name ILIKE $1", clause)
	})
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY name ASC", ListQuery{}.orderClause(""))
	assert.Equal(t, " ORDER BY created_at DESC", ListQuery{SortBy: "created_at", SortDirection: "desc"}.orderClause(""))
	assert.Equal(t, " ORDER BY r.key ASC", ListQuery{SortBy: "key"}.orderClause("r"))
	// only whitelisted columns are sortable
	assert.Equal(t, " ORDER BY name ASC", ListQuery{SortBy: "password; --"}.orderClause(""))
	assert.Equal(t, " ORDER BY name ASC", ListQuery{SortDirection: "sideways"}.orderClause(""))
}

func TestLimitClause(t *testing.T) {
	args := []interface{}{"search"}
	clause := ListQuery{Limit: 10, Offset: 20}.limitClause(&args)
	assert.Equal(t, " LIMIT $2 OFFSET $3", clause)
	assert.Equal(t, []interface{}{"search", 10, 20}, args)
}
