package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_QuotesTable(t *testing.T) {
	q := searchQuery(`reviews"; DROP TABLE x; --`)

	assert.Contains(t, q, `FROM "reviews""; DROP TABLE x; --"`)
	assert.Contains(t, q, "ORDER BY embedding <=> $1")
	assert.Contains(t, q, "LIMIT $2")
}

func TestSearchQuery_Default(t *testing.T) {
	assert.Contains(t, searchQuery(defaultTable), `FROM "professors"`)
}
