package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known("company_name"))
	assert.True(t, Known("billboards_table"))
	assert.False(t, Known("company"))
	assert.False(t, Known(""))
}

func TestTokenDelimiters(t *testing.T) {
	p, ok := catalogByName["contract_number"]
	require.True(t, ok)
	assert.Equal(t, "{{contract_number}}", p.Token())
}

func TestCatalogHasNoDuplicateNames(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Catalog() {
		assert.False(t, seen[p.Name], "duplicate token %s", p.Name)
		seen[p.Name] = true
		assert.NotEmpty(t, p.Label)
		assert.NotEmpty(t, p.Category)
	}
}

func TestByCategoryCoversSixCategories(t *testing.T) {
	grouped := ByCategory()
	assert.Len(t, grouped, 6)

	total := 0
	for _, entries := range grouped {
		total += len(entries)
	}
	assert.Equal(t, len(Catalog()), total)
}

func TestCategoriesSorted(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	for i := 1; i < len(cats); i++ {
		assert.Less(t, string(cats[i-1]), string(cats[i]))
	}
}
