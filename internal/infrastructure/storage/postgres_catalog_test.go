package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"MonetizationEngine/internal/domain"
)

// A catalog without a database handle must fail with the typed catalog
// error, never a silent empty result.
func TestNilDatabaseIsCatalogUnavailable(t *testing.T) {
	t.Parallel()

	c := NewPostgresCatalog(nil)
	ctx := context.Background()

	_, err := c.QueryPrograms(ctx, domain.CatalogFilter{CategoryID: 8})
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = c.ListTaxonomy(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = c.ListDegreeLevels(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
