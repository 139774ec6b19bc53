package ports

import (
	"context"

	"MonetizationEngine/internal/domain"
)

// CatalogReader serves eligible programs with their institutions embedded.
// Implementations must filter to active programs and active institutions and
// surface storage failures as errors; "no rows" is a nil error with an empty
// slice.
type CatalogReader interface {
	QueryPrograms(ctx context.Context, filter domain.CatalogFilter) ([]domain.Program, error)
}

// TaxonomyReader loads the category/concentration taxonomy and degree-level
// reference data.
type TaxonomyReader interface {
	ListTaxonomy(ctx context.Context) ([]domain.TaxonomyEntry, error)
	ListDegreeLevels(ctx context.Context) ([]domain.DegreeLevel, error)
}
