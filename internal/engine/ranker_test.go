package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MonetizationEngine/internal/config"
	"MonetizationEngine/internal/domain"
)

// fakeCatalog emulates the storage adapter: exact-filter queries serve the
// exact list, concentration-relaxed queries serve the broad list, and the
// exclusion filter is applied to both.
type fakeCatalog struct {
	exact []domain.Program
	broad []domain.Program
	err   error
	calls []domain.CatalogFilter
}

func (f *fakeCatalog) QueryPrograms(_ context.Context, filter domain.CatalogFilter) ([]domain.Program, error) {
	f.calls = append(f.calls, filter)
	if f.err != nil {
		return nil, f.err
	}

	source := f.broad
	if filter.ConcentrationID != 0 {
		source = f.exact
	}

	excluded := map[int]bool{}
	for _, id := range filter.ExcludeProgramIDs {
		excluded[id] = true
	}

	var out []domain.Program
	for _, p := range source {
		if !excluded[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		MinProgramsRequired:    3,
		MaxProgramsPerSchool:   2,
		DefaultMaxPrograms:     4,
		SponsoredPriorityRatio: 0.7,
		EnableCategoryFallback: true,
	}
}

func prog(id int, name string, instID int, sponsored bool, tier int) domain.Program {
	return domain.Program{
		ID:              id,
		Name:            name,
		Institution:     domain.Institution{ID: instID, Name: "School", Active: true},
		CategoryID:      8,
		ConcentrationID: 18,
		Active:          true,
		Sponsored:       sponsored,
		SponsorshipTier: tier,
	}
}

func selectionInput(max int) SelectionInput {
	return SelectionInput{CategoryID: 8, ConcentrationID: 18, MaxPrograms: max}
}

func TestSelectProgramsDiversityCap(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(1, "A", 7, false, 0),
		prog(2, "B", 7, false, 0),
		prog(3, "C", 7, false, 0),
		prog(4, "D", 7, false, 0),
		prog(5, "E", 7, false, 0),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(10))
	require.NoError(t, err)
	assert.Len(t, selected, 2)
	for _, p := range selected {
		assert.Equal(t, 7, p.Institution.ID)
	}
}

func TestSelectProgramsSponsoredFirst(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(1, "Alpha", 1, false, 0),
		prog(2, "Beta", 2, false, 0),
		prog(3, "Gamma", 3, true, 5),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(3))
	require.NoError(t, err)
	require.Len(t, selected, 3)
	assert.True(t, selected[0].EffectivelySponsored())
	assert.Equal(t, 3, selected[0].ID)
}

func TestSelectProgramsInstitutionSponsorshipCounts(t *testing.T) {
	t.Parallel()

	sponsoredSchool := prog(1, "Alpha", 1, false, 0)
	sponsoredSchool.Institution.Sponsored = true

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(2, "Beta", 2, false, 0),
		sponsoredSchool,
		prog(3, "Gamma", 3, false, 0),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(3))
	require.NoError(t, err)
	require.Len(t, selected, 3)
	assert.Equal(t, 1, selected[0].ID)
}

func TestSelectProgramsTruncation(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(1, "A", 1, false, 0),
		prog(2, "B", 2, false, 0),
		prog(3, "C", 3, false, 0),
		prog(4, "D", 4, false, 0),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(2))
	require.NoError(t, err)
	assert.Len(t, selected, 2)
}

func TestSelectProgramsSponsoredOnly(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(1, "Alpha", 1, true, 2),
		prog(2, "Beta", 2, false, 0),
		prog(3, "Gamma", 3, true, 1),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	in := selectionInput(5)
	in.SponsoredOnly = true
	selected, err := r.SelectPrograms(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	for _, p := range selected {
		assert.True(t, p.EffectivelySponsored())
	}
}

func TestSelectProgramsFallbackBroadening(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		exact: []domain.Program{prog(1, "Exact", 1, false, 0)},
		broad: []domain.Program{
			prog(1, "Stale Duplicate", 1, false, 0),
			prog(2, "Broad B", 2, false, 0),
			prog(3, "Broad C", 3, false, 0),
		},
	}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(5))
	require.NoError(t, err)
	require.Len(t, selected, 3)

	// Both queries ran; the broadened one dropped the concentration filter.
	require.Len(t, catalog.calls, 2)
	assert.Equal(t, 18, catalog.calls[0].ConcentrationID)
	assert.Zero(t, catalog.calls[1].ConcentrationID)

	// The exact entry wins the dedup conflict.
	for _, p := range selected {
		if p.ID == 1 {
			assert.Equal(t, "Exact", p.Name)
		}
	}
}

func TestSelectProgramsFallbackNotConsultedWhenEnough(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{
		exact: []domain.Program{
			prog(1, "A", 1, false, 0),
			prog(2, "B", 2, false, 0),
			prog(3, "C", 3, false, 0),
		},
		broad: []domain.Program{prog(9, "Never Seen", 9, false, 0)},
	}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(5))
	require.NoError(t, err)
	assert.Len(t, catalog.calls, 1)
	for _, p := range selected {
		assert.NotEqual(t, 9, p.ID)
	}
}

func TestSelectProgramsFallbackDisabled(t *testing.T) {
	t.Parallel()

	cfg := testEngineConfig()
	cfg.EnableCategoryFallback = false
	catalog := &fakeCatalog{
		exact: []domain.Program{prog(1, "A", 1, false, 0)},
		broad: []domain.Program{prog(2, "B", 2, false, 0)},
	}
	r := NewRanker(catalog, cfg, nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(5))
	require.NoError(t, err)
	assert.Len(t, catalog.calls, 1)
	assert.Len(t, selected, 1)
}

func TestSelectProgramsFinalOrdering(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{exact: []domain.Program{
		prog(1, "zeta", 1, true, 1),
		prog(2, "alpha", 2, false, 0),
		prog(3, "Beta", 3, false, 0),
		prog(4, "omega", 4, true, 3),
	}}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(4))
	require.NoError(t, err)
	require.Len(t, selected, 4)

	// Sponsored desc, tier desc, then case-insensitive name asc.
	assert.Equal(t, []int{4, 1, 2, 3}, []int{selected[0].ID, selected[1].ID, selected[2].ID, selected[3].ID})
}

func TestSelectProgramsCatalogError(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{err: domain.ErrCatalogUnavailable}
	r := NewRanker(catalog, testEngineConfig(), nil)

	_, err := r.SelectPrograms(context.Background(), selectionInput(3))
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestSelectProgramsZeroCandidates(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{}
	r := NewRanker(catalog, testEngineConfig(), nil)

	selected, err := r.SelectPrograms(context.Background(), selectionInput(3))
	require.NoError(t, err)
	assert.Empty(t, selected)
}
