package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"MonetizationEngine/internal/config"
	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/ports"
)

// Ranker turns raw catalog candidates into the final ordered selection for
// one placement.
type Ranker struct {
	catalog ports.CatalogReader
	cfg     config.EngineConfig
	logger  *slog.Logger
}

// NewRanker wires the catalog reader and configuration.
func NewRanker(catalog ports.CatalogReader, cfg config.EngineConfig, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{catalog: catalog, cfg: cfg, logger: logger}
}

// SelectionInput carries one placement's selection parameters.
type SelectionInput struct {
	CategoryID      int
	ConcentrationID int
	DegreeLevelCode int
	MaxPrograms     int
	SponsoredOnly   bool
	ExcludeIDs      []int
}

// SelectPrograms produces the deduplicated, diversity-capped, sponsorship-
// ordered program list for a placement. A catalog failure on the exact query
// is returned to the caller; the broadened fallback query degrades to the
// exact results on failure since a partial answer already exists.
func (r *Ranker) SelectPrograms(ctx context.Context, in SelectionInput) ([]domain.Program, error) {
	exact, err := r.catalog.QueryPrograms(ctx, domain.CatalogFilter{
		CategoryID:        in.CategoryID,
		ConcentrationID:   in.ConcentrationID,
		DegreeLevelCode:   in.DegreeLevelCode,
		ExcludeProgramIDs: in.ExcludeIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("exact candidate query: %w", err)
	}

	candidates := exact
	if len(exact) < r.cfg.MinProgramsRequired && r.cfg.EnableCategoryFallback && in.ConcentrationID != 0 {
		broad, bErr := r.catalog.QueryPrograms(ctx, domain.CatalogFilter{
			CategoryID:        in.CategoryID,
			DegreeLevelCode:   in.DegreeLevelCode,
			ExcludeProgramIDs: in.ExcludeIDs,
		})
		if bErr != nil {
			r.logger.Warn("category fallback query failed, continuing with exact matches",
				"category", in.CategoryID, "error", bErr)
		} else {
			candidates = mergePreferringFirst(exact, broad)
		}
	}

	sponsored, organic := partitionBySponsorship(candidates)
	sponsored = diversityFilter(sponsored, r.cfg.MaxProgramsPerSchool)
	organic = diversityFilter(organic, r.cfg.MaxProgramsPerSchool)

	var combined []domain.Program
	if in.SponsoredOnly {
		combined = sponsored
	} else {
		combined = append(combined, sponsored...)
		combined = append(combined, organic...)
	}
	if in.MaxPrograms > 0 && len(combined) > in.MaxPrograms {
		combined = combined[:in.MaxPrograms]
	}

	rankFinal(combined)
	return combined, nil
}

// mergePreferringFirst deduplicates by program ID; entries from the first
// list win conflicts and keep their positions.
func mergePreferringFirst(first, second []domain.Program) []domain.Program {
	seen := make(map[int]bool, len(first))
	merged := make([]domain.Program, 0, len(first)+len(second))
	for _, p := range first {
		seen[p.ID] = true
		merged = append(merged, p)
	}
	for _, p := range second {
		if !seen[p.ID] {
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}
	return merged
}

func partitionBySponsorship(programs []domain.Program) (sponsored, organic []domain.Program) {
	for _, p := range programs {
		if p.EffectivelySponsored() {
			sponsored = append(sponsored, p)
		} else {
			organic = append(organic, p)
		}
	}
	return sponsored, organic
}

// diversityFilter admits candidates in order while their institution stays
// under the per-school cap. Relative order is preserved; an institution that
// hits the cap never regains admission later.
func diversityFilter(programs []domain.Program, maxPerSchool int) []domain.Program {
	if maxPerSchool <= 0 {
		return programs
	}
	counts := map[int]int{}
	var out []domain.Program
	for _, p := range programs {
		if counts[p.Institution.ID] < maxPerSchool {
			counts[p.Institution.ID]++
			out = append(out, p)
		}
	}
	return out
}

// rankFinal orders the truncated selection: sponsored first, then higher
// tier, then name case-insensitively.
func rankFinal(programs []domain.Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		a, b := programs[i], programs[j]
		if a.EffectivelySponsored() != b.EffectivelySponsored() {
			return a.EffectivelySponsored()
		}
		if a.SponsorshipTier != b.SponsorshipTier {
			return a.SponsorshipTier > b.SponsorshipTier
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
