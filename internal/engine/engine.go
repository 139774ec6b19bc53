package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"MonetizationEngine/internal/config"
	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/ports"
	"MonetizationEngine/internal/shortcode"
)

// Engine orchestrates topic-independent monetization for one article:
// resolve taxonomy, plan slots, select programs per slot, render markup.
// It is stateless across calls apart from immutable configuration and the
// reference-data snapshot, so concurrent invocations need no locking.
type Engine struct {
	cfg      config.EngineConfig
	ranker   *Ranker
	matcher  *Matcher
	taxonomy []domain.TaxonomyEntry
	levels   []domain.DegreeLevel
	logger   *slog.Logger
}

// New wires an engine with injected reference data and a catalog reader.
func New(cfg config.EngineConfig, catalog ports.CatalogReader, taxonomy []domain.TaxonomyEntry, levels []domain.DegreeLevel, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:      cfg,
		ranker:   NewRanker(catalog, cfg, logger.With("component", "ranker")),
		matcher:  NewMatcher(taxonomy, levels),
		taxonomy: taxonomy,
		levels:   levels,
		logger:   logger,
	}
}

// MatchTopic scores a free-text topic against the taxonomy snapshot.
func (e *Engine) MatchTopic(topic, degreeLevel string) (domain.TopicMatch, error) {
	return e.matcher.Match(topic, degreeLevel)
}

// Generate runs the full monetization pass for one request. Input problems
// come back as Success=false with a caller-displayable message and no
// partial slot list; the context is re-checked between slots so callers can
// cancel long multi-slot runs at slot boundaries.
func (e *Engine) Generate(ctx context.Context, req domain.MonetizationRequest) domain.GenerateResult {
	entry, ok := e.findTaxonomy(req.CategoryID, req.ConcentrationID)
	if !ok {
		return failure("category %d / concentration %d does not resolve to an active taxonomy entry", req.CategoryID, req.ConcentrationID)
	}

	var level domain.DegreeLevel
	if req.DegreeLevelCode != 0 {
		var found bool
		level, found = e.findLevel(req.DegreeLevelCode)
		if !found {
			return failure("degree level %d does not resolve to an active level", req.DegreeLevelCode)
		}
	}

	slots := req.Slots
	if len(slots) == 0 {
		slots = PlanSlots(req.ArticleType)
	}

	var (
		results  []domain.SlotResult
		excluded []int
		total    int
	)
	for _, slot := range slots {
		if err := ctx.Err(); err != nil {
			return failure("generation cancelled at slot %q: %v", slot.Name, err)
		}

		result, err := e.processSlot(ctx, slot, entry, level, excluded)
		if err != nil {
			return failure("slot %q: %v", slot.Name, err)
		}

		for _, p := range result.Programs {
			excluded = append(excluded, p.ProgramID)
		}
		total += len(result.Programs)
		results = append(results, result)
	}

	e.logger.Info("monetization generated",
		"article", req.ArticleID,
		"slots", len(results),
		"programs", total)

	return domain.GenerateResult{
		Success:               true,
		Slots:                 results,
		TotalProgramsSelected: total,
		Metadata: domain.GenerateMetadata{
			GenerationID: uuid.NewString(),
			GeneratedAt:  time.Now().UTC(),
			Config:       snapshot(e.cfg),
		},
	}
}

func (e *Engine) processSlot(ctx context.Context, slot domain.Slot, entry domain.TaxonomyEntry, level domain.DegreeLevel, excluded []int) (domain.SlotResult, error) {
	if slot.Style == domain.StyleQDF {
		markup, err := shortcode.RenderQDF(qdfHeader(entry))
		if err != nil {
			return domain.SlotResult{}, err
		}
		return domain.SlotResult{Slot: slot, Markup: markup}, nil
	}

	maxPrograms := slot.MaxPrograms
	if maxPrograms <= 0 {
		maxPrograms = e.cfg.DefaultMaxPrograms
	}

	selected, err := e.ranker.SelectPrograms(ctx, SelectionInput{
		CategoryID:      entry.CategoryID,
		ConcentrationID: entry.ConcentrationID,
		DegreeLevelCode: level.Code,
		MaxPrograms:     maxPrograms,
		ExcludeIDs:      excluded,
	})
	if err != nil {
		return domain.SlotResult{}, err
	}

	// A placement with nothing to promote degrades to the widget so the
	// downstream renderer never sees an empty picks tag.
	if len(selected) == 0 {
		markup, rErr := shortcode.RenderQDF(qdfHeader(entry))
		if rErr != nil {
			return domain.SlotResult{}, rErr
		}
		return domain.SlotResult{Slot: slot, Markup: markup}, nil
	}

	markup, err := shortcode.RenderPicks(slot.Style, shortcode.PicksParams{
		CategoryID:      entry.CategoryID,
		ConcentrationID: entry.ConcentrationID,
		LevelCode:       level.Code,
		Header:          picksHeader(entry, level),
		CTAButton:       "View Programs",
		CTAURL:          shortcode.BuildCTAURL(level.Name, entry.CategoryName, entry.ConcentrationName),
	})
	if err != nil {
		return domain.SlotResult{}, err
	}

	result := domain.SlotResult{Slot: slot, Markup: markup}
	for _, p := range selected {
		result.Programs = append(result.Programs, domain.SelectedProgram{
			ProgramID:       p.ID,
			ProgramName:     p.Name,
			InstitutionID:   p.Institution.ID,
			InstitutionName: p.Institution.Name,
			Sponsored:       p.EffectivelySponsored(),
			SponsorshipTier: p.SponsorshipTier,
		})
		if p.EffectivelySponsored() {
			result.HasSponsored = true
		}
	}
	return result, nil
}

func (e *Engine) findTaxonomy(categoryID, concentrationID int) (domain.TaxonomyEntry, bool) {
	if categoryID == 0 || concentrationID == 0 {
		return domain.TaxonomyEntry{}, false
	}
	for _, entry := range e.taxonomy {
		if entry.Active && entry.CategoryID == categoryID && entry.ConcentrationID == concentrationID {
			return entry, true
		}
	}
	return domain.TaxonomyEntry{}, false
}

func (e *Engine) findLevel(code int) (domain.DegreeLevel, bool) {
	for _, level := range e.levels {
		if level.Active && level.Code == code {
			return level, true
		}
	}
	return domain.DegreeLevel{}, false
}

func picksHeader(entry domain.TaxonomyEntry, level domain.DegreeLevel) string {
	if level.Name != "" {
		return fmt.Sprintf("Best %s %s Programs", level.Name, entry.ConcentrationName)
	}
	return fmt.Sprintf("Best %s Programs", entry.ConcentrationName)
}

func qdfHeader(entry domain.TaxonomyEntry) string {
	return fmt.Sprintf("Find Your %s Degree", entry.ConcentrationName)
}

func failure(format string, args ...any) domain.GenerateResult {
	return domain.GenerateResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

func snapshot(cfg config.EngineConfig) domain.ConfigSnapshot {
	return domain.ConfigSnapshot{
		MinProgramsRequired:                cfg.MinProgramsRequired,
		MaxProgramsPerSchool:               cfg.MaxProgramsPerSchool,
		DefaultMaxPrograms:                 cfg.DefaultMaxPrograms,
		SponsoredPriorityRatio:             cfg.SponsoredPriorityRatio,
		EnableCategoryFallback:             cfg.EnableCategoryFallback,
		EnableRelatedConcentrationFallback: cfg.EnableRelatedConcentrationFallback,
	}
}
