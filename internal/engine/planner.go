package engine

import "MonetizationEngine/internal/domain"

// slotPlans maps each known article type to its ordered placement list.
// Unknown types use the "default" plan. QDF slots carry no program selection.
var slotPlans = map[string][]domain.Slot{
	"ranking": {
		{Name: "after_intro", Style: domain.StyleTable, MaxPrograms: 4},
		{Name: "mid_content", Style: domain.StyleCompact, MaxPrograms: 3},
		{Name: "conclusion", Style: domain.StyleQDF},
	},
	"guide": {
		{Name: "after_intro", Style: domain.StyleHero, MaxPrograms: 3},
		{Name: "mid_content", Style: domain.StyleCompact, MaxPrograms: 2},
		{Name: "conclusion", Style: domain.StyleQDF},
	},
	"listicle": {
		{Name: "after_intro", Style: domain.StyleCompact, MaxPrograms: 3},
		{Name: "mid_content", Style: domain.StyleTable, MaxPrograms: 4},
	},
	"explainer": {
		{Name: "after_intro", Style: domain.StyleCompact, MaxPrograms: 2},
		{Name: "conclusion", Style: domain.StyleQDF},
	},
	"review": {
		{Name: "after_intro", Style: domain.StyleHero, MaxPrograms: 1},
		{Name: "mid_content", Style: domain.StyleTable, MaxPrograms: 4},
	},
	"default": {
		{Name: "after_intro", Style: domain.StyleTable, MaxPrograms: 3},
		{Name: "conclusion", Style: domain.StyleQDF},
	},
}

// PlanSlots returns the placement list for an article type. The result is a
// copy; callers may mutate it freely.
func PlanSlots(articleType string) []domain.Slot {
	plan, ok := slotPlans[articleType]
	if !ok {
		plan = slotPlans["default"]
	}

	out := make([]domain.Slot, len(plan))
	copy(out, plan)
	return out
}
