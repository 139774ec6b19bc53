package engine

import (
	"errors"
	"strings"
	"unicode"

	"MonetizationEngine/internal/domain"
)

// Topic-match score weights. Substring hits on the full label dominate;
// token containment adds smaller per-word bonuses.
const (
	scoreConcentrationSubstring = 100
	scoreCategorySubstring      = 50
	scoreConcentrationWord      = 25
	scoreCategoryWord           = 15

	minTokenLength = 4

	confidenceHighThreshold   = 75
	confidenceMediumThreshold = 40
)

// ErrNoMatch is returned when every taxonomy entry scores zero for a topic.
var ErrNoMatch = errors.New("topic matched no taxonomy entry")

// Matcher scores free-text topics against an in-memory taxonomy snapshot.
// It is a pure function of its snapshot: identical inputs always produce
// identical scores.
type Matcher struct {
	entries []domain.TaxonomyEntry
	levels  []domain.DegreeLevel
}

// NewMatcher builds a matcher over the given reference data. Inactive
// entries and levels are never matched.
func NewMatcher(entries []domain.TaxonomyEntry, levels []domain.DegreeLevel) *Matcher {
	return &Matcher{entries: entries, levels: levels}
}

// Match returns the best-scoring active taxonomy entry for a topic, or
// ErrNoMatch when nothing scores above zero. A degreeLevel hint, when
// non-empty, is resolved by partial name match; an unresolvable hint leaves
// DegreeLevelCode zero without failing the match.
func (m *Matcher) Match(topic, degreeLevel string) (domain.TopicMatch, error) {
	topicLower := strings.ToLower(topic)
	topicWords := splitWords(topicLower)

	// Ties keep the earliest entry, so a fixed snapshot order makes the
	// matcher fully deterministic.
	best := domain.TopicMatch{}
	for _, entry := range m.entries {
		if !entry.Active {
			continue
		}
		score := scoreEntry(topicLower, topicWords, entry)
		if score > best.Score {
			best = domain.TopicMatch{
				CategoryID:      entry.CategoryID,
				ConcentrationID: entry.ConcentrationID,
				Entry:           entry,
				Score:           score,
			}
		}
	}

	if best.Score == 0 {
		return domain.TopicMatch{}, ErrNoMatch
	}

	best.Confidence = confidenceFor(best.Score)
	if degreeLevel != "" {
		if level, ok := m.resolveLevel(degreeLevel); ok {
			best.DegreeLevelCode = level.Code
		}
	}

	return best, nil
}

func (m *Matcher) resolveLevel(text string) (domain.DegreeLevel, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return domain.DegreeLevel{}, false
	}
	for _, level := range m.levels {
		if !level.Active {
			continue
		}
		name := strings.ToLower(level.Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return level, true
		}
	}
	return domain.DegreeLevel{}, false
}

func scoreEntry(topicLower string, topicWords []string, entry domain.TaxonomyEntry) int {
	conc := strings.ToLower(entry.ConcentrationName)
	cat := strings.ToLower(entry.CategoryName)

	score := 0
	if conc != "" && strings.Contains(topicLower, conc) {
		score += scoreConcentrationSubstring
	}
	if cat != "" && strings.Contains(topicLower, cat) {
		score += scoreCategorySubstring
	}

	for _, w := range splitWords(conc) {
		if len(w) >= minTokenLength && wordOverlaps(topicWords, w) {
			score += scoreConcentrationWord
		}
	}
	for _, w := range splitWords(cat) {
		if len(w) >= minTokenLength && wordOverlaps(topicWords, w) {
			score += scoreCategoryWord
		}
	}

	return score
}

// wordOverlaps reports containment in either direction between a label word
// and any topic word.
func wordOverlaps(topicWords []string, labelWord string) bool {
	for _, tw := range topicWords {
		if strings.Contains(tw, labelWord) || strings.Contains(labelWord, tw) {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func confidenceFor(score int) domain.MatchConfidence {
	switch {
	case score > confidenceHighThreshold:
		return domain.ConfidenceHigh
	case score > confidenceMediumThreshold:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
