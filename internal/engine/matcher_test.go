package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MonetizationEngine/internal/domain"
)

func testTaxonomy() []domain.TaxonomyEntry {
	return []domain.TaxonomyEntry{
		{CategoryID: 8, CategoryName: "Business", ConcentrationID: 18, ConcentrationName: "Accounting", Active: true},
		{CategoryID: 8, CategoryName: "Business", ConcentrationID: 19, ConcentrationName: "Marketing", Active: true},
		{CategoryID: 12, CategoryName: "Health", ConcentrationID: 31, ConcentrationName: "Nursing", Active: true},
		{CategoryID: 15, CategoryName: "Computer Science", ConcentrationID: 40, ConcentrationName: "Cybersecurity", Active: true},
		{CategoryID: 99, CategoryName: "Retired", ConcentrationID: 990, ConcentrationName: "Retired Track", Active: false},
	}
}

func testLevels() []domain.DegreeLevel {
	return []domain.DegreeLevel{
		{Code: 1, Name: "Associate", Active: true},
		{Code: 2, Name: "Bachelor's", Active: true},
		{Code: 3, Name: "Master's", Active: true},
		{Code: 9, Name: "Diploma", Active: false},
	}
}

func TestMatchPinnedScores(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())

	cases := []struct {
		name       string
		topic      string
		score      int
		category   int
		confidence domain.MatchConfidence
	}{
		{
			// 100 concentration substring + 25 concentration token;
			// "Business" also picks up 15 because it contains the
			// topic token "in".
			name:       "concentration substring",
			topic:      "Best Online MBA Programs in Accounting",
			score:      140,
			category:   8,
			confidence: domain.ConfidenceHigh,
		},
		{
			// Both full labels present: 100 + 50 + 25 + 15.
			name:       "both labels present",
			topic:      "Best Online Business Degree Programs in Accounting",
			score:      190,
			category:   8,
			confidence: domain.ConfidenceHigh,
		},
		{
			// Category substring (50) + category token (15) only.
			name:       "category only",
			topic:      "health careers outlook",
			score:      65,
			category:   12,
			confidence: domain.ConfidenceMedium,
		},
		{
			// "computers" contains the category word "computer" (15)
			// and "cybersecurity" contains the topic token "it" (25).
			// 40 is not above the medium threshold.
			name:       "weak token overlap",
			topic:      "are computers worth it",
			score:      40,
			category:   15,
			confidence: domain.ConfidenceLow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			match, err := m.Match(tc.topic, "")
			require.NoError(t, err)
			assert.Equal(t, tc.score, match.Score)
			assert.Equal(t, tc.category, match.CategoryID)
			assert.Equal(t, tc.confidence, match.Confidence)
		})
	}
}

func TestMatchHighConfidenceFloor(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())
	match, err := m.Match("Best Online Business Degree Programs in Accounting", "")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, match.Score, 175)
	assert.Equal(t, domain.ConfidenceHigh, match.Confidence)
}

func TestMatchNoEntryScores(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())
	_, err := m.Match("zzz qqq", "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatchSkipsInactiveEntries(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())
	_, err := m.Match("retired track overview", "")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatchResolvesDegreeLevel(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())

	match, err := m.Match("accounting degrees", "bachelor")
	require.NoError(t, err)
	assert.Equal(t, 2, match.DegreeLevelCode)

	// Unresolvable hints leave the code zero without failing the match.
	match, err = m.Match("accounting degrees", "postdoctoral fellowship")
	require.NoError(t, err)
	assert.Zero(t, match.DegreeLevelCode)

	// Inactive levels never resolve.
	match, err = m.Match("accounting degrees", "diploma")
	require.NoError(t, err)
	assert.Zero(t, match.DegreeLevelCode)
}

func TestMatchIsDeterministic(t *testing.T) {
	t.Parallel()

	m := NewMatcher(testTaxonomy(), testLevels())
	first, err := m.Match("Best Online MBA Programs in Accounting", "master")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := m.Match("Best Online MBA Programs in Accounting", "master")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
