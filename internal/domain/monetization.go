package domain

import "time"

// SlotStyle selects the rendering shape for one placement.
type SlotStyle string

const (
	StyleTable   SlotStyle = "table"
	StyleHero    SlotStyle = "hero"
	StyleCompact SlotStyle = "compact"
	StyleQDF     SlotStyle = "qdf"
)

// Slot is one placement within an article template.
type Slot struct {
	Name        string    `json:"name"`
	Style       SlotStyle `json:"style"`
	MaxPrograms int       `json:"maxPrograms"`
}

// MonetizationRequest is the engine's input value object. Slots overrides the
// planner's article-type defaults when non-empty. Nothing here is persisted
// by the engine.
type MonetizationRequest struct {
	ArticleID       string
	CategoryID      int
	ConcentrationID int
	DegreeLevelCode int
	ArticleType     string
	Slots           []Slot
}

// SelectedProgram carries the denormalized display fields of one promoted
// program inside a slot result.
type SelectedProgram struct {
	ProgramID       int    `json:"programId"`
	ProgramName     string `json:"programName"`
	InstitutionID   int    `json:"institutionId"`
	InstitutionName string `json:"institutionName"`
	Sponsored       bool   `json:"sponsored"`
	SponsorshipTier int    `json:"sponsorshipTier"`
}

// SlotResult is the outcome of processing a single slot.
type SlotResult struct {
	Slot         Slot              `json:"slot"`
	Markup       string            `json:"markup"`
	Programs     []SelectedProgram `json:"programs"`
	HasSponsored bool              `json:"hasSponsored"`
}

// GenerateMetadata records the inputs that produced a result, for audit.
type GenerateMetadata struct {
	GenerationID string         `json:"generationId"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	Config       ConfigSnapshot `json:"config"`
}

// ConfigSnapshot is the engine configuration as used for one generation.
type ConfigSnapshot struct {
	MinProgramsRequired                int     `json:"minProgramsRequired"`
	MaxProgramsPerSchool               int     `json:"maxProgramsPerSchool"`
	DefaultMaxPrograms                 int     `json:"defaultMaxPrograms"`
	SponsoredPriorityRatio             float64 `json:"sponsoredPriorityRatio"`
	EnableCategoryFallback             bool    `json:"enableCategoryFallback"`
	EnableRelatedConcentrationFallback bool    `json:"enableRelatedConcentrationFallback"`
}

// GenerateResult is the facade's return value. When Success is false, Error
// holds a caller-displayable message and Slots is empty.
type GenerateResult struct {
	Success               bool             `json:"success"`
	Error                 string           `json:"error,omitempty"`
	Slots                 []SlotResult     `json:"slots"`
	TotalProgramsSelected int              `json:"totalProgramsSelected"`
	Metadata              GenerateMetadata `json:"metadata"`
}

// MatchConfidence buckets a topic-match score.
type MatchConfidence string

const (
	ConfidenceHigh   MatchConfidence = "high"
	ConfidenceMedium MatchConfidence = "medium"
	ConfidenceLow    MatchConfidence = "low"
)

// TopicMatch is the topic matcher's output for a successful match.
type TopicMatch struct {
	CategoryID      int             `json:"categoryId"`
	ConcentrationID int             `json:"concentrationId"`
	Entry           TaxonomyEntry   `json:"entry"`
	Score           int             `json:"score"`
	Confidence      MatchConfidence `json:"confidence"`
	DegreeLevelCode int             `json:"degreeLevelCode,omitempty"`
}

// FindingSeverity ranks compliance findings. Only blocking findings make a
// validation result invalid.
type FindingSeverity string

const (
	SeverityBlocking FindingSeverity = "blocking"
	SeverityMajor    FindingSeverity = "major"
	SeverityMinor    FindingSeverity = "minor"
)

// Finding is one compliance rule hit.
type Finding struct {
	Rule     string          `json:"rule"`
	Message  string          `json:"message"`
	Severity FindingSeverity `json:"severity"`
	Domain   string          `json:"domain,omitempty"`
	Count    int             `json:"count,omitempty"`
}

// ValidationReport aggregates all findings for one article draft.
type ValidationReport struct {
	IsValid  bool      `json:"isValid"`
	Findings []Finding `json:"findings"`
}

// Blocking returns the findings that prevent publishing.
func (r ValidationReport) Blocking() []Finding {
	return r.bySeverity(SeverityBlocking)
}

// Warnings returns the advisory (non-blocking) findings.
func (r ValidationReport) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity != SeverityBlocking {
			out = append(out, f)
		}
	}
	return out
}

func (r ValidationReport) bySeverity(s FindingSeverity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}
