package compliance

// PublisherName attributes cost claims; dollar amounts mentioned near it (or
// near the ranking report phrase) are considered sourced.
const PublisherName = "GradEdge"

// rankingReportPhrase is the alternate attribution anchor.
const rankingReportPhrase = "ranking report"

// attributionWindow is how many characters around a dollar amount are
// searched for an attribution anchor.
const attributionWindow = 150

// BlockedDomains are competitor destinations; any link to one is a blocking
// finding. Fixed business configuration, not database-derived.
var BlockedDomains = []string{
	"usnews.com",
	"niche.com",
	"bestcolleges.com",
	"collegefactual.com",
	"princetonreview.com",
}

// ApprovedCitationDomains are government and statistics sources editors may
// link directly. Exposed for editor tooling; linking elsewhere externally is
// not itself a violation, only blocked and direct-.edu destinations are.
var ApprovedCitationDomains = []string{
	"nces.ed.gov",
	"bls.gov",
	"census.gov",
	"studentaid.gov",
	"ed.gov",
}

// Rule names attached to findings.
const (
	RuleBlockedDomain       = "blocked_domain"
	RuleDirectEduLink       = "direct_institution_link"
	RuleSponsorshipPriority = "sponsorship_priority"
	RuleCostAttribution     = "cost_attribution"
	RuleLegacyMarkup        = "legacy_markup"
	RuleUnknownMarkup       = "unknown_markup"
)
