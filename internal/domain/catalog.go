package domain

// TaxonomyEntry identifies a (category, concentration) pair from the
// reference taxonomy. Read-only to the engine; admins maintain it elsewhere.
type TaxonomyEntry struct {
	CategoryID        int    `json:"categoryId"`
	CategoryName      string `json:"categoryName"`
	ConcentrationID   int    `json:"concentrationId"`
	ConcentrationName string `json:"concentrationName"`
	Active            bool   `json:"active"`
}

// DegreeLevel is an academic credential tier, e.g. (2, "Bachelor's").
type DegreeLevel struct {
	Code   int
	Name   string
	Active bool
}

// Institution owns one or more programs.
type Institution struct {
	ID        int
	Name      string
	Slug      string
	SiteURL   string
	Active    bool
	Sponsored bool
}

// Program is a single degree offering. Its (CategoryID, ConcentrationID,
// DegreeLevelCode) combination decides eligibility for a monetization
// request; sponsorship is carried independently and inherits at minimum the
// owning institution's status.
type Program struct {
	ID              int
	Name            string
	Institution     Institution
	CategoryID      int
	ConcentrationID int
	DegreeLevelCode int
	Active          bool
	Sponsored       bool
	SponsorshipTier int
}

// EffectivelySponsored reports whether the program or its institution carries
// a sponsorship agreement.
func (p Program) EffectivelySponsored() bool {
	return p.Sponsored || p.Institution.Sponsored
}

// CatalogFilter narrows a program catalog query. ConcentrationID and
// DegreeLevelCode of zero mean "any"; ExcludeProgramIDs removes programs
// already promoted earlier in the same request.
type CatalogFilter struct {
	CategoryID        int
	ConcentrationID   int
	DegreeLevelCode   int
	ExcludeProgramIDs []int
}
