package shortcode

import (
	"regexp"
	"sort"
	"strings"
)

// TagType classifies an extracted tag for callers. Link tags split into four
// subtypes by parameter presence.
type TagType string

const (
	TypePicks        TagType = "GE_PICKS"
	TypeWidget       TagType = "GE_WIDGET"
	TypeSchoolLink   TagType = "GE_SCHOOL_LINK"
	TypeDegreeLink   TagType = "GE_DEGREE_LINK"
	TypeInternalLink TagType = "GE_INTERNAL_LINK"
	TypeExternalLink TagType = "GE_EXTERNAL_LINK"
)

// Tag is one allowlisted markup occurrence extracted from content.
type Tag struct {
	Type   TagType
	Name   string
	Params map[string]string
	Body   string
	Start  int
	End    int
}

// TagToken is one bracket-delimited token found by the superset scan,
// whether or not its name is allowlisted.
type TagToken struct {
	Name    string
	Raw     string
	Start   int
	Allowed bool
	Legacy  bool
}

var (
	// One pattern per allowlisted outer tag; bodies never span lines.
	picksRe  = regexp.MustCompile(`\[ge_picks((?:\s+[a-z_]+="[^"]*")*)\s*\]([^\[\]]*)\[/ge_picks\]`)
	widgetRe = regexp.MustCompile(`\[ge_widget((?:\s+[a-z_]+="[^"]*")*)\s*\]([^\[\]]*)\[/ge_widget\]`)
	linkRe   = regexp.MustCompile(`\[ge_link((?:\s+[a-z_]+="[^"]*")*)\s*\]([^\[\]]*)\[/ge_link\]`)

	attrRe = regexp.MustCompile(`([a-z_][a-z0-9_]*)="([^"]*)"`)

	// Superset scan: anything that looks like an opening tag token,
	// allowlisted or not. Closing tokens are skipped via the leading name
	// character class.
	anyTagRe = regexp.MustCompile(`\[([a-zA-Z_][a-zA-Z0-9_]*)(?:\s[^\[\]]*)?\]`)
)

// Extract returns every allowlisted tag occurrence in content, classified
// and ordered by position.
func Extract(content string) []Tag {
	var tags []Tag
	for name, re := range map[string]*regexp.Regexp{
		TagPicks:  picksRe,
		TagWidget: widgetRe,
		TagLink:   linkRe,
	} {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			raw := content[m[2]:m[3]]
			body := content[m[4]:m[5]]
			params := parseAttrs(raw)
			tags = append(tags, Tag{
				Type:   classify(name, params),
				Name:   name,
				Params: params,
				Body:   body,
				Start:  m[0],
				End:    m[1],
			})
		}
	}
	sortTags(tags)
	return tags
}

// DetectTokens runs the superset scan: every bracket-delimited tag-like
// token regardless of allowlist membership. Used to flag unknown and legacy
// markup during compliance review.
func DetectTokens(content string) []TagToken {
	var tokens []TagToken
	for _, m := range anyTagRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		tokens = append(tokens, TagToken{
			Name:    name,
			Raw:     content[m[0]:m[1]],
			Start:   m[0],
			Allowed: isAllowed(name),
			Legacy:  isLegacy(name),
		})
	}
	return tokens
}

func isAllowed(name string) bool {
	for _, t := range AllowedTags {
		if name == t {
			return true
		}
	}
	return false
}

func isLegacy(name string) bool {
	for _, t := range LegacyTags {
		if strings.EqualFold(name, t) {
			return true
		}
	}
	return false
}

func parseAttrs(raw string) map[string]string {
	params := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		params[m[1]] = m[2]
	}
	return params
}

// classify derives the tag type from parameter presence. A link carrying
// both school and degree is a degree link; school alone is a school link;
// url splits internal from external on the newtab marker.
func classify(name string, params map[string]string) TagType {
	switch name {
	case TagPicks:
		return TypePicks
	case TagWidget:
		return TypeWidget
	}

	if _, hasSchool := params["school"]; hasSchool {
		if _, hasDegree := params["degree"]; hasDegree {
			return TypeDegreeLink
		}
		return TypeSchoolLink
	}
	if params["newtab"] == "true" {
		return TypeExternalLink
	}
	return TypeInternalLink
}

func sortTags(tags []Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Start < tags[j].Start })
}
