// Package shortcode renders and parses the bracket-delimited markup tags the
// downstream publishing system consumes. All tag-string knowledge lives here;
// no other package builds or inspects tag text directly.
package shortcode

import (
	"fmt"
	"strconv"
	"strings"

	"MonetizationEngine/internal/domain"
)

// Outer tag names the downstream renderer accepts. This allowlist is
// authoritative; anything else bracket-shaped is unknown or legacy.
const (
	TagPicks  = "ge_picks"
	TagWidget = "ge_widget"
	TagLink   = "ge_link"
)

// AllowedTags lists the exact three outer tag names.
var AllowedTags = []string{TagPicks, TagWidget, TagLink}

// LegacyTags are deprecated tag names still found in old drafts; the
// detector flags them for migration.
var LegacyTags = []string{"wp_picks", "degree_search", "school_listing"}

// ctaURLPrefix anchors every generated call-to-action URL.
const ctaURLPrefix = "/online-degrees/"

// widgetTypeQDF is the quick-degree-finder widget variant.
const widgetTypeQDF = "qdf"

// PicksParams carries everything a picks tag needs. LevelCode of zero omits
// the level attribute.
type PicksParams struct {
	CategoryID      int
	ConcentrationID int
	LevelCode       int
	Header          string
	CTAButton       string
	CTAURL          string
}

// Slug normalizes a label into a URL path segment: lowercase, spaces to
// hyphens, everything else non-alphanumeric dropped.
func Slug(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

// BuildCTAURL concatenates the fixed prefix with level, category, and
// concentration slugs. Empty labels are skipped.
func BuildCTAURL(levelName, categoryName, concentrationName string) string {
	url := ctaURLPrefix
	for _, label := range []string{levelName, categoryName, concentrationName} {
		if slug := Slug(label); slug != "" {
			url += slug + "/"
		}
	}
	return url
}

// RenderPicks produces the picks tag for the table, hero, and compact slot
// styles. Category and concentration are mandatory; violations are caller
// bugs and fail immediately.
func RenderPicks(style domain.SlotStyle, p PicksParams) (string, error) {
	switch style {
	case domain.StyleTable, domain.StyleHero, domain.StyleCompact:
	default:
		return "", fmt.Errorf("style %q does not render a picks tag", style)
	}
	if p.CategoryID == 0 || p.ConcentrationID == 0 {
		return "", fmt.Errorf("picks tag requires category and concentration, got category=%d concentration=%d", p.CategoryID, p.ConcentrationID)
	}

	attrs := []attr{
		{"category", strconv.Itoa(p.CategoryID)},
		{"concentration", strconv.Itoa(p.ConcentrationID)},
	}
	if p.LevelCode != 0 {
		attrs = append(attrs, attr{"level", strconv.Itoa(p.LevelCode)})
	}
	attrs = append(attrs,
		attr{"header", p.Header},
		attr{"cta_button", p.CTAButton},
		attr{"cta_url", p.CTAURL},
	)

	return renderTag(TagPicks, attrs, "")
}

// RenderQDF produces the standalone quick-degree-finder widget tag. It does
// not depend on any program selection and is the zero-result fallback shape.
func RenderQDF(header string) (string, error) {
	return renderTag(TagWidget, []attr{
		{"type", widgetTypeQDF},
		{"header", header},
	}, "")
}

// RenderSchoolLink produces a link tag resolving to a school profile.
func RenderSchoolLink(schoolID int, anchor string) (string, error) {
	if schoolID == 0 {
		return "", fmt.Errorf("school link requires a school id")
	}
	return renderTag(TagLink, []attr{{"school", strconv.Itoa(schoolID)}}, anchor)
}

// RenderDegreeLink produces a link tag resolving to one degree page of a
// school.
func RenderDegreeLink(schoolID, degreeID int, anchor string) (string, error) {
	if schoolID == 0 || degreeID == 0 {
		return "", fmt.Errorf("degree link requires school and degree ids, got school=%d degree=%d", schoolID, degreeID)
	}
	return renderTag(TagLink, []attr{
		{"school", strconv.Itoa(schoolID)},
		{"degree", strconv.Itoa(degreeID)},
	}, anchor)
}

// RenderInternalLink produces a link tag for a relative, same-site URL.
func RenderInternalLink(relURL, anchor string) (string, error) {
	if relURL == "" || strings.Contains(relURL, "://") {
		return "", fmt.Errorf("internal link requires a relative url, got %q", relURL)
	}
	return renderTag(TagLink, []attr{{"url", relURL}}, anchor)
}

// RenderExternalLink produces a link tag for an absolute URL opened in a new
// tab.
func RenderExternalLink(absURL, anchor string) (string, error) {
	if !strings.HasPrefix(absURL, "http://") && !strings.HasPrefix(absURL, "https://") {
		return "", fmt.Errorf("external link requires an absolute url, got %q", absURL)
	}
	return renderTag(TagLink, []attr{
		{"url", absURL},
		{"newtab", "true"},
	}, anchor)
}

type attr struct {
	key   string
	value string
}

// renderTag emits `[name k="v" ...]body[/name]` on a single line. Values may
// not contain the delimiter characters, which would break re-parsing.
func renderTag(name string, attrs []attr, body string) (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(name)
	for _, a := range attrs {
		if strings.ContainsAny(a.value, `"[]\`) || strings.ContainsRune(a.value, '\n') {
			return "", fmt.Errorf("tag %s attribute %s contains delimiter characters: %q", name, a.key, a.value)
		}
		b.WriteString(fmt.Sprintf(" %s=\"%s\"", a.key, a.value))
	}
	b.WriteByte(']')
	if strings.ContainsAny(body, "[]") || strings.ContainsRune(body, '\n') {
		return "", fmt.Errorf("tag %s body contains delimiter characters: %q", name, body)
	}
	b.WriteString(body)
	b.WriteString("[/" + name + "]")
	return b.String(), nil
}
