// Package compliance scans drafts and selection results against the
// publishing business rules. Findings are data, not errors: validation
// always succeeds, and severity decides whether publishing is blocked.
package compliance

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MonetizationEngine/internal/domain"
	"MonetizationEngine/internal/shortcode"
)

// Validator applies the fixed rule set. Construct one per process; it holds
// only compiled patterns and is safe for concurrent use.
type Validator struct {
	blockedPatterns map[string]*regexp.Regexp
	dollarPattern   *regexp.Regexp
}

// NewValidator compiles the rule patterns.
func NewValidator() *Validator {
	blocked := make(map[string]*regexp.Regexp, len(BlockedDomains))
	for _, d := range BlockedDomains {
		// Any protocol (including protocol-relative //host links), any
		// subdomain, any case. The boundary stops the pattern from
		// matching lookalike hosts like usnews.community.
		blocked[d] = regexp.MustCompile(`(?i)(?:https?:)?//([a-z0-9-]+\.)*` + regexp.QuoteMeta(d) + `(?:[^a-z0-9-]|$)`)
	}
	return &Validator{
		blockedPatterns: blocked,
		dollarPattern:   regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`),
	}
}

// Validate checks rendered article content plus its selection result and
// returns every finding. IsValid is true iff nothing blocking was found.
func (v *Validator) Validate(slots []domain.SlotResult, content string) domain.ValidationReport {
	var findings []domain.Finding

	findings = append(findings, v.checkBlockedDomains(content)...)
	findings = append(findings, v.checkDirectEduLinks(content)...)
	findings = append(findings, v.checkSponsorshipPriority(slots)...)
	findings = append(findings, v.checkCostAttribution(content)...)
	findings = append(findings, v.checkMarkupTokens(content)...)

	report := domain.ValidationReport{IsValid: true, Findings: findings}
	for _, f := range findings {
		if f.Severity == domain.SeverityBlocking {
			report.IsValid = false
			break
		}
	}
	return report
}

// checkBlockedDomains emits one blocking finding per competitor domain that
// appears as a link anywhere in content.
func (v *Validator) checkBlockedDomains(content string) []domain.Finding {
	var findings []domain.Finding
	for _, d := range BlockedDomains {
		if v.blockedPatterns[d].MatchString(content) {
			findings = append(findings, domain.Finding{
				Rule:     RuleBlockedDomain,
				Message:  fmt.Sprintf("content links to competitor domain %s; remove the link before publishing", d),
				Severity: domain.SeverityBlocking,
				Domain:   d,
			})
		}
	}
	return findings
}

// checkDirectEduLinks flags hrefs that point at .edu sites directly instead
// of going through the internal link tags.
func (v *Validator) checkDirectEduLinks(content string) []domain.Finding {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	count := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		parsed, pErr := url.Parse(href)
		if pErr != nil || parsed.Hostname() == "" {
			return
		}
		host := strings.ToLower(parsed.Hostname())
		if host == "edu" || strings.HasSuffix(host, ".edu") {
			count++
		}
	})
	if count == 0 {
		return nil
	}

	return []domain.Finding{{
		Rule:     RuleDirectEduLink,
		Message:  fmt.Sprintf("%d direct .edu link(s) found; route institution links through link tags instead", count),
		Severity: domain.SeverityMajor,
		Count:    count,
	}}
}

// checkSponsorshipPriority warns once per populated slot that carries no
// sponsored selection.
func (v *Validator) checkSponsorshipPriority(slots []domain.SlotResult) []domain.Finding {
	var findings []domain.Finding
	for _, slot := range slots {
		if len(slot.Programs) > 0 && !slot.HasSponsored {
			findings = append(findings, domain.Finding{
				Rule:     RuleSponsorshipPriority,
				Message:  fmt.Sprintf("slot %q has %d selection(s) but none sponsored", slot.Slot.Name, len(slot.Programs)),
				Severity: domain.SeverityMinor,
				Count:    len(slot.Programs),
			})
		}
	}
	return findings
}

// checkCostAttribution finds dollar amounts with no attribution anchor (the
// publisher name or the ranking report phrase) within the surrounding
// window.
func (v *Validator) checkCostAttribution(content string) []domain.Finding {
	lower := strings.ToLower(content)
	publisher := strings.ToLower(PublisherName)

	unattributed := 0
	for _, loc := range v.dollarPattern.FindAllStringIndex(content, -1) {
		start := loc[0] - attributionWindow
		if start < 0 {
			start = 0
		}
		end := loc[1] + attributionWindow
		if end > len(lower) {
			end = len(lower)
		}
		window := lower[start:end]
		if !strings.Contains(window, publisher) && !strings.Contains(window, rankingReportPhrase) {
			unattributed++
		}
	}
	if unattributed == 0 {
		return nil
	}

	return []domain.Finding{{
		Rule:     RuleCostAttribution,
		Message:  fmt.Sprintf("%d cost claim(s) lack a nearby %s or ranking report attribution", unattributed, PublisherName),
		Severity: domain.SeverityMinor,
		Count:    unattributed,
	}}
}

// checkMarkupTokens runs the superset tag scan and reports legacy and
// unknown bracket tokens separately.
func (v *Validator) checkMarkupTokens(content string) []domain.Finding {
	legacy := 0
	unknown := 0
	for _, token := range shortcode.DetectTokens(content) {
		switch {
		case token.Legacy:
			legacy++
		case !token.Allowed:
			unknown++
		}
	}

	var findings []domain.Finding
	if legacy > 0 {
		findings = append(findings, domain.Finding{
			Rule:     RuleLegacyMarkup,
			Message:  fmt.Sprintf("%d legacy shortcode token(s) found; migrate to the current tag set", legacy),
			Severity: domain.SeverityMinor,
			Count:    legacy,
		})
	}
	if unknown > 0 {
		findings = append(findings, domain.Finding{
			Rule:     RuleUnknownMarkup,
			Message:  fmt.Sprintf("%d unrecognized bracket token(s) found; verify they are intentional", unknown),
			Severity: domain.SeverityMinor,
			Count:    unknown,
		})
	}
	return findings
}
