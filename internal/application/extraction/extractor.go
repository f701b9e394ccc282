package extraction

import (
	"strings"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

// Document is one extraction input: decoded text plus optional hints.
type Document struct {
	Text string
	// CategoryHint is the caller-declared policy category ("auto", "home",
	// "health", "life", "business") or empty.
	CategoryHint string
	// FilenameHint is the original filename, used for category detection and
	// provenance only.
	FilenameHint string
}

// Extractor produces the baseline extraction result from raw document text by
// applying the injected rule set.  It never fails: fields that match nothing
// are simply absent.
type Extractor struct {
	rules *RuleSet
}

// NewExtractor returns an Extractor over the given rule set.
func NewExtractor(rules *RuleSet) *Extractor {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Extractor{rules: rules}
}

// categoryKeywords drives filename/text based category detection when no
// explicit hint is supplied.  Order matters: the first category whose keyword
// appears wins.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"auto", []string{"vehicle", "car insurance", "auto", "collision", "רכב"}},
	{"home", []string{"homeowner", "home insurance", "property insurance", "דירה", "מבנה"}},
	{"health", []string{"health insurance", "medical plan", "health plan", "בריאות"}},
	{"life", []string{"life insurance", "death benefit", "face amount", "ביטוח חיים"}},
	{"business", []string{"business insurance", "commercial policy", "ביטוח עסק"}},
}

// ResolveCategory determines the policy category for a document: the declared
// hint wins, then filename keywords, then a text keyword scan.  Returns ""
// when nothing matches.
func ResolveCategory(doc Document) string {
	if hint := strings.ToLower(strings.TrimSpace(doc.CategoryHint)); hint != "" {
		if _, ok := domain.CategorySection[hint]; ok {
			return hint
		}
	}
	haystacks := []string{strings.ToLower(doc.FilenameHint), strings.ToLower(doc.Text)}
	for _, h := range haystacks {
		if h == "" {
			continue
		}
		for _, ck := range categoryKeywords {
			for _, w := range ck.words {
				if strings.Contains(h, w) {
					return ck.category
				}
			}
		}
	}
	return ""
}

// Extract runs every rule chain against the document and assembles the
// baseline result.  Category-specific sections are populated only when the
// resolved category matches; the rest stay present but empty.
func (e *Extractor) Extract(doc Document) *domain.Result {
	result := domain.NewResult()
	result.Language = domain.DetectLanguage(doc.Text)
	if doc.Text == "" {
		return result
	}

	category := ResolveCategory(doc)
	categorySections := make(map[string]bool, len(domain.CategorySection))
	for cat, section := range domain.CategorySection {
		categorySections[section] = cat == category
	}

	for _, sr := range e.rules.Sections {
		if enabled, isCategorySection := categorySections[sr.Section]; isCategorySection && !enabled {
			continue
		}
		section := result.Section(sr.Section)
		for _, rule := range sr.Rules {
			if v, ok := rule.Apply(doc.Text); ok {
				section[rule.Field] = v
			}
		}
	}

	coverage := result.Section(domain.SectionCoverageDetails)
	for _, cr := range e.rules.Coverage {
		if item, ok := cr.Apply(doc.Text); ok {
			coverage[cr.Type] = item
		}
	}

	// Low-confidence fallback: any 4+ digit run stands in for a policy
	// number when every specific pattern failed.
	basic := result.Section(domain.SectionBasicInfo)
	if _, ok := basic["policy_number"]; !ok && e.rules.PolicyNumberFallback != nil {
		if m := e.rules.PolicyNumberFallback.FindStringSubmatch(doc.Text); len(m) >= 2 {
			basic["policy_number"] = m[1]
		}
	}

	return result
}
