// Package extraction implements the document extraction pipeline: rule-based
// field extraction, optional model-assisted enrichment, overlay merging, and
// confidence scoring.
package extraction

import (
	"regexp"
	"strings"

	domain "github.com/ronled86/InsuraIQ/internal/domain/extraction"
)

// Rule extracts one field using an ordered chain of patterns.  Patterns are
// tried in declared order and the first one that matches anywhere in the text
// wins; later patterns are not evaluated.  Each pattern must have exactly one
// capture group holding the field value.
type Rule struct {
	// Field is the key the extracted value is stored under.
	Field string
	// Patterns is the ordered chain; first successful match stops the chain.
	Patterns []*regexp.Regexp
	// Numeric routes the captured value through ParseAmount.
	Numeric bool
}

// Apply runs the rule chain against text.  The boolean reports whether any
// pattern matched; an unmatched field stays absent from its section so that
// downstream merging can tell "unknown" from "known empty".
func (r Rule) Apply(text string) (any, bool) {
	for _, p := range r.Patterns {
		m := p.FindStringSubmatch(text)
		if m == nil || len(m) < 2 {
			continue
		}
		captured := strings.TrimSpace(m[1])
		if captured == "" {
			continue
		}
		if r.Numeric {
			return domain.ParseAmount(captured), true
		}
		return captured, true
	}
	return nil, false
}

// CoverageRule detects one coverage type and its insured amount.  A match
// produces a CoverageItem keyed by Type in the coverage_details section.
type CoverageRule struct {
	// Type is the canonical coverage key, e.g. "collision_coverage".
	Type string
	// Description labels the coverage in comparison output.
	Description string
	// Patterns follow the same first-match-wins contract as Rule.Patterns.
	// The single capture group holds the coverage amount; a pattern without
	// a captured amount still marks the coverage as present with amount 0.
	Patterns []*regexp.Regexp
}

// Apply runs the coverage chain against text.
func (c CoverageRule) Apply(text string) (domain.CoverageItem, bool) {
	for _, p := range c.Patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		item := domain.CoverageItem{
			Description: c.Description,
			Type:        c.Type,
		}
		if len(m) >= 2 {
			item.Amount = domain.ParseAmount(m[1])
		}
		return item, true
	}
	return domain.CoverageItem{}, false
}

// SectionRules groups the field rules of one canonical section.
type SectionRules struct {
	Section string
	Rules   []Rule
}

// RuleSet is the immutable, injectable collection of extraction rules.  It is
// constructed once at startup; sharing one instance across goroutines is safe
// because compiled regexps are read-only.
type RuleSet struct {
	// Sections holds per-section field rules in canonical order.  Category
	// sections are present here too; the extractor skips them unless the
	// resolved category matches.
	Sections []SectionRules
	// Coverage holds the coverage-detection rules feeding coverage_details.
	Coverage []CoverageRule
	// PolicyNumberFallback matches any 4+ digit run when every specific
	// policy-number pattern failed.  Low-confidence by design.
	PolicyNumberFallback *regexp.Regexp
}

// SectionFor returns the rules of the named section, or nil.
func (rs *RuleSet) SectionFor(name string) []Rule {
	for _, s := range rs.Sections {
		if s.Section == name {
			return s.Rules
		}
	}
	return nil
}
