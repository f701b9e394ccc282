// Package docai holds the model-assisted document extraction adapters.  The
// pipeline treats an adapter as an optional, best-effort enrichment source:
// whatever it returns is merged over the rule-based baseline, and any failure
// degrades to an empty overlay rather than an error.
package docai

import "context"

// Adapter is the contract for model-assisted extraction.  Extract returns a
// loosely structured section mapping whose keys roughly correspond to the
// canonical extraction sections; exact naming is not guaranteed and the merge
// layer resolves drift.  On any failure (quota, timeout, malformed response)
// Extract returns an empty map and a nil error: adapter trouble must never
// fail the surrounding extraction.
type Adapter interface {
	// Name identifies the adapter in logs and result provenance.
	Name() string
	// Extract analyzes document text and returns the overlay sections.
	Extract(ctx context.Context, text string) map[string]any
}

// Disabled is the no-op adapter used when model assistance is turned off.
type Disabled struct{}

// Name implements Adapter.
func (Disabled) Name() string { return "disabled" }

// Extract implements Adapter; it always returns an empty overlay.
func (Disabled) Extract(_ context.Context, _ string) map[string]any {
	return map[string]any{}
}
