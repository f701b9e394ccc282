package docai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/ronled86/InsuraIQ/internal/infrastructure/monitoring/logging"
)

const extractionPrompt = `You are an insurance document analyst. Extract structured data from the policy document below and respond with ONLY a JSON object, no prose and no code fences.

Top-level keys should be sections such as: basic_info, financial_info, coverage_details, policy_terms, beneficiaries, exclusions, claims_info, contact_info. Each section is an object of field-name to value. Use numbers for monetary amounts. Omit fields you cannot find.

Document:
`

// GeminiConfig configures the Gemini-backed adapter.
type GeminiConfig struct {
	APIKey string
	Model  string
	// TruncationBudget caps the number of document characters included in
	// the prompt; zero disables truncation.
	TruncationBudget int
}

// Gemini is the model-assisted extraction adapter backed by the Generative
// Language API.  All failures degrade to an empty overlay.
type Gemini struct {
	client *genai.Client
	model  string
	budget int
	logger logging.Logger
}

// NewGemini constructs the adapter.  Construction fails only on client setup
// errors (e.g. missing API key); runtime errors never propagate past Extract.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger logging.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Gemini{
		client: client,
		model:  model,
		budget: cfg.TruncationBudget,
		logger: logger.Named("docai.gemini"),
	}, nil
}

// Name implements Adapter.
func (g *Gemini) Name() string { return "gemini" }

// Close releases the underlying API client.
func (g *Gemini) Close() error { return g.client.Close() }

// Extract implements Adapter.  The document text is truncated to the
// configured budget, sent to the model with a JSON-only prompt, and the
// response parsed into a section mapping.  Every failure path returns an
// empty map.
func (g *Gemini) Extract(ctx context.Context, text string) map[string]any {
	if text == "" {
		return map[string]any{}
	}
	if g.budget > 0 && len(text) > g.budget {
		text = text[:g.budget]
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(extractionPrompt+text))
	if err != nil {
		g.logger.Warn("generation request failed", logging.Err(err))
		return map[string]any{}
	}
	raw := collectText(resp)
	if raw == "" {
		g.logger.Warn("generation returned no text")
		return map[string]any{}
	}

	overlay := parseOverlay(raw)
	if overlay == nil {
		g.logger.Warn("generation returned unparseable payload",
			logging.Int("payload_len", len(raw)))
		return map[string]any{}
	}
	return overlay
}

// collectText concatenates the text parts of every candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}

// parseOverlay decodes the model payload into a section mapping.  Code fences
// and surrounding prose are stripped by locating the outermost JSON object.
// Returns nil when no valid object can be decoded.
func parseOverlay(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil
	}

	var overlay map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &overlay); err != nil {
		return nil
	}
	return overlay
}
