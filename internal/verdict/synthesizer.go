// Package verdict turns extracted facts and gathered evidence into one
// labelled trust verdict.
package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/vouch/internal/llm"
	"github.com/ppiankov/vouch/internal/model"
	"go.uber.org/zap"
)

// Context is everything the reasoning capability sees about a listing
type Context struct {
	Platform string               `json:"platform"`
	Title    *string              `json:"title"`
	Price    *string              `json:"price"`
	Seller   *string              `json:"seller"`
	Brand    *string              `json:"brand"`
	Evidence model.EvidenceBundle `json:"evidence"`
}

// NewContext assembles a verdict context from extracted facts, the
// simplified title and gathered evidence
func NewContext(facts *model.FactRecord, title *string, evidence model.EvidenceBundle) Context {
	return Context{
		Platform: facts.Platform,
		Title:    title,
		Price:    facts.Price,
		Seller:   facts.Seller,
		Brand:    facts.Brand,
		Evidence: evidence,
	}
}

const systemPrompt = "You assess online product listings for shoppers. " +
	"Base your decision only on the listing facts and the evidence provided."

// BuildPrompt renders the instruction with the serialized context
func BuildPrompt(c Context) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}

	labels := make([]string, 0, len(model.Labels()))
	for _, l := range model.Labels() {
		labels = append(labels, fmt.Sprintf("%q", string(l)))
	}

	return fmt.Sprintf(`Classify this product listing with exactly one label from: %s.

- "scam": the listing or seller shows signs of fraud.
- "untrustworthy": the seller or brand has serious unresolved complaints or no credible presence.
- "overpriced": the seller and brand look legitimate but the price is well above typical for this product.
- "good product": none of the above.

Listing:
%s

Return only a JSON object of the form {"label": "<one label>", "reason": "<one or two sentences>"}.`,
		strings.Join(labels, ", "), data), nil
}

// ParseVerdict extracts a verdict from free-form model output. The text
// between the first "{" and the last "}" must decode to an object whose
// label is exactly one of the enumerated labels and whose reason is
// present; anything else yields nil.
func ParseVerdict(text string) *model.Verdict {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	var raw struct {
		Label  *string `json:"label"`
		Reason *string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil
	}
	if raw.Label == nil || raw.Reason == nil {
		return nil
	}

	label := model.Label(*raw.Label)
	if !label.Valid() {
		return nil
	}

	reason := strings.TrimSpace(*raw.Reason)
	if reason == "" {
		return nil
	}

	return &model.Verdict{Label: label, Reason: reason}
}

// Synthesizer requests verdicts from a reasoning provider
type Synthesizer struct {
	provider  llm.Provider
	maxTokens int
	logger    *zap.Logger
}

// NewSynthesizer creates a new synthesizer. A nil provider makes every
// synthesis fail.
func NewSynthesizer(provider llm.Provider, maxTokens int, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		provider:  provider,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Synthesize issues one structured generation request and parses the
// verdict. Any failure returns nil; there is no retry and no fallback
// label.
func (s *Synthesizer) Synthesize(ctx context.Context, c Context) *model.Verdict {
	if s.provider == nil {
		s.logger.Warn("no reasoning provider configured")
		return nil
	}

	prompt, err := BuildPrompt(c)
	if err != nil {
		s.logger.Warn("build verdict prompt", zap.Error(err))
		return nil
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System:    systemPrompt,
		Prompt:    prompt,
		MaxTokens: s.maxTokens,
		JSON:      true,
	})
	if err != nil {
		s.logger.Warn("verdict request failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		return nil
	}
	if resp == nil {
		return nil
	}

	v := ParseVerdict(resp.Text)
	if v == nil {
		s.logger.Warn("unparsable verdict", zap.String("provider", s.provider.Name()), zap.Int("chars", len(resp.Text)))
		return nil
	}

	s.logger.Debug("verdict synthesized", zap.String("label", string(v.Label)))
	return v
}
