// Package evidence asks a search-grounded provider for factual background
// on a listing's brand and seller.
package evidence

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/vouch/internal/llm"
	"github.com/ppiankov/vouch/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Instruction is sent with every query. It keeps the answer to reported
// facts so the verdict step, not the search step, draws conclusions.
const Instruction = "You are a research assistant. Answer with one concise factual paragraph " +
	"summarizing what is publicly reported. Do not give opinions, ratings, recommendations " +
	"or conclusions about trustworthiness. If nothing relevant is found, say so briefly."

// BrandQuery builds the brand evidence query
func BrandQuery(brand string) string {
	return fmt.Sprintf("%s brand company manufacturer complaints", brand)
}

// SellerQuery builds the seller evidence query
func SellerQuery(subject string) string {
	return fmt.Sprintf("%s seller reviews scam complaints", subject)
}

// Gatherer issues evidence queries. A nil provider means no search
// capability is configured and every query yields nil.
type Gatherer struct {
	provider  llm.Provider
	maxTokens int
	logger    *zap.Logger
}

// NewGatherer creates a new evidence gatherer
func NewGatherer(provider llm.Provider, maxTokens int, logger *zap.Logger) *Gatherer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gatherer{
		provider:  provider,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// GatherBrand returns a factual paragraph about the brand, or nil
func (g *Gatherer) GatherBrand(ctx context.Context, brand *string) *string {
	subject := model.Deref(brand)
	if strings.TrimSpace(subject) == "" {
		return nil
	}
	return g.query(ctx, "brand", BrandQuery(subject))
}

// GatherSeller returns a factual paragraph about the seller, falling
// back to the platform when the seller is unknown, or nil
func (g *Gatherer) GatherSeller(ctx context.Context, seller *string, platform string) *string {
	subject := strings.TrimSpace(model.Deref(seller))
	if subject == "" {
		subject = strings.TrimSpace(platform)
	}
	if subject == "" {
		return nil
	}
	return g.query(ctx, "seller", SellerQuery(subject))
}

// Gather runs the brand and seller queries concurrently
func (g *Gatherer) Gather(ctx context.Context, facts *model.FactRecord) model.EvidenceBundle {
	var bundle model.EvidenceBundle
	if facts == nil {
		return bundle
	}

	// Each goroutine writes its own field; neither returns an error, so
	// one query never cancels the other.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		bundle.BrandEvidence = g.GatherBrand(groupCtx, facts.Brand)
		return nil
	})
	group.Go(func() error {
		bundle.SellerEvidence = g.GatherSeller(groupCtx, facts.Seller, facts.Platform)
		return nil
	})
	_ = group.Wait()

	return bundle
}

func (g *Gatherer) query(ctx context.Context, kind, query string) (evidence *string) {
	if g.provider == nil {
		return nil
	}

	log := g.logger.With(zap.String("evidence", kind), zap.String("provider", g.provider.Name()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("evidence query panicked", zap.Any("panic", r))
			evidence = nil
		}
	}()

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		System:    Instruction,
		Prompt:    query,
		MaxTokens: g.maxTokens,
		WebSearch: true,
	})
	if err != nil {
		log.Warn("evidence query failed", zap.Error(err))
		return nil
	}
	if resp == nil {
		return nil
	}

	text := strings.TrimSpace(resp.Text)
	log.Debug("evidence gathered", zap.Int("chars", len(text)))
	return model.Str(text)
}
