package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/vouch/internal/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HTMLFetcher retrieves the HTML body of a listing page. Any non-2xx
// response must be reported as an error.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// FactExtractor turns a listing URL into a normalized FactRecord
type FactExtractor struct {
	fetcher HTMLFetcher
	logger  *zap.Logger
}

// NewFactExtractor creates a new fact extractor
func NewFactExtractor(fetcher HTMLFetcher, logger *zap.Logger) *FactExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactExtractor{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Extract fetches the listing and resolves every field through its
// fallback chain. Extraction is all-or-nothing: a fetch, parse or
// decoding failure returns (nil, err) and never a partial record.
// Missing individual fields are not errors.
func (e *FactExtractor) Extract(ctx context.Context, rawURL string) (record *model.FactRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = eris.Errorf("extract: panic: %v", r)
		}
	}()

	platform, err := Platform(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := e.fetcher.FetchHTML(ctx, rawURL)
	if err != nil {
		return nil, eris.Wrap(err, "extract: fetch")
	}

	record, err = ExtractFromHTML(body, platform)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted listing facts",
		zap.String("url", rawURL),
		zap.Bool("title", record.Title != nil),
		zap.Bool("price", record.Price != nil),
		zap.Bool("seller", record.Seller != nil),
		zap.Bool("brand", record.Brand != nil),
	)

	return record, nil
}

// ExtractFromHTML resolves a FactRecord from an already fetched document
func ExtractFromHTML(body string, platform string) (*model.FactRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse html")
	}

	p := page{
		doc:     doc,
		product: ProductNodeFromDocument(doc),
	}

	return &model.FactRecord{
		Title:    p.Title(),
		Price:    p.Price(),
		Seller:   p.Seller(),
		Brand:    p.Brand(),
		Platform: platform,
		Source:   model.SourceHTML,
	}, nil
}

// Platform returns the URL's host without a leading "www."
func Platform(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", eris.Wrap(err, "extract: parse url")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", eris.Errorf("extract: unsupported scheme %q", parsed.Scheme)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", eris.Errorf("extract: url %q has no host", rawURL)
	}

	return strings.TrimPrefix(host, "www."), nil
}
