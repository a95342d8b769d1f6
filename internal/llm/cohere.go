package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/ppiankov/vouch/internal/util"
)

// webSearchConnector is Cohere's managed web search grounding
const webSearchConnector = "web-search"

// CohereProvider implements the Provider interface for Cohere chat models
type CohereProvider struct {
	client *cohereclient.Client
	config Config
}

// NewCohereProvider creates a new Cohere provider
func NewCohereProvider(config Config) (*CohereProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Cohere API key is required")
	}

	httpClient := &http.Client{
		Timeout: config.timeout(),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	var client *cohereclient.Client
	if config.BaseURL != "" {
		client = cohereclient.NewClient(
			cohereclient.WithToken(config.APIKey),
			cohereclient.WithHTTPClient(httpClient),
			cohereclient.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")),
		)
	} else {
		client = cohereclient.NewClient(
			cohereclient.WithToken(config.APIKey),
			cohereclient.WithHTTPClient(httpClient),
		)
	}

	return &CohereProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *CohereProvider) Name() string {
	return "cohere"
}

// Ping sends a minimal chat message
func (p *CohereProvider) Ping(ctx context.Context) error {
	_, err := p.Complete(ctx, CompletionRequest{Prompt: "Hi", MaxTokens: 5})
	return err
}

// Complete generates text with Cohere's chat endpoint. WebSearch attaches
// the managed web-search connector so the answer is grounded in live
// results.
func (p *CohereProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := p.config.model(req, "command-r")
	maxTokens := p.config.maxTokens(req)
	temperature := 0.2

	preamble := req.System
	if req.JSON {
		preamble = strings.TrimSpace(preamble + "\n" + jsonOnlyInstruction)
	}

	chatReq := &cohere.ChatRequest{
		Message:     req.Prompt,
		Model:       &model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
	if preamble != "" {
		chatReq.Preamble = &preamble
	}
	if req.WebSearch {
		chatReq.Connectors = []*cohere.ChatConnector{{Id: webSearchConnector}}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout())
	defer cancel()

	resp, err := p.client.Chat(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("cohere API error: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from Cohere")
	}

	return &CompletionResponse{
		Text:  strings.TrimSpace(resp.Text),
		Model: model,
	}, nil
}
