package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCohereProvider_Complete_WebSearch(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat") {
			t.Errorf("Expected chat endpoint, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_id": "r1", "generation_id": "g1", "text": "  Acme Corp is a US manufacturer.  "}`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System:    "Facts only.",
		Prompt:    "acme brand company manufacturer complaints",
		WebSearch: true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "Acme Corp is a US manufacturer." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Model != "command-r" {
		t.Errorf("Expected default model, got %q", resp.Model)
	}
	if got["message"] != "acme brand company manufacturer complaints" {
		t.Errorf("Unexpected message: %v", got["message"])
	}
	if got["preamble"] != "Facts only." {
		t.Errorf("Unexpected preamble: %v", got["preamble"])
	}
	connectors, _ := got["connectors"].([]any)
	if len(connectors) != 1 {
		t.Fatalf("Expected one connector, got %v", got["connectors"])
	}
	if c, _ := connectors[0].(map[string]any); c["id"] != webSearchConnector {
		t.Errorf("Expected web-search connector, got %v", connectors[0])
	}
}

func TestCohereProvider_Complete_NoWebSearch(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "q"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, ok := got["connectors"]; ok {
		t.Errorf("Expected no connectors, got %v", got["connectors"])
	}
}

func TestCohereProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid api token"}`))
	}))
	defer server.Close()

	provider, err := NewCohereProvider(Config{APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "q"}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestCohereProvider_MissingKey(t *testing.T) {
	if _, err := NewCohereProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}
