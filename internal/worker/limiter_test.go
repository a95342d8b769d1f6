package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "http://google.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/a"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	// Same host (www. stripped) is throttled; the context expires first
	ctx2, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx2, "https://www.EXAMPLE.com/b"); err == nil {
		t.Error("expected second wait on the same host to be throttled")
	}

	// A different host has its own budget
	if err := limiter.Wait(ctx, "http://other.example/"); err != nil {
		t.Errorf("other host wait failed: %v", err)
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)
	for _, raw := range []string{"", "::bad", "/relative/path"} {
		if err := limiter.Wait(context.Background(), raw); err == nil {
			t.Errorf("Wait(%q): expected error", raw)
		}
	}
}

func TestHostKey(t *testing.T) {
	tests := map[string]string{
		"https://www.amazon.com/dp/1":  "amazon.com",
		"http://Shop.Example:8080/x":   "shop.example",
		"https://wwwshop.example/item": "wwwshop.example",
	}
	for raw, want := range tests {
		got, err := hostKey(raw)
		if err != nil {
			t.Errorf("hostKey(%q) error: %v", raw, err)
			continue
		}
		if got != want {
			t.Errorf("hostKey(%q) = %q, want %q", raw, got, want)
		}
	}
}
