package normalize

import (
	"strings"
	"testing"
	"unicode"
)

func TestBrand(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // "" means nil
	}{
		{"visit the store", "Visit the Acme Store", "acme"},
		{"plain", "Acme", "acme"},
		{"brand label", "Brand: Acme Labs", "acme labs"},
		{"brand label no space", "BRAND:Acme", "acme"},
		{"byline", "by Acme", "acme"},
		{"whitespace collapsed", "  Acme \n  Labs  ", "acme labs"},
		{"interior store kept", "Store Brand Foods Co", "store brand foods co"},
		{"prefix must be a word", "Byron Bay", "byron bay"},
		{"suffix must be a word", "Appstore", "appstore"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"nothing left", "Visit the Store", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Brand(tt.raw)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Brand(%q) = %q, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Brand(%q) = nil, want %q", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("Brand(%q) = %q, want %q", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestTitle_AmazonStyle(t *testing.T) {
	got := Title("Acme Widget (2-Pack) | Amazon.com")
	if got == nil {
		t.Fatal("Expected a simplified title, got nil")
	}

	if *got != "acme widget" {
		t.Errorf("Expected %q, got %q", "acme widget", *got)
	}
	if strings.Contains(*got, "|") || strings.Contains(*got, "(") {
		t.Errorf("Expected pipe suffix and parenthetical removed, got %q", *got)
	}
	if strings.Contains(*got, "amazon") {
		t.Errorf("Expected platform boilerplate removed, got %q", *got)
	}
	for _, tok := range strings.Fields(*got) {
		for _, r := range tok {
			if unicode.IsDigit(r) {
				t.Errorf("Expected no digit-bearing tokens, found %q in %q", tok, *got)
			}
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Amazon.com: Acme 64GB USB Drive 3.0 : Electronics", "acme usb drive"},
		{"Acme Kettle [Stainless] - Free Shipping | Acme Official", "acme kettle"},
		{"ACME   Running Shoe, Size 10.5", "acme running shoe, size"},
		{"Widget XL2000 Pro", "widget pro"},
		{"Acme Blender (Red) by Acme", "acme blender by acme"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Title(tt.raw)
			if got == nil {
				t.Fatalf("Title(%q) = nil, want %q", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestTitle_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "(2-Pack)", "| Amazon.com"} {
		if got := Title(raw); got != nil {
			t.Errorf("Title(%q) = %q, want nil", raw, *got)
		}
	}
}

func TestSpace(t *testing.T) {
	if got := Space("  Sold by \n\t Acme   Outlet "); got != "Sold by Acme Outlet" {
		t.Errorf("Unexpected result: %q", got)
	}
}

func TestIsCodeToken(t *testing.T) {
	tests := []struct {
		tok  string
		want bool
	}{
		{"64gb", true},
		{"3.0", true},
		{"2-pack", true},
		{"10.5,", true},
		{"xl2000", true},
		{"widget", false},
		{"usb-c", false},
		{"#1", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isCodeToken(tt.tok); got != tt.want {
			t.Errorf("isCodeToken(%q) = %v, want %v", tt.tok, got, tt.want)
		}
	}
}
