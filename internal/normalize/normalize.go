// Package normalize cleans brand names, product titles and free text
// scraped from listing pages.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)

	brandPrefixRe = regexp.MustCompile(`(?i)^\s*(?:brand\s*:|visit\s+the\b|by\b)\s*`)
	brandSuffixRe = regexp.MustCompile(`(?i)\s*\bstore\s*$`)

	parentheticalRe = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
)

// titleBoilerplate lists platform and category phrases removed from
// lowercased titles. Order matters: longer phrases come first.
var titleBoilerplate = []*regexp.Regexp{
	regexp.MustCompile(`amazon\.com\s*:?`),
	regexp.MustCompile(`walmart\.com\s*:?`),
	regexp.MustCompile(`ebay\.com\s*:?`),
	regexp.MustCompile(`\bebay\b`),
	regexp.MustCompile(`:\s*(?:home & kitchen|electronics|tools & home improvement|health & household|beauty & personal care|clothing, shoes & jewelry|toys & games|sports & outdoors|office products|pet supplies|automotive)\s*$`),
	regexp.MustCompile(`\b(?:free shipping|brand new|new arrival|best seller|hot sale|official store|on sale|limited time deal)\b`),
}

// Space collapses runs of whitespace into single spaces and trims the result
func Space(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// Brand normalizes a raw brand string: it drops a leading label such as
// "Brand:", "Visit the" or "by", a trailing "Store", collapses whitespace
// and lowercases. It returns nil when nothing remains.
func Brand(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	s := brandPrefixRe.ReplaceAllString(raw, "")
	s = brandSuffixRe.ReplaceAllString(s, "")
	s = strings.ToLower(Space(s))
	if s == "" {
		return nil
	}
	return &s
}

// Title reduces a product title to something close to a generic product
// name. This is a heuristic: the result is not guaranteed to be generic.
// It returns nil when the input is empty or nothing survives cleanup.
func Title(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	s := strings.ToLower(raw)
	for _, re := range titleBoilerplate {
		s = re.ReplaceAllString(s, " ")
	}

	// Everything after the first pipe is the store suffix
	if idx := strings.Index(s, "|"); idx >= 0 {
		s = s[:idx]
	}

	s = parentheticalRe.ReplaceAllString(s, " ")

	kept := make([]string, 0)
	for _, tok := range strings.Fields(s) {
		if isCodeToken(tok) {
			continue
		}
		kept = append(kept, tok)
	}

	s = strings.Trim(strings.Join(kept, " "), " -,:;")
	if s == "" {
		return nil
	}
	return &s
}

// isCodeToken reports whether tok looks like a size or model code:
// letters, digits and joiners only, with at least one digit.
func isCodeToken(tok string) bool {
	core := strings.Trim(tok, ",.;:!?\"'")
	if core == "" {
		return false
	}

	hasDigit := false
	for _, r := range core {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r), r == '-', r == '.', r == '/', r == '"', r == '\'':
		default:
			return false
		}
	}
	return hasDigit
}
