package model

// SourceHTML tags facts extracted from the listing's HTML document.
const SourceHTML = "html"

// FactRecord is the normalized set of facts extracted from one listing
type FactRecord struct {
	Title    *string `json:"title"`    // Raw product title, before simplification
	Price    *string `json:"price"`    // Currency-like token, e.g. "$19.99" or "19.99"
	Seller   *string `json:"seller"`   // Whitespace-normalized seller / byline text
	Brand    *string `json:"brand"`    // Normalized brand name
	Platform string  `json:"platform"` // Request host without a leading "www."
	Source   string  `json:"source"`   // Provenance tag; "html" today, others may follow
}

// Str returns a pointer to s, or nil when s is empty
func Str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
