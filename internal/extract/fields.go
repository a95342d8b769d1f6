package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/vouch/internal/model"
	"github.com/ppiankov/vouch/internal/normalize"
)

// priceRe matches the first currency-like token in free text
var priceRe = regexp.MustCompile(`\$?\d+(\.\d{2})?`)

// Candidate lazily produces one possible value for a field
type Candidate func() string

// FirstNonEmpty evaluates candidates in order and returns the first
// non-blank value, or "" when every candidate comes up empty
func FirstNonEmpty(candidates ...Candidate) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c()); v != "" {
			return v
		}
	}
	return ""
}

// page bundles what field resolution reads from: the parsed document and
// the structured-data Product node, which may be nil
type page struct {
	doc     *goquery.Document
	product Node
}

// titleCandidates: structured name, og:title, <title>
func (p page) titleCandidates() []Candidate {
	return []Candidate{
		func() string { return scalarString(p.product["name"]) },
		func() string { return p.metaContent("og:title") },
		func() string { return p.doc.Find("title").First().Text() },
	}
}

// priceCandidates: offer price, offer priceSpecification, price meta tag,
// itemprop=price micro-format, first element with "price" in its class
func (p page) priceCandidates() []Candidate {
	return []Candidate{
		func() string { return scalarString(p.primaryOffer()["price"]) },
		func() string { return scalarString(firstObject(p.primaryOffer()["priceSpecification"])["price"]) },
		func() string { return p.metaContent("product:price:amount") },
		func() string { return attrOrText(p.doc.Find(`[itemprop="price"]`).First()) },
		func() string { return p.doc.Find(`[class*="price"]`).First().Text() },
	}
}

// sellerCandidates: offer seller name, seller profile link, byline
func (p page) sellerCandidates() []Candidate {
	return []Candidate{
		func() string { return nameOf(p.primaryOffer()["seller"]) },
		func() string { return p.doc.Find("#sellerProfileTriggerId").First().Text() },
		func() string { return p.doc.Find("#bylineInfo").First().Text() },
	}
}

// brandCandidates: structured brand, itemprop=brand micro-format,
// "Brand" row of the product overview table
func (p page) brandCandidates() []Candidate {
	return []Candidate{
		func() string { return nameOf(p.product["brand"]) },
		func() string { return p.microBrand() },
		func() string { return p.overviewRow("brand") },
	}
}

// Title resolves the raw product title
func (p page) Title() *string {
	return model.Str(normalize.Space(FirstNonEmpty(p.titleCandidates()...)))
}

// Price resolves the first candidate and reduces it to a price token.
// Reduction always runs: DOM text often carries ranges or list prices.
func (p page) Price() *string {
	raw := FirstNonEmpty(p.priceCandidates()...)
	return model.Str(ReducePrice(raw))
}

// Seller resolves the whitespace-normalized seller name
func (p page) Seller() *string {
	return model.Str(normalize.Space(FirstNonEmpty(p.sellerCandidates()...)))
}

// Brand resolves and normalizes the brand name
func (p page) Brand() *string {
	return normalize.Brand(FirstNonEmpty(p.brandCandidates()...))
}

// ReducePrice returns the first currency-like token in raw, or ""
func ReducePrice(raw string) string {
	return priceRe.FindString(raw)
}

// primaryOffer returns the first offer of the Product node. A single offer
// object is treated as a one-element list.
func (p page) primaryOffer() Node {
	offers := Offers(p.product)
	if len(offers) == 0 {
		return nil
	}
	return offers[0]
}

// Offers normalizes a Product node's offers field into a list
func Offers(product Node) []Node {
	if product == nil {
		return nil
	}
	switch v := product["offers"].(type) {
	case map[string]any:
		return []Node{v}
	case []any:
		offers := make([]Node, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				offers = append(offers, m)
			}
		}
		return offers
	}
	return nil
}

func (p page) metaContent(key string) string {
	sel := p.doc.Find(`meta[property="` + key + `"]`).First()
	if sel.Length() == 0 {
		sel = p.doc.Find(`meta[name="` + key + `"]`).First()
	}
	content, _ := sel.Attr("content")
	return content
}

func (p page) microBrand() string {
	sel := p.doc.Find(`[itemprop="brand"]`).First()
	if sel.Length() == 0 {
		return ""
	}
	if name := sel.Find(`[itemprop="name"]`).First(); name.Length() > 0 {
		return attrOrText(name)
	}
	return attrOrText(sel)
}

// overviewRow returns the value cell of the product overview table row
// whose label matches label (case-insensitive)
func (p page) overviewRow(label string) string {
	var value string
	p.doc.Find("#productOverview_feature_div tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		if !strings.EqualFold(normalize.Space(cells.First().Text()), label) {
			return true
		}
		value = cells.Eq(1).Text()
		return false
	})
	return value
}

// attrOrText prefers the content attribute used by micro-format markup
func attrOrText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return content
	}
	return sel.Text()
}

// scalarString renders a JSON-LD string or number. Fractional numbers
// keep two decimals so 19.90 stays a price and not "19.9".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t != math.Trunc(t) {
			return strconv.FormatFloat(t, 'f', 2, 64)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// nameOf reads a value that is either a plain string or an object (or
// list of objects) with a name field
func nameOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return scalarString(t["name"])
	case []any:
		for _, item := range t {
			if name := nameOf(item); name != "" {
				return name
			}
		}
	}
	return ""
}

// firstObject returns v when it is an object, or the first object of a list
func firstObject(v any) Node {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}
