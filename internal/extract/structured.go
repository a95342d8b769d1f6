package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is one decoded structured-data (JSON-LD) object
type Node = map[string]any

// nodeKind classifies a decoded JSON-LD value
type nodeKind int

const (
	kindOther     nodeKind = iota // scalar or null, contributes nothing
	kindObject                    // a single leaf object
	kindSequence                  // an array of values
	kindContainer                 // an object wrapping an "@graph" array
)

func classify(v any) nodeKind {
	switch t := v.(type) {
	case []any:
		return kindSequence
	case map[string]any:
		if _, ok := t["@graph"].([]any); ok {
			return kindContainer
		}
		return kindObject
	default:
		return kindOther
	}
}

// CollectNodes flattens a decoded JSON-LD payload into candidate nodes,
// depth-first in encounter order. A payload may be a single object, an
// array of objects, or a container object with an "@graph" child array.
func CollectNodes(v any) []Node {
	var nodes []Node

	var walk func(any)
	walk = func(v any) {
		switch classify(v) {
		case kindObject:
			nodes = append(nodes, v.(map[string]any))
		case kindSequence:
			for _, item := range v.([]any) {
				walk(item)
			}
		case kindContainer:
			for _, child := range v.(map[string]any)["@graph"].([]any) {
				walk(child)
			}
		}
	}

	walk(v)
	return nodes
}

// FindProductNode returns the first node whose @type is "Product" or an
// array containing "Product". It returns nil when no node qualifies.
func FindProductNode(nodes []Node) Node {
	for _, n := range nodes {
		if isProductType(n["@type"]) {
			return n
		}
	}
	return nil
}

func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// StructuredBlocks returns the raw text of every JSON-LD script block in
// document order
func StructuredBlocks(doc *goquery.Document) []string {
	var blocks []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return
		}
		blocks = append(blocks, s.Text())
	})
	return blocks
}

// ProductNode decodes each block, skipping malformed ones, and returns the
// first Product node across all of them. One bad block never hides a
// Product declared in a later block.
func ProductNode(blocks []string) Node {
	var nodes []Node
	for _, raw := range blocks {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &v); err != nil {
			continue
		}
		nodes = append(nodes, CollectNodes(v)...)
	}
	return FindProductNode(nodes)
}

// ProductNodeFromDocument locates the Product node of a parsed page
func ProductNodeFromDocument(doc *goquery.Document) Node {
	return ProductNode(StructuredBlocks(doc))
}
