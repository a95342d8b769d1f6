package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return v
}

func TestCollectNodes_SingleObject(t *testing.T) {
	nodes := CollectNodes(decode(t, `{"@type":"Product","name":"Widget"}`))
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}
	if nodes[0]["name"] != "Widget" {
		t.Errorf("Unexpected node: %v", nodes[0])
	}
}

func TestCollectNodes_PreservesOrder(t *testing.T) {
	raw := `[
		{"@type":"BreadcrumbList","name":"a"},
		{"@graph":[{"@type":"Organization","name":"b"},[{"@type":"WebPage","name":"c"}]]},
		"ignored",
		42,
		{"@type":"Product","name":"d"}
	]`

	nodes := CollectNodes(decode(t, raw))

	want := []string{"a", "b", "c", "d"}
	if len(nodes) != len(want) {
		t.Fatalf("Expected %d nodes, got %d", len(want), len(nodes))
	}
	for i, n := range nodes {
		if n["name"] != want[i] {
			t.Errorf("Node %d: expected name %q, got %v", i, want[i], n["name"])
		}
	}
}

func TestCollectNodes_Scalars(t *testing.T) {
	for _, raw := range []string{`null`, `"text"`, `3.5`, `[]`} {
		if nodes := CollectNodes(decode(t, raw)); len(nodes) != 0 {
			t.Errorf("CollectNodes(%s): expected no nodes, got %d", raw, len(nodes))
		}
	}
}

func TestFindProductNode_TypeArray(t *testing.T) {
	nodes := CollectNodes(decode(t, `[{"@type":"Thing","name":"x"},{"@type":["Product","Thing"],"name":"y"}]`))

	product := FindProductNode(nodes)
	if product == nil {
		t.Fatal("Expected a Product node")
	}
	if product["name"] != "y" {
		t.Errorf("Expected node y, got %v", product["name"])
	}
}

func TestFindProductNode_FirstWins(t *testing.T) {
	nodes := CollectNodes(decode(t, `[{"@type":"Product","name":"first"},{"@type":"Product","name":"second"}]`))

	product := FindProductNode(nodes)
	if product == nil || product["name"] != "first" {
		t.Errorf("Expected first Product node, got %v", product)
	}
}

func TestFindProductNode_None(t *testing.T) {
	nodes := CollectNodes(decode(t, `[{"@type":"Organization"},{"@type":["WebPage"]},{"name":"untyped"},{"@type":"ProductGroup"}]`))
	if product := FindProductNode(nodes); product != nil {
		t.Errorf("Expected nil, got %v", product)
	}
}

func TestProductNodeFromDocument_MalformedBlockSkipped(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type": "Product", "name": </script>
		<script type="application/ld+json">{"@type":"Product","name":"Good Widget"}</script>
	</head><body></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	product := ProductNodeFromDocument(doc)
	if product == nil {
		t.Fatal("Expected the well-formed block's Product node")
	}
	if product["name"] != "Good Widget" {
		t.Errorf("Unexpected product name: %v", product["name"])
	}
}

func TestStructuredBlocks_IgnoresOtherScripts(t *testing.T) {
	html := `<html><head>
		<script>var x = {"@type":"Product"};</script>
		<script type="application/json">{"@type":"Product"}</script>
		<script type="Application/LD+JSON">{"@type":"Organization"}</script>
	</head></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	blocks := StructuredBlocks(doc)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 JSON-LD block, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0], "Organization") {
		t.Errorf("Unexpected block: %s", blocks[0])
	}
}
