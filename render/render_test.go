package render

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/typedex/dexgraph/models"
)

func testGraph(t *testing.T) *models.TypeGraph {
	t.Helper()
	g := models.NewTypeGraph("type-effectiveness", 800, 600)

	nodes := []models.TypeNode{
		{ID: "fire", Label: "fire", X: 200, Y: 200, Size: 12, Color: "#F08030", Selected: true},
		{ID: "water", Label: "water", X: 600, Y: 200, Size: 12, Color: "#6890F0", Highlighted: true},
		{ID: "grass", Label: "grass", X: 400, Y: 450, Size: 12, Color: "#78C850", Highlighted: true},
		{ID: "normal", Label: "normal", X: 150, Y: 450, Size: 10, Color: "#A8A878"},
		{ID: "ghost", Label: "ghost", X: 650, Y: 450, Size: 10, Color: "#705898"},
	}
	for _, n := range nodes {
		g.AddNode(n)
	}

	edges := []models.TypeEdge{
		{From: "fire", To: "grass", Weight: 2.0},
		{From: "fire", To: "water", Weight: 0.5},
		{From: "normal", To: "ghost", Weight: 0.0},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	return g
}

func TestGetRenderer(t *testing.T) {
	for _, format := range Formats() {
		r, err := GetRenderer(format)
		if err != nil {
			t.Fatalf("GetRenderer(%q) failed: %v", format, err)
		}
		if r.Name() == "" || r.Description() == "" {
			t.Errorf("renderer %q missing name or description", format)
		}
	}
	if _, err := GetRenderer("webgl"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateSVG(t *testing.T) {
	out, err := Generate(testGraph(t), "svg")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	svg := string(out)

	for _, want := range []string{
		`width="800"`,
		`fill:#F08030`,
		`stroke-dasharray:5,3`, // fire resists water: dashed
		`stroke-dasharray:1,3`, // ghost immunity: dotted
		`stroke-width:3`,       // selection ring
		`>fire</text>`,
		`</svg>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg output missing %q", want)
		}
	}
}

func TestSVGEdgeLabels(t *testing.T) {
	opts := NewDefaultOptions("svg")
	opts.Width, opts.Height = 800, 600
	opts.ShowEdgeLabels = true

	out, err := GenerateWithOptions(testGraph(t), opts)
	if err != nil {
		t.Fatalf("GenerateWithOptions failed: %v", err)
	}
	svg := string(out)
	if !strings.Contains(svg, ">2x</text>") {
		t.Error("strong multiplier label missing")
	}
	if !strings.Contains(svg, ">0.5x</text>") {
		t.Error("weak multiplier label missing")
	}
}

func TestGeneratePNG(t *testing.T) {
	out, err := Generate(testGraph(t), "png")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output does not start with PNG magic bytes")
	}
	if len(out) < 100 {
		t.Errorf("suspiciously small PNG: %d bytes", len(out))
	}
}

func TestGenerateASCII(t *testing.T) {
	out, err := Generate(testGraph(t), "ascii")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	art := string(out)

	if !strings.Contains(art, "type-effectiveness") {
		t.Error("title missing from ascii output")
	}
	if !strings.ContainsRune(art, glyphSelected) {
		t.Error("selected glyph missing")
	}
	if !strings.Contains(art, "@ selected  + highlighted") {
		t.Error("legend missing")
	}
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	if len(lines) < 20 {
		t.Errorf("expected at least 20 grid rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "+-") {
		t.Errorf("missing border, first line %q", lines[0])
	}
}

func TestGenerateDOT(t *testing.T) {
	out, err := Generate(testGraph(t), "dot")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	dot := string(out)

	for _, want := range []string{
		"digraph typegraph {",
		`"fire" -> "grass"`,
		"style=bold",   // strong hit
		"style=dashed", // resisted hit
		"style=dotted", // immunity
		`fillcolor="#F08030"`,
		"penwidth=3.0", // selection
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot output missing %q", want)
		}
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := Generate(testGraph(t), "json")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var doc struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID       string `json:"id"`
			Selected bool   `json:"selected"`
		} `json:"nodes"`
		Edges    []any          `json:"edges"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Name != "type-effectiveness" {
		t.Errorf("unexpected graph name %q", doc.Name)
	}
	if len(doc.Nodes) != 5 || len(doc.Edges) != 3 {
		t.Errorf("expected 5 nodes and 3 edges, got %d and %d", len(doc.Nodes), len(doc.Edges))
	}
	if doc.Metadata["node_count"] != float64(5) {
		t.Errorf("unexpected node_count %v", doc.Metadata["node_count"])
	}
	if doc.Metadata["selected"] != "fire" {
		t.Errorf("metadata selected = %v, want fire", doc.Metadata["selected"])
	}
	if doc.Metadata["highlighted_count"] != float64(2) {
		t.Errorf("metadata highlighted_count = %v, want 2", doc.Metadata["highlighted_count"])
	}
	found := false
	for _, n := range doc.Nodes {
		if n.ID == "fire" && n.Selected {
			found = true
		}
	}
	if !found {
		t.Error("selection flag not serialized")
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	if _, err := Generate(testGraph(t), "webgl"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
