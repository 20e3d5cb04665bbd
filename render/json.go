package render

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/typedex/dexgraph/models"
)

// JSONRenderer outputs the graph as machine-readable JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

func (r *JSONRenderer) Description() string {
	return "Renders the category graph as JSON data for machine consumption or custom visualizations"
}

func (r *JSONRenderer) Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	selected := ""
	if hits := graph.FilterNodes(func(n *models.TypeNode) bool { return n.Selected }); len(hits) > 0 {
		selected = hits[0].ID
	}
	highlighted := graph.FilterNodes(func(n *models.TypeNode) bool { return n.Highlighted })

	doc := struct {
		*models.TypeGraph
		Metadata map[string]any `json:"metadata"`
	}{
		TypeGraph: graph,
		Metadata: map[string]any{
			"background":        options.Background,
			"rendered":          time.Now().Format(time.RFC3339),
			"node_count":        len(graph.Nodes),
			"edge_count":        len(graph.Edges),
			"selected":          selected,
			"highlighted_count": len(highlighted),
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}
