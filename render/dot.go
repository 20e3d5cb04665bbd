package render

import (
	"bytes"
	"fmt"

	"github.com/typedex/dexgraph/models"
)

// DOTRenderer outputs Graphviz DOT format.
type DOTRenderer struct{}

func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

func (r *DOTRenderer) Description() string {
	return "Renders the category graph in Graphviz DOT format for use with Graphviz tools"
}

func (r *DOTRenderer) Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph typegraph {\n")
	buf.WriteString(fmt.Sprintf("  graph [bgcolor=\"%s\", size=\"%f,%f\"];\n",
		options.Background, options.Width/72.0, options.Height/72.0))
	buf.WriteString(fmt.Sprintf("  node [shape=circle, style=filled, fontname=\"Arial\", fontsize=%f];\n",
		options.FontSize))
	buf.WriteString(fmt.Sprintf("  edge [fontname=\"Arial\", fontsize=%f];\n",
		options.FontSize*0.8))

	for _, node := range graph.Nodes {
		label := node.Label
		if label == "" {
			label = node.ID
		}

		penwidth := 1.0
		if node.Selected {
			penwidth = 3.0
		} else if node.Highlighted {
			penwidth = 2.0
		}

		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"%s\", penwidth=%.1f, pos=\"%f,%f!\"];\n",
			node.ID, label, node.Color, penwidth, node.X/100.0, node.Y/100.0))
	}

	for _, edge := range graph.Edges {
		style := "solid"
		switch edge.WeightClass() {
		case "strong":
			style = "bold"
		case "weak":
			style = "dashed"
		case "immune":
			style = "dotted"
		}

		label := ""
		if options.ShowEdgeLabels {
			label = fmt.Sprintf(", label=\"%s\"", formatWeight(edge.Weight))
		}

		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"%s\", weight=%f, style=%s%s];\n",
			edge.From, edge.To, edgeColor, edge.Weight, style, label))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
