// Package render turns layout snapshots into SVG, PNG, ASCII, DOT or JSON
// output. Renderers draw the positions they are given; running the
// simulation is the caller's job.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/typedex/dexgraph/models"
)

// RenderTimeout caps how long a single render may take.
const RenderTimeout = 30 * time.Second

// OutputOptions defines rendering configuration options.
type OutputOptions struct {
	Format         string  // Output format (svg, png, ascii, dot, json)
	Width          float64 // Width of the output
	Height         float64 // Height of the output
	Background     string  // Background color
	NodeSize       float64 // Fallback node radius when a node carries none
	EdgeWidth      float64 // Base edge stroke width
	FontSize       float64 // Font size for labels
	ShowLabels     bool    // Show node labels
	ShowEdgeLabels bool    // Show multiplier labels on edges
}

// Renderer is implemented by every output backend.
type Renderer interface {
	// Render creates a visualization of the graph using the provided options
	Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options.
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:         format,
		Width:          800,
		Height:         600,
		Background:     "#f8f8f8",
		NodeSize:       12.0,
		EdgeWidth:      1.0,
		FontSize:       10.0,
		ShowLabels:     true,
		ShowEdgeLabels: false,
	}
}

// GetRenderer returns the appropriate renderer based on format.
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "png":
		return &PNGRenderer{}, nil
	case "ascii":
		return &ASCIIRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"svg", "png", "ascii", "dot", "json"}
}

// Generate renders the graph in the given format with options derived from
// the graph's own dimensions.
func Generate(graph *models.TypeGraph, format string) ([]byte, error) {
	options := NewDefaultOptions(format)
	options.Width = graph.Width
	options.Height = graph.Height
	return GenerateWithOptions(graph, options)
}

// GenerateWithOptions renders the graph with explicit output options,
// guarding against a renderer hanging.
func GenerateWithOptions(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}

	errChan := make(chan error, 1)
	resultChan := make(chan []byte, 1)

	go func() {
		output, err := renderer.Render(graph, options)
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- output
	}()

	select {
	case output := <-resultChan:
		return output, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(RenderTimeout):
		return nil, fmt.Errorf("rendering timed out after %s", RenderTimeout)
	}
}

// edgeStroke maps an edge's weight class to its stroke width and dash
// pattern: strong relations draw heavy and solid, weak ones dashed,
// immunities dotted.
func edgeStroke(e models.TypeEdge, base float64) (width float64, dash string) {
	switch e.WeightClass() {
	case "strong":
		return base * 2, ""
	case "weak":
		return base, "5,3"
	case "immune":
		return base, "1,3"
	default:
		return base, ""
	}
}

// nodeIndex maps node ids to their slice positions for edge endpoint lookup.
func nodeIndex(graph *models.TypeGraph) map[string]int {
	idx := make(map[string]int, len(graph.Nodes))
	for i, n := range graph.Nodes {
		idx[n.ID] = i
	}
	return idx
}

func nodeRadius(n models.TypeNode, options *OutputOptions) float64 {
	if n.Size > 0 {
		return n.Size
	}
	return options.NodeSize
}
