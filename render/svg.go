package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/typedex/dexgraph/models"
)

const (
	selectionRingColor = "#222222"
	highlightColor     = "#ffb300"
	edgeColor          = "#666666"
	labelColor         = "#333333"
)

// SVGRenderer outputs scalable vector graphics.
type SVGRenderer struct{}

func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

func (r *SVGRenderer) Description() string {
	return "Renders the category graph as Scalable Vector Graphics for high-quality vector output"
}

func (r *SVGRenderer) Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(options.Width), int(options.Height))
	canvas.Rect(0, 0, int(options.Width), int(options.Height), fmt.Sprintf("fill:%s", options.Background))

	idx := nodeIndex(graph)

	for _, edge := range graph.Edges {
		si, ok := idx[edge.From]
		if !ok {
			continue
		}
		ti, ok := idx[edge.To]
		if !ok {
			continue
		}
		source := graph.Nodes[si]
		target := graph.Nodes[ti]

		width, dash := edgeStroke(edge, options.EdgeWidth)
		style := fmt.Sprintf("stroke:%s;stroke-width:%.1f", edgeColor, width)
		if dash != "" {
			style += fmt.Sprintf(";stroke-dasharray:%s", dash)
		}

		// Stop the line at the target's rim so the arrowhead stays visible.
		tipX, tipY, ok := rimPoint(source, target, nodeRadius(target, options))
		if !ok {
			continue
		}
		canvas.Line(int(source.X), int(source.Y), int(tipX), int(tipY), style)
		drawArrowSVG(canvas, source, target, tipX, tipY)

		if options.ShowEdgeLabels {
			midX := (source.X + tipX) / 2
			midY := (source.Y + tipY) / 2
			canvas.Text(int(midX), int(midY), formatWeight(edge.Weight),
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:sans-serif;text-anchor:middle", edgeColor, options.FontSize*0.9))
		}
	}

	for _, node := range graph.Nodes {
		radius := nodeRadius(node, options)

		if node.Selected {
			canvas.Circle(int(node.X), int(node.Y), int(radius+4),
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", selectionRingColor))
		}

		stroke := "rgba(0,0,0,0.3)"
		strokeWidth := 0.5
		if node.Highlighted {
			stroke = highlightColor
			strokeWidth = 2.5
		}
		canvas.Circle(int(node.X), int(node.Y), int(radius),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", node.Color, stroke, strokeWidth))

		if options.ShowLabels && node.Label != "" {
			labelY := node.Y + radius + options.FontSize + 2
			canvas.Text(int(node.X), int(labelY), node.Label,
				fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:sans-serif;text-anchor:middle", labelColor, options.FontSize))
		}
	}

	canvas.End()
	return buf.Bytes(), nil
}

// rimPoint walks back from the target center along the edge direction so
// lines and arrowheads end on the circle rim, not under it.
func rimPoint(source, target models.TypeNode, radius float64) (x, y float64, ok bool) {
	dx := target.X - source.X
	dy := target.Y - source.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0, false
	}
	return target.X - dx/dist*(radius+2), target.Y - dy/dist*(radius+2), true
}

func drawArrowSVG(canvas *svg.SVG, source, target models.TypeNode, tipX, tipY float64) {
	dx := tipX - source.X
	dy := tipY - source.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	ux, uy := dx/dist, dy/dist
	baseX := tipX - ux*8
	baseY := tipY - uy*8
	// Perpendicular offsets for the two base corners.
	px, py := -uy*4, ux*4

	canvas.Polygon(
		[]int{int(tipX), int(baseX + px), int(baseX - px)},
		[]int{int(tipY), int(baseY + py), int(baseY - py)},
		fmt.Sprintf("fill:%s", edgeColor),
	)
}

func formatWeight(w float64) string {
	if w == math.Trunc(w) {
		return fmt.Sprintf("%.0fx", w)
	}
	return fmt.Sprintf("%gx", w)
}
