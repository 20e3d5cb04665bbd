package render

import (
	"bytes"
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/typedex/dexgraph/models"
)

// PNGRenderer rasterizes the graph to a PNG image.
type PNGRenderer struct{}

func (r *PNGRenderer) Name() string {
	return "PNG Renderer"
}

func (r *PNGRenderer) Description() string {
	return "Renders the category graph as a raster PNG image"
}

func (r *PNGRenderer) Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	dc := gg.NewContext(int(options.Width), int(options.Height))
	dc.SetHexColor(options.Background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

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

		tipX, tipY, ok := rimPoint(source, target, nodeRadius(target, options))
		if !ok {
			continue
		}

		width, dash := edgeStroke(edge, options.EdgeWidth)
		dc.SetHexColor(edgeColor)
		dc.SetLineWidth(width)
		switch dash {
		case "5,3":
			dc.SetDash(5, 3)
		case "1,3":
			dc.SetDash(1, 3)
		default:
			dc.SetDash()
		}
		dc.DrawLine(source.X, source.Y, tipX, tipY)
		dc.Stroke()
		dc.SetDash()

		drawArrowPNG(dc, source.X, source.Y, tipX, tipY)

		if options.ShowEdgeLabels {
			dc.DrawStringAnchored(formatWeight(edge.Weight), (source.X+tipX)/2, (source.Y+tipY)/2, 0.5, 0.5)
		}
	}

	for _, node := range graph.Nodes {
		radius := nodeRadius(node, options)

		if node.Selected {
			dc.SetHexColor(selectionRingColor)
			dc.SetLineWidth(3)
			dc.DrawCircle(node.X, node.Y, radius+4)
			dc.Stroke()
		}

		dc.SetHexColor(node.Color)
		dc.DrawCircle(node.X, node.Y, radius)
		dc.Fill()

		if node.Highlighted {
			dc.SetHexColor(highlightColor)
			dc.SetLineWidth(2.5)
		} else {
			dc.SetRGBA(0, 0, 0, 0.3)
			dc.SetLineWidth(0.5)
		}
		dc.DrawCircle(node.X, node.Y, radius)
		dc.Stroke()

		if options.ShowLabels && node.Label != "" {
			dc.SetHexColor(labelColor)
			dc.DrawStringAnchored(node.Label, node.X, node.Y+radius+options.FontSize, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawArrowPNG(dc *gg.Context, x1, y1, tipX, tipY float64) {
	dx := tipX - x1
	dy := tipY - y1
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	ux, uy := dx/dist, dy/dist
	baseX := tipX - ux*8
	baseY := tipY - uy*8
	px, py := -uy*4, ux*4

	dc.SetHexColor(edgeColor)
	dc.NewSubPath()
	dc.MoveTo(tipX, tipY)
	dc.LineTo(baseX+px, baseY+py)
	dc.LineTo(baseX-px, baseY-py)
	dc.ClosePath()
	dc.Fill()
}
