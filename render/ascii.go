package render

import (
	"strings"

	"github.com/typedex/dexgraph/models"
)

// ASCIIRenderer outputs a terminal-friendly projection of the graph.
type ASCIIRenderer struct{}

func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

func (r *ASCIIRenderer) Description() string {
	return "Renders the category graph as ASCII art for terminal or text-based output"
}

// Node glyphs: '@' marks the selected node, '+' its highlighted neighbors,
// 'O' everything else.
const (
	glyphSelected    = '@'
	glyphHighlighted = '+'
	glyphNode        = 'O'
	glyphEdge        = '.'
)

func (r *ASCIIRenderer) Render(graph *models.TypeGraph, options *OutputOptions) ([]byte, error) {
	// Scale the canvas down to character cells, correcting for the roughly
	// 1:2 aspect ratio of terminal glyphs.
	width := max(int(options.Width/10), 40)
	height := max(int(options.Height/20), 20)

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < width; i++ {
		grid[0][i] = '-'
		grid[height-1][i] = '-'
	}
	for i := 0; i < height; i++ {
		grid[i][0] = '|'
		grid[i][width-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][width-1] = '+'
	grid[height-1][0] = '+'
	grid[height-1][width-1] = '+'

	idx := nodeIndex(graph)
	toCell := func(x, y float64) (int, int) {
		cx := clamp(int(x*float64(width-2)/options.Width)+1, 1, width-2)
		cy := clamp(int(y*float64(height-2)/options.Height)+1, 1, height-2)
		return cx, cy
	}

	for _, edge := range graph.Edges {
		si, ok := idx[edge.From]
		if !ok {
			continue
		}
		ti, ok := idx[edge.To]
		if !ok {
			continue
		}
		x1, y1 := toCell(graph.Nodes[si].X, graph.Nodes[si].Y)
		x2, y2 := toCell(graph.Nodes[ti].X, graph.Nodes[ti].Y)
		drawLine(grid, x1, y1, x2, y2)
	}

	anyFlagged := false
	for _, node := range graph.Nodes {
		x, y := toCell(node.X, node.Y)

		glyph := glyphNode
		switch {
		case node.Selected:
			glyph = glyphSelected
			anyFlagged = true
		case node.Highlighted:
			glyph = glyphHighlighted
			anyFlagged = true
		}
		grid[y][x] = glyph

		if options.ShowLabels && node.Label != "" && y+1 < height-1 {
			label := node.Label
			if len(label) > width-x-1 {
				label = label[:width-x-1]
			}
			for i := 0; i < len(label) && x+i < width-1; i++ {
				grid[y+1][x+i] = rune(label[i])
			}
		}
	}

	if title := graph.Name; title != "" && len(title) < width-4 && height > 3 {
		for i, c := range title {
			grid[1][i+2] = c
		}
	}

	if anyFlagged && height > 4 {
		legend := "@ selected  + highlighted"
		if len(legend) < width-4 {
			for i, c := range legend {
				grid[height-2][i+2] = c
			}
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return []byte(result.String()), nil
}

// clamp keeps a grid coordinate inside [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// drawLine plots a Bresenham line, stepping around node glyphs so markers
// stay readable.
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if x1 >= 0 && x1 < len(grid[0]) && y1 >= 0 && y1 < len(grid) {
			switch grid[y1][x1] {
			case glyphSelected, glyphHighlighted, glyphNode:
			default:
				grid[y1][x1] = glyphEdge
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 >= dy {
			if x1 == x2 {
				break
			}
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			if y1 == y2 {
				break
			}
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
