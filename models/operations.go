package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewTypeGraph creates a new graph with a unique ID and timestamps.
func NewTypeGraph(name string, width, height float64) *TypeGraph {
	now := time.Now()
	return &TypeGraph{
		ID:        uuid.New().String(),
		Name:      name,
		Nodes:     []TypeNode{},
		Edges:     []TypeEdge{},
		Width:     width,
		Height:    height,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddNode adds a node to the graph.
func (g *TypeGraph) AddNode(node TypeNode) {
	g.Nodes = append(g.Nodes, node)
	g.UpdatedAt = time.Now()
}

// AddEdge adds an edge to the graph. Both endpoints must already exist,
// self-edges and neutral weights are rejected.
func (g *TypeGraph) AddEdge(edge TypeEdge) error {
	if edge.From == edge.To {
		return fmt.Errorf("self-edge on category %s is not allowed", edge.From)
	}
	if edge.Weight == 1 {
		return fmt.Errorf("edge %s->%s has neutral weight", edge.From, edge.To)
	}

	fromExists, toExists := false, false
	for i := range g.Nodes {
		if g.Nodes[i].ID == edge.From {
			fromExists = true
		}
		if g.Nodes[i].ID == edge.To {
			toExists = true
		}
		if fromExists && toExists {
			break
		}
	}
	if !fromExists {
		return fmt.Errorf("source category %s does not exist in the graph", edge.From)
	}
	if !toExists {
		return fmt.Errorf("target category %s does not exist in the graph", edge.To)
	}

	g.Edges = append(g.Edges, edge)
	g.UpdatedAt = time.Now()
	return nil
}

// SetDimensions sets the width and height of the graph canvas.
func (g *TypeGraph) SetDimensions(width, height float64) {
	g.Width = width
	g.Height = height
	g.UpdatedAt = time.Now()
}

// SetPosition sets the position of a node.
func (n *TypeNode) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// SetAppearance sets the visual properties of a node.
func (n *TypeNode) SetAppearance(size float64, color string) {
	n.Size = size
	n.Color = color
}
