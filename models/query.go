package models

import (
	"fmt"
)

// NodeFilter is a function type used to filter nodes in queries.
type NodeFilter func(node *TypeNode) bool

// NodeByID returns a node by its category label.
func (g *TypeGraph) NodeByID(id string) (*TypeNode, error) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], nil
		}
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// EdgesFrom returns all edges originating from a category.
func (g *TypeGraph) EdgesFrom(id string) []TypeEdge {
	var result []TypeEdge
	for _, edge := range g.Edges {
		if edge.From == id {
			result = append(result, edge)
		}
	}
	return result
}

// EdgesTo returns all edges targeting a category.
func (g *TypeGraph) EdgesTo(id string) []TypeEdge {
	var result []TypeEdge
	for _, edge := range g.Edges {
		if edge.To == id {
			result = append(result, edge)
		}
	}
	return result
}

// ConnectedIDs returns the categories directly connected to id through an
// edge in either direction. The result contains no duplicates.
func (g *TypeGraph) ConnectedIDs(id string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, edge := range g.Edges {
		var other string
		switch id {
		case edge.From:
			other = edge.To
		case edge.To:
			other = edge.From
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			result = append(result, other)
		}
	}
	return result
}

// Degree returns the number of edges touching a category in either direction.
func (g *TypeGraph) Degree(id string) int {
	count := 0
	for _, edge := range g.Edges {
		if edge.From == id || edge.To == id {
			count++
		}
	}
	return count
}

// FilterNodes returns nodes that match the provided filter function.
func (g *TypeGraph) FilterNodes(filter NodeFilter) []TypeNode {
	var result []TypeNode
	for i, node := range g.Nodes {
		if filter(&g.Nodes[i]) {
			result = append(result, node)
		}
	}
	return result
}
