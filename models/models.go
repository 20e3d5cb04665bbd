// Package models provides data structures for the dexgraph application.
// It defines the core domain models used throughout the application.
package models

import (
	"time"
)

// TypeNode represents one elemental type category in the relationship graph.
type TypeNode struct {
	ID          string  `json:"id"`    // Category label, e.g. "fire"
	Label       string  `json:"label"` // Display name
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	Selected    bool    `json:"selected"`
	Highlighted bool    `json:"highlighted"`
	Connections int     `json:"connections"`
}

// TypeEdge represents a directed effectiveness relation between two categories.
// An edge exists only when the multiplier differs from the neutral 1.0.
type TypeEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// WeightClass buckets an edge weight for styling and display.
// Returns "immune", "weak", "strong" or "neutral".
func (e *TypeEdge) WeightClass() string {
	switch {
	case e.Weight == 0:
		return "immune"
	case e.Weight < 1:
		return "weak"
	case e.Weight > 1:
		return "strong"
	default:
		return "neutral"
	}
}

// TypeGraph is the published layout state consumed by renderers and the API.
type TypeGraph struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Nodes     []TypeNode `json:"nodes"`
	Edges     []TypeEdge `json:"edges"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Profile   string     `json:"profile"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
