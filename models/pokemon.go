package models

import (
	"fmt"
	"time"
)

// StatBlock holds the six base stats of a species.
type StatBlock struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"sp_attack"`
	SpDefense int `json:"sp_defense"`
	Speed     int `json:"speed"`
}

// StatNames lists the canonical stat identifiers in display order.
var StatNames = []string{"hp", "attack", "defense", "sp_attack", "sp_defense", "speed"}

// Total returns the base stat total.
func (s StatBlock) Total() int {
	return s.HP + s.Attack + s.Defense + s.SpAttack + s.SpDefense + s.Speed
}

// Get returns the value of a named stat.
func (s StatBlock) Get(name string) (int, error) {
	switch name {
	case "hp":
		return s.HP, nil
	case "attack":
		return s.Attack, nil
	case "defense":
		return s.Defense, nil
	case "sp_attack":
		return s.SpAttack, nil
	case "sp_defense":
		return s.SpDefense, nil
	case "speed":
		return s.Speed, nil
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// Values returns the six stats in canonical order.
func (s StatBlock) Values() []int {
	return []int{s.HP, s.Attack, s.Defense, s.SpAttack, s.SpDefense, s.Speed}
}

// Pokemon is one species record as stored in the local cache.
type Pokemon struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Types       []string  `json:"types"` // One or two category labels
	Stats       StatBlock `json:"stats"`
	CaptureRate int       `json:"capture_rate"`
	Height      int       `json:"height"` // Decimetres, as served by the API
	Weight      int       `json:"weight"` // Hectograms, as served by the API
	SpriteURL   string    `json:"sprite_url,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// RankedPokemon is a species with its position in a stat ranking.
type RankedPokemon struct {
	Pokemon
	Rank  int `json:"rank"`
	Value int `json:"value"`
}

// SimilarPokemon is a species with its stat distance from a reference species.
type SimilarPokemon struct {
	Pokemon
	Distance int `json:"distance"`
}
