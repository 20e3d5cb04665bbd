// Package physics implements the force-directed layout simulation behind the
// type-relationship graph. The simulation owns position, velocity and force
// state only; selection and highlight state live with the caller so the core
// stays presentation-agnostic. Ticks are driven externally, the engine has no
// timer of its own.
package physics

import (
	"math"

	"github.com/typedex/dexgraph/typechart"
)

// Force vector components
type force struct {
	fx, fy float64
}

// Position coordinates
type position struct {
	x, y float64
}

// Velocity vector components
type velocity struct {
	vx, vy float64
}

// Profile holds the tunable physics coefficients for a simulation.
type Profile struct {
	Gravity           float64 `json:"gravity" yaml:"gravity"`                       // Center attraction strength
	RepulsionForce    float64 `json:"repulsion_force" yaml:"repulsion_force"`       // Pairwise repulsion strength
	InteractionRadius float64 `json:"interaction_radius" yaml:"interaction_radius"` // Repulsion cut-off distance
	SpringConstant    float64 `json:"spring_constant" yaml:"spring_constant"`       // Edge attraction strength
	SpringLength      float64 `json:"spring_length" yaml:"spring_length"`           // Base ideal edge length
	SpringWeightScale float64 `json:"spring_weight_scale" yaml:"spring_weight_scale"`
	DampingFactor     float64 `json:"damping_factor" yaml:"damping_factor"` // Velocity decay per tick, < 1
	MinDistance       float64 `json:"min_distance" yaml:"min_distance"`     // Below this, force application is skipped
	BoundaryMargin    float64 `json:"boundary_margin" yaml:"boundary_margin"`
}

// DefaultProfile returns the standard physics coefficients.
func DefaultProfile() Profile {
	return Profile{
		Gravity:           0.02,
		RepulsionForce:    12000.0,
		InteractionRadius: 160.0,
		SpringConstant:    0.015,
		SpringLength:      80.0,
		SpringWeightScale: 20.0,
		DampingFactor:     0.9,
		MinDistance:       0.5,
		BoundaryMargin:    20.0,
	}
}

// ProfileByName returns a named physics preset. Unknown names fall back to
// the default profile.
func ProfileByName(name string) Profile {
	switch name {
	case "tight":
		p := DefaultProfile()
		p.Gravity = 0.05
		p.SpringLength = 50.0
		p.SpringWeightScale = 12.0
		p.InteractionRadius = 120.0
		return p
	case "airy":
		p := DefaultProfile()
		p.Gravity = 0.008
		p.RepulsionForce = 20000.0
		p.SpringLength = 120.0
		p.InteractionRadius = 220.0
		return p
	default:
		return DefaultProfile()
	}
}

// initialRadiusFactor scales the circular starting layout against the
// smaller viewport dimension.
const initialRadiusFactor = 0.4

// NodeState is a read-only snapshot of one simulated node.
type NodeState struct {
	ID string
	X  float64
	Y  float64
	VX float64
	VY float64
}

// EdgeState is a read-only snapshot of one directed spring.
type EdgeState struct {
	From   string
	To     string
	Weight float64
}

// simNode carries the physics state for one category.
type simNode struct {
	id  string
	pos position
	vel velocity
	frc force
}

// spring is a directed edge between two node indexes. The correction force
// applies to the source node only.
type spring struct {
	from   int
	to     int
	weight float64
}

// Simulation is a force-directed layout over the categories of an
// effectiveness chart. One node per category, one spring per non-neutral
// ordered pair of distinct categories.
type Simulation struct {
	width    float64
	height   float64
	profile  Profile
	nodes    []simNode
	index    map[string]int
	springs  []spring
	dragging string
	ticks    int
}

// New creates a simulation over every category of the chart, arranged on the
// initial circle. A nil chart or one without categories yields a no-op
// simulation rather than an error.
func New(chart *typechart.Chart, width, height float64, profile Profile) *Simulation {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	s := &Simulation{
		width:   width,
		height:  height,
		profile: profile,
		index:   make(map[string]int),
	}
	if chart == nil {
		return s
	}

	for _, t := range chart.Types() {
		s.index[t] = len(s.nodes)
		s.nodes = append(s.nodes, simNode{id: t})
	}
	for _, rel := range chart.Relations() {
		from, okFrom := s.index[rel.From]
		to, okTo := s.index[rel.To]
		if !okFrom || !okTo {
			continue
		}
		s.springs = append(s.springs, spring{from: from, to: to, weight: rel.Multiplier})
	}

	s.placeOnCircle()
	return s
}

// placeOnCircle arranges nodes evenly around a circle centered in the
// viewport, with zeroed velocity and force.
func (s *Simulation) placeOnCircle() {
	totalNodes := float64(len(s.nodes))
	if totalNodes == 0 {
		return
	}
	centerX := s.width / 2
	centerY := s.height / 2
	radius := math.Min(s.width, s.height) * initialRadiusFactor

	for i := range s.nodes {
		angle := (2 * math.Pi * float64(i)) / totalNodes
		s.nodes[i].pos = position{
			x: centerX + radius*math.Cos(angle),
			y: centerY + radius*math.Sin(angle),
		}
		s.nodes[i].vel = velocity{}
		s.nodes[i].frc = force{}
	}
}

// Step advances the simulation by one tick: accumulate center, repulsion and
// spring forces, integrate with damping, then clamp to the viewport. The tick
// is skipped entirely while a drag is active or when there are no nodes.
func (s *Simulation) Step() {
	if s.dragging != "" || len(s.nodes) == 0 {
		return
	}
	p := s.profile

	// Reset forces
	for i := range s.nodes {
		s.nodes[i].frc = force{}
	}

	// Center attraction, proportional to distance from the viewport center
	centerX := s.width / 2
	centerY := s.height / 2
	for i := range s.nodes {
		node := &s.nodes[i]
		dx := centerX - node.pos.x
		dy := centerY - node.pos.y
		distance := math.Sqrt(dx*dx + dy*dy)
		if distance < p.MinDistance {
			continue
		}
		magnitude := p.Gravity * distance
		node.frc.fx += dx / distance * magnitude
		node.frc.fy += dy / distance * magnitude
	}

	// Pairwise repulsion with an interaction radius cut-off
	for i := 0; i < len(s.nodes); i++ {
		for j := i + 1; j < len(s.nodes); j++ {
			dx := s.nodes[i].pos.x - s.nodes[j].pos.x
			dy := s.nodes[i].pos.y - s.nodes[j].pos.y
			distance := math.Sqrt(dx*dx + dy*dy)
			if distance < p.MinDistance || distance > p.InteractionRadius {
				continue
			}
			magnitude := p.RepulsionForce / (distance * distance)

			// Normalize vector
			dx /= distance
			dy /= distance
			s.nodes[i].frc.fx += dx * magnitude
			s.nodes[i].frc.fy += dy * magnitude
			s.nodes[j].frc.fx -= dx * magnitude
			s.nodes[j].frc.fy -= dy * magnitude
		}
	}

	// Spring correction toward the ideal distance, applied to the source node
	for _, sp := range s.springs {
		src := &s.nodes[sp.from]
		dst := &s.nodes[sp.to]
		dx := dst.pos.x - src.pos.x
		dy := dst.pos.y - src.pos.y
		distance := math.Sqrt(dx*dx + dy*dy)
		if distance < p.MinDistance {
			continue
		}
		ideal := p.SpringLength + p.SpringWeightScale*sp.weight
		magnitude := p.SpringConstant * (distance - ideal)
		src.frc.fx += dx / distance * magnitude
		src.frc.fy += dy / distance * magnitude
	}

	// Integrate velocity with damping, then clamp positions to the viewport
	for i := range s.nodes {
		node := &s.nodes[i]
		node.vel.vx = (node.vel.vx + node.frc.fx) * p.DampingFactor
		node.vel.vy = (node.vel.vy + node.frc.fy) * p.DampingFactor
		node.pos.x += node.vel.vx
		node.pos.y += node.vel.vy

		node.pos.x = math.Max(p.BoundaryMargin, math.Min(s.width-p.BoundaryMargin, node.pos.x))
		node.pos.y = math.Max(p.BoundaryMargin, math.Min(s.height-p.BoundaryMargin, node.pos.y))
	}

	s.ticks++
}

// Run advances the simulation by n ticks.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// RunUntilStable steps the simulation until total kinetic energy drops below
// the threshold or maxTicks is reached, and returns the number of ticks run.
func (s *Simulation) RunUntilStable(maxTicks int, threshold float64) int {
	ran := 0
	for ; ran < maxTicks; ran++ {
		s.Step()
		if s.Energy() < threshold {
			ran++
			break
		}
	}
	return ran
}

// BeginDrag marks a node as dragged. While any drag is active the simulation
// does not advance. Returns false for unknown categories.
func (s *Simulation) BeginDrag(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.dragging = id
	return true
}

// DragTo pins the dragged node at the given position and zeroes its velocity.
// The drag is started implicitly when no drag is active yet.
func (s *Simulation) DragTo(id string, x, y float64) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	if s.dragging != "" && s.dragging != id {
		return false
	}
	s.dragging = id
	s.nodes[i].pos = position{x: x, y: y}
	s.nodes[i].vel = velocity{}
	return true
}

// EndDrag releases the dragged node so physics resumes from the drop point.
func (s *Simulation) EndDrag(id string) {
	if s.dragging == id {
		s.dragging = ""
	}
}

// Dragging returns the category currently being dragged, or "".
func (s *Simulation) Dragging() string {
	return s.dragging
}

// Reset restores the initial circular layout and releases any drag.
func (s *Simulation) Reset() {
	s.dragging = ""
	s.ticks = 0
	s.placeOnCircle()
}

// Resize updates the viewport bounds. Positions are pulled back inside the
// new bounds on the next tick.
func (s *Simulation) Resize(width, height float64) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

// SetProfile swaps the physics coefficients, keeping positions and
// velocities. Used for live retuning.
func (s *Simulation) SetProfile(p Profile) {
	s.profile = p
}

// Profile returns the active physics coefficients.
func (s *Simulation) Profile() Profile {
	return s.profile
}

// Size returns the viewport dimensions.
func (s *Simulation) Size() (width, height float64) {
	return s.width, s.height
}

// NodeCount returns the number of simulated categories.
func (s *Simulation) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of directed springs.
func (s *Simulation) EdgeCount() int {
	return len(s.springs)
}

// Ticks returns the number of ticks run since creation or the last reset.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Energy returns the total kinetic energy, the sum of squared velocity
// magnitudes over all nodes.
func (s *Simulation) Energy() float64 {
	total := 0.0
	for i := range s.nodes {
		v := s.nodes[i].vel
		total += v.vx*v.vx + v.vy*v.vy
	}
	return total
}

// Position returns the current position of a category.
func (s *Simulation) Position(id string) (x, y float64, ok bool) {
	i, found := s.index[id]
	if !found {
		return 0, 0, false
	}
	return s.nodes[i].pos.x, s.nodes[i].pos.y, true
}

// Nodes returns a snapshot of all node states in chart order.
func (s *Simulation) Nodes() []NodeState {
	out := make([]NodeState, len(s.nodes))
	for i := range s.nodes {
		n := &s.nodes[i]
		out[i] = NodeState{ID: n.id, X: n.pos.x, Y: n.pos.y, VX: n.vel.vx, VY: n.vel.vy}
	}
	return out
}

// Edges returns a snapshot of all directed springs.
func (s *Simulation) Edges() []EdgeState {
	out := make([]EdgeState, len(s.springs))
	for i, sp := range s.springs {
		out[i] = EdgeState{From: s.nodes[sp.from].id, To: s.nodes[sp.to].id, Weight: sp.weight}
	}
	return out
}
