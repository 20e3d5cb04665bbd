package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/typedex/dexgraph/models"
)

// Drift layers slow simplex-noise motion over published node positions so an
// idle graph still looks alive. It only touches the published snapshot, never
// the simulation state, so convergence and clamping are unaffected.
type Drift struct {
	noiseGenerator opensimplex.Noise
	noiseScale     float64
	amount         float64
	pulseFactor    float64
	timeStep       float64
}

// NewDrift creates a drift decorator from a noise seed.
func NewDrift(seed int64) *Drift {
	return &Drift{
		noiseGenerator: opensimplex.New(seed),
		noiseScale:     0.03,
		amount:         6.0,
		pulseFactor:    0.1,
	}
}

// SetAmount adjusts the maximum pixel offset applied per node.
func (d *Drift) SetAmount(amount float64) {
	d.amount = amount
}

// Apply offsets the node positions of a published graph and advances the
// animation clock. Offsets are kept inside the canvas.
func (d *Drift) Apply(g *models.TypeGraph) {
	for i := range g.Nodes {
		node := &g.Nodes[i]

		// A unique phase per node keeps the pulsing out of sync
		nodePhase := float64(i) * 0.1
		noise1 := d.noiseGenerator.Eval3(node.X*d.noiseScale, node.Y*d.noiseScale, d.timeStep)
		noise2 := d.noiseGenerator.Eval3(node.X*d.noiseScale+100, node.Y*d.noiseScale+100, d.timeStep)

		pulseAmount := 1.0 + math.Sin(d.timeStep*2+nodePhase)*d.pulseFactor
		node.X += noise1 * d.amount * pulseAmount
		node.Y += noise2 * d.amount * pulseAmount

		node.X = math.Max(0, math.Min(g.Width, node.X))
		node.Y = math.Max(0, math.Min(g.Height, node.Y))
	}

	d.timeStep += 0.01
}
