package physics

import (
	"math"
	"testing"

	"github.com/typedex/dexgraph/typechart"
)

func fullChart(t *testing.T) *typechart.Chart {
	t.Helper()
	c, err := typechart.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func neutralChart(t *testing.T, types ...string) *typechart.Chart {
	t.Helper()
	c, err := typechart.New(types, nil)
	if err != nil {
		t.Fatalf("New chart failed: %v", err)
	}
	return c
}

func TestInitialCircularLayout(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())

	nodes := sim.Nodes()
	if len(nodes) != 18 {
		t.Fatalf("expected 18 nodes, got %d", len(nodes))
	}

	centerX, centerY := 400.0, 300.0
	radius := 600 * 0.4
	n := float64(len(nodes))

	for i, node := range nodes {
		angle := (2 * math.Pi * float64(i)) / n
		wantX := centerX + radius*math.Cos(angle)
		wantY := centerY + radius*math.Sin(angle)
		if math.Abs(node.X-wantX) > 1e-9 || math.Abs(node.Y-wantY) > 1e-9 {
			t.Errorf("node %s at (%v, %v), want (%v, %v)", node.ID, node.X, node.Y, wantX, wantY)
		}
		if node.VX != 0 || node.VY != 0 {
			t.Errorf("node %s has nonzero initial velocity (%v, %v)", node.ID, node.VX, node.VY)
		}
	}

	// Adjacent nodes are evenly spaced and no two nodes coincide.
	spacing := math.Hypot(nodes[1].X-nodes[0].X, nodes[1].Y-nodes[0].Y)
	for i := range nodes {
		next := nodes[(i+1)%len(nodes)]
		d := math.Hypot(next.X-nodes[i].X, next.Y-nodes[i].Y)
		if math.Abs(d-spacing) > 1e-9 {
			t.Errorf("uneven spacing between nodes %d and %d: %v vs %v", i, (i+1)%len(nodes), d, spacing)
		}
		for j := i + 1; j < len(nodes); j++ {
			if nodes[i].X == nodes[j].X && nodes[i].Y == nodes[j].Y {
				t.Errorf("nodes %s and %s coincide", nodes[i].ID, nodes[j].ID)
			}
		}
	}
}

func TestTwoNodesDoNotCoincide(t *testing.T) {
	sim := New(neutralChart(t, "a", "b"), 800, 600, DefaultProfile())
	nodes := sim.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].X == nodes[1].X && nodes[0].Y == nodes[1].Y {
		t.Error("initial positions coincide")
	}
}

func TestNilChartIsNoOp(t *testing.T) {
	sim := New(nil, 800, 600, DefaultProfile())
	if sim.NodeCount() != 0 {
		t.Fatalf("expected 0 nodes, got %d", sim.NodeCount())
	}
	sim.Step()
	sim.Reset()
	if sim.Energy() != 0 {
		t.Errorf("expected zero energy, got %v", sim.Energy())
	}
	if sim.Ticks() != 0 {
		t.Errorf("expected no ticks to run, got %d", sim.Ticks())
	}
}

func TestEdgeConstruction(t *testing.T) {
	chart := fullChart(t)
	sim := New(chart, 800, 600, DefaultProfile())

	if sim.EdgeCount() != len(chart.Relations()) {
		t.Fatalf("expected %d springs, got %d", len(chart.Relations()), sim.EdgeCount())
	}

	weights := make(map[[2]string]float64)
	for _, e := range sim.Edges() {
		if e.From == e.To {
			t.Errorf("unexpected self edge for %s", e.From)
		}
		weights[[2]string{e.From, e.To}] = e.Weight
	}

	if w := weights[[2]string{"fire", "grass"}]; w != 2.0 {
		t.Errorf("expected fire->grass weight 2.0, got %v", w)
	}
	if w := weights[[2]string{"grass", "fire"}]; w != 0.5 {
		t.Errorf("expected grass->fire weight 0.5, got %v", w)
	}
	// normal->rock is defined, the reverse pair is neutral and gets no edge.
	if _, ok := weights[[2]string{"normal", "rock"}]; !ok {
		t.Error("expected normal->rock edge")
	}
	if _, ok := weights[[2]string{"rock", "normal"}]; ok {
		t.Error("did not expect rock->normal edge")
	}
}

func TestAllNeutralChartYieldsNoEdges(t *testing.T) {
	sim := New(neutralChart(t, "a", "b", "c"), 800, 600, DefaultProfile())
	if sim.EdgeCount() != 0 {
		t.Errorf("expected no springs, got %d", sim.EdgeCount())
	}
}

func TestEnergySettlesOverTicks(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())

	sim.Run(20)
	early := sim.Energy()
	if early == 0 {
		t.Fatal("expected motion after 20 ticks")
	}

	sim.Run(480)
	late := sim.Energy()
	if late >= early {
		t.Errorf("energy did not settle: early %v, late %v", early, late)
	}
	if late > 5.0 {
		t.Errorf("expected near-rest after 500 ticks, energy still %v", late)
	}
}

func TestPositionsClampedEveryTick(t *testing.T) {
	profile := DefaultProfile()
	sim := New(fullChart(t), 400, 300, profile)

	for tick := 0; tick < 200; tick++ {
		sim.Step()
		for _, n := range sim.Nodes() {
			if n.X < profile.BoundaryMargin || n.X > 400-profile.BoundaryMargin {
				t.Fatalf("tick %d: node %s x=%v outside bounds", tick, n.ID, n.X)
			}
			if n.Y < profile.BoundaryMargin || n.Y > 300-profile.BoundaryMargin {
				t.Fatalf("tick %d: node %s y=%v outside bounds", tick, n.ID, n.Y)
			}
		}
	}
}

func TestDragPinsNodeAndSkipsTicks(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())
	sim.Run(10)
	ticksBefore := sim.Ticks()
	before := sim.Nodes()

	if !sim.BeginDrag("fire") {
		t.Fatal("BeginDrag failed for known category")
	}
	if !sim.DragTo("fire", 50, 50) {
		t.Fatal("DragTo failed for dragged category")
	}

	sim.Step()
	sim.Step()

	if sim.Ticks() != ticksBefore {
		t.Errorf("ticks advanced during drag: %d -> %d", ticksBefore, sim.Ticks())
	}

	after := sim.Nodes()
	for i, n := range after {
		if n.ID == "fire" {
			if n.X != 50 || n.Y != 50 {
				t.Errorf("dragged node at (%v, %v), want (50, 50)", n.X, n.Y)
			}
			if n.VX != 0 || n.VY != 0 {
				t.Errorf("dragged node has velocity (%v, %v)", n.VX, n.VY)
			}
			continue
		}
		if n.X != before[i].X || n.Y != before[i].Y {
			t.Errorf("node %s moved during drag", n.ID)
		}
	}
}

func TestDragReleaseHoldsWithoutForces(t *testing.T) {
	// Two unrelated categories, one dragged to the exact center: no center
	// pull, no springs, and the other node is beyond the interaction radius.
	sim := New(neutralChart(t, "a", "b"), 800, 600, DefaultProfile())

	if !sim.DragTo("a", 400, 300) {
		t.Fatal("DragTo failed")
	}
	sim.EndDrag("a")

	sim.Step()
	x, y, ok := sim.Position("a")
	if !ok {
		t.Fatal("Position failed")
	}
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("node drifted to (%v, %v) without any forces", x, y)
	}
}

func TestDragReleaseDriftsTowardEquilibrium(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())
	sim.Run(10)

	sim.DragTo("fire", 50, 50)
	sim.EndDrag("fire")
	if sim.Dragging() != "" {
		t.Fatal("drag still active after release")
	}

	sim.Step()
	x1, y1, _ := sim.Position("fire")
	firstStep := math.Hypot(x1-50, y1-50)
	// Springs and gravity act on the far-flung node, but a single tick must
	// not teleport it back toward the cluster.
	if firstStep > 50 {
		t.Errorf("node jumped %v pixels on the first tick after release", firstStep)
	}

	sim.Run(60)
	x2, y2, _ := sim.Position("fire")
	if math.Hypot(x2-50, y2-50) <= firstStep {
		t.Error("node did not drift toward equilibrium after release")
	}
}

func TestDragValidation(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())

	if sim.BeginDrag("shadow") {
		t.Error("BeginDrag accepted unknown category")
	}
	if sim.DragTo("shadow", 10, 10) {
		t.Error("DragTo accepted unknown category")
	}

	sim.BeginDrag("fire")
	if sim.DragTo("water", 10, 10) {
		t.Error("DragTo accepted a second category during an active drag")
	}
	sim.EndDrag("water")
	if sim.Dragging() != "fire" {
		t.Error("EndDrag for a different category cleared the drag")
	}
	sim.EndDrag("fire")
	if sim.Dragging() != "" {
		t.Error("EndDrag did not clear the drag")
	}
}

func TestResetRestoresInitialLayout(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())
	initial := sim.Nodes()

	sim.Run(50)
	sim.BeginDrag("fire")
	sim.Reset()

	if sim.Dragging() != "" {
		t.Error("reset did not release the drag")
	}
	if sim.Ticks() != 0 {
		t.Errorf("reset did not clear the tick counter, got %d", sim.Ticks())
	}
	if sim.Energy() != 0 {
		t.Errorf("reset left kinetic energy %v", sim.Energy())
	}
	for i, n := range sim.Nodes() {
		if math.Abs(n.X-initial[i].X) > 1e-9 || math.Abs(n.Y-initial[i].Y) > 1e-9 {
			t.Errorf("node %s not back at initial position", n.ID)
		}
	}
}

func TestResizeClampsIntoNewBounds(t *testing.T) {
	profile := DefaultProfile()
	sim := New(fullChart(t), 800, 600, profile)
	sim.Run(5)

	sim.Resize(300, 300)
	sim.Step()
	for _, n := range sim.Nodes() {
		if n.X < profile.BoundaryMargin || n.X > 300-profile.BoundaryMargin ||
			n.Y < profile.BoundaryMargin || n.Y > 300-profile.BoundaryMargin {
			t.Errorf("node %s at (%v, %v) outside resized bounds", n.ID, n.X, n.Y)
		}
	}
}

func TestCoincidentNodesSkipForces(t *testing.T) {
	sim := New(neutralChart(t, "a", "b"), 800, 600, DefaultProfile())
	x, y, _ := sim.Position("b")

	sim.DragTo("a", x, y)
	sim.EndDrag("a")
	sim.Run(3)

	for _, n := range sim.Nodes() {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			t.Fatalf("node %s has NaN state after coincident placement", n.ID)
		}
	}
}

func TestRunUntilStable(t *testing.T) {
	sim := New(neutralChart(t, "a", "b", "c"), 800, 600, DefaultProfile())

	ran := sim.RunUntilStable(10000, 0.01)
	if ran >= 10000 {
		t.Fatalf("simulation did not stabilize within %d ticks", ran)
	}
	if e := sim.Energy(); e >= 0.01 {
		t.Errorf("energy %v above threshold after stabilizing", e)
	}
}

func TestSetProfile(t *testing.T) {
	sim := New(fullChart(t), 800, 600, DefaultProfile())

	p := ProfileByName("airy")
	sim.SetProfile(p)
	if got := sim.Profile(); got != p {
		t.Errorf("profile not applied: got %+v", got)
	}
}

func TestProfileByName(t *testing.T) {
	if ProfileByName("default") != DefaultProfile() {
		t.Error("expected default profile for 'default'")
	}
	if ProfileByName("nope") != DefaultProfile() {
		t.Error("expected fallback to default profile")
	}
	if ProfileByName("tight") == DefaultProfile() {
		t.Error("expected tight preset to differ from default")
	}
	if ProfileByName("airy") == DefaultProfile() {
		t.Error("expected airy preset to differ from default")
	}
}
