package session

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/typedex/dexgraph/physics"
	"github.com/typedex/dexgraph/typechart"
)

func testChart(t *testing.T) *typechart.Chart {
	t.Helper()
	c, err := typechart.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(testChart(t), Options{
		Width:   800,
		Height:  600,
		Profile: physics.DefaultProfile(),
	})
}

// expectedNeighbors computes the adjacency of a category straight from the
// chart relations, in either edge direction.
func expectedNeighbors(c *typechart.Chart, id string) map[string]bool {
	out := make(map[string]bool)
	for _, r := range c.Relations() {
		if r.From == id {
			out[r.To] = true
		}
		if r.To == id {
			out[r.From] = true
		}
	}
	return out
}

func TestSelectHighlightsExactlyConnected(t *testing.T) {
	chart := testChart(t)
	s := NewSession(chart, Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})

	if err := s.Select("fire"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	want := expectedNeighbors(chart, "fire")
	snap := s.Snapshot()
	for _, n := range snap.Nodes {
		switch {
		case n.ID == "fire":
			if !n.Selected {
				t.Error("selected node not flagged")
			}
			if n.Highlighted {
				t.Error("selected node should not also be highlighted")
			}
		case want[n.ID]:
			if !n.Highlighted {
				t.Errorf("connected node %s not highlighted", n.ID)
			}
			if n.Selected {
				t.Errorf("node %s flagged selected", n.ID)
			}
		default:
			if n.Highlighted || n.Selected {
				t.Errorf("unconnected node %s flagged", n.ID)
			}
		}
	}
}

func TestSelectSwitchClearsPrevious(t *testing.T) {
	chart := testChart(t)
	s := NewSession(chart, Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})

	if err := s.Select("fire"); err != nil {
		t.Fatalf("Select fire failed: %v", err)
	}
	if err := s.Select("water"); err != nil {
		t.Fatalf("Select water failed: %v", err)
	}

	want := expectedNeighbors(chart, "water")
	for _, n := range s.Snapshot().Nodes {
		if n.ID == "fire" {
			if n.Selected {
				t.Error("previous selection not cleared")
			}
			// fire is hit super-effectively by water, so it stays
			// highlighted as a neighbor of the new selection.
			if !want["fire"] {
				t.Fatal("test premise wrong: fire should neighbor water")
			}
			continue
		}
		if n.ID == "water" && !n.Selected {
			t.Error("new selection not flagged")
		}
		if n.Highlighted != want[n.ID] {
			t.Errorf("node %s highlight=%v, want %v", n.ID, n.Highlighted, want[n.ID])
		}
	}
}

func TestSelectToggleClears(t *testing.T) {
	s := newTestSession(t)

	if err := s.Select("grass"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if err := s.Select("grass"); err != nil {
		t.Fatalf("toggle Select failed: %v", err)
	}
	if s.Selected() != "" {
		t.Errorf("expected empty selection after toggle, got %q", s.Selected())
	}
	for _, n := range s.Snapshot().Nodes {
		if n.Selected || n.Highlighted {
			t.Errorf("node %s still flagged after toggle", n.ID)
		}
	}
}

func TestSelectUnknownCategory(t *testing.T) {
	s := newTestSession(t)
	err := s.Select("shadow")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestDragLifecycle(t *testing.T) {
	s := newTestSession(t)

	if err := s.BeginDrag("ice"); err != nil {
		t.Fatalf("BeginDrag failed: %v", err)
	}
	if err := s.DragTo("ice", 123, 45); err != nil {
		t.Fatalf("DragTo failed: %v", err)
	}

	// Ticks are suppressed for the whole graph while dragging.
	before := s.Snapshot()
	s.Tick(5)
	after := s.Snapshot()
	for i := range after.Nodes {
		if after.Nodes[i].X != before.Nodes[i].X || after.Nodes[i].Y != before.Nodes[i].Y {
			t.Errorf("node %s moved while dragging", after.Nodes[i].ID)
		}
	}

	node, err := after.NodeByID("ice")
	if err != nil {
		t.Fatalf("NodeByID failed: %v", err)
	}
	if node.X != 123 || node.Y != 45 {
		t.Errorf("dragged node at (%v, %v), want (123, 45)", node.X, node.Y)
	}

	s.EndDrag("ice")
	s.Tick(1)
	if s.Energy() < 0 {
		t.Error("energy must not be negative")
	}
}

func TestDragUnknownCategory(t *testing.T) {
	s := newTestSession(t)
	if err := s.BeginDrag("shadow"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory from BeginDrag, got %v", err)
	}
	if err := s.DragTo("shadow", 1, 1); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory from DragTo, got %v", err)
	}
}

func TestResetClearsSelectionAndLayout(t *testing.T) {
	s := newTestSession(t)
	initial := s.Snapshot()

	s.Tick(40)
	if err := s.Select("fire"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	s.Reset()

	snap := s.Snapshot()
	for i, n := range snap.Nodes {
		if n.Selected || n.Highlighted {
			t.Errorf("node %s still flagged after reset", n.ID)
		}
		if n.X != initial.Nodes[i].X || n.Y != initial.Nodes[i].Y {
			t.Errorf("node %s not restored to initial position", n.ID)
		}
	}
}

func TestSnapshotCarriesPresentation(t *testing.T) {
	chart := testChart(t)
	s := NewSession(chart, Options{Width: 640, Height: 480, Profile: physics.DefaultProfile(), ProfileName: "default"})

	snap := s.Snapshot()
	if snap.ID != s.ID {
		t.Errorf("snapshot ID %q does not match session %q", snap.ID, s.ID)
	}
	if snap.Width != 640 || snap.Height != 480 {
		t.Errorf("snapshot dimensions (%v, %v)", snap.Width, snap.Height)
	}
	if snap.Profile != "default" {
		t.Errorf("snapshot profile %q", snap.Profile)
	}
	if len(snap.Nodes) != chart.Count() {
		t.Fatalf("expected %d nodes, got %d", chart.Count(), len(snap.Nodes))
	}
	if len(snap.Edges) != len(chart.Relations()) {
		t.Fatalf("expected %d edges, got %d", len(chart.Relations()), len(snap.Edges))
	}

	node, err := snap.NodeByID("fire")
	if err != nil {
		t.Fatalf("NodeByID failed: %v", err)
	}
	if node.Color != typechart.Color("fire") {
		t.Errorf("expected fire color %s, got %s", typechart.Color("fire"), node.Color)
	}
	if node.Connections != len(expectedNeighbors(chart, "fire")) {
		t.Errorf("expected %d connections, got %d", len(expectedNeighbors(chart, "fire")), node.Connections)
	}
	if node.Size <= 8 {
		t.Errorf("expected size scaled by connections, got %v", node.Size)
	}
}

func TestSnapshotDriftStaysInCanvas(t *testing.T) {
	s := NewSession(testChart(t), Options{
		Width:     800,
		Height:    600,
		Profile:   physics.DefaultProfile(),
		Drift:     true,
		DriftSeed: 42,
	})

	for i := 0; i < 5; i++ {
		snap := s.Snapshot()
		for _, n := range snap.Nodes {
			if n.X < 0 || n.X > 800 || n.Y < 0 || n.Y > 600 {
				t.Fatalf("drifted node %s at (%v, %v) left the canvas", n.ID, n.X, n.Y)
			}
		}
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(testChart(t), slog.Default(), ManagerOptions{})

	s := m.Create(Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})
	if m.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", m.Len())
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("Get returned session %q, want %q", got.ID, s.ID)
	}

	if _, err := m.Get("nope"); !errors.Is(err, ErrNoSuchSession) {
		t.Errorf("expected ErrNoSuchSession, got %v", err)
	}

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected 0 sessions after delete, got %d", m.Len())
	}
	if err := m.Delete(s.ID); !errors.Is(err, ErrNoSuchSession) {
		t.Errorf("expected ErrNoSuchSession on double delete, got %v", err)
	}
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m := NewManager(testChart(t), slog.Default(), ManagerOptions{IdleTTL: 10 * time.Millisecond})

	fresh := m.Create(Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})
	stale := m.Create(Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})
	_ = stale

	time.Sleep(20 * time.Millisecond)
	fresh.Tick(1) // counts as an interaction

	m.reapIdle(time.Now())

	if m.Len() != 1 {
		t.Fatalf("expected 1 session after reaping, got %d", m.Len())
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Errorf("fresh session was reaped: %v", err)
	}
}

func TestManagerShutdown(t *testing.T) {
	m := NewManager(testChart(t), slog.Default(), ManagerOptions{})
	m.Create(Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})
	m.Shutdown()
	if m.Len() != 1 {
		t.Error("shutdown should stop loops without dropping sessions")
	}
}

func TestManagerRetune(t *testing.T) {
	m := NewManager(testChart(t), slog.Default(), ManagerOptions{})

	live := m.Create(Options{Width: 800, Height: 600, Profile: physics.DefaultProfile()})
	m.Retune("tight", physics.ProfileByName("tight"))

	if got := live.Snapshot().Profile; got != "tight" {
		t.Errorf("live session profile = %q, want tight", got)
	}

	// New sessions without an explicit profile inherit the retuned default.
	inherited := m.Create(Options{Width: 800, Height: 600})
	if got := inherited.Snapshot().Profile; got != "tight" {
		t.Errorf("inherited profile = %q, want tight", got)
	}

	// An explicit choice still wins.
	explicit := m.Create(Options{
		Width:       800,
		Height:      600,
		ProfileName: "airy",
		Profile:     physics.ProfileByName("airy"),
	})
	if got := explicit.Snapshot().Profile; got != "airy" {
		t.Errorf("explicit profile = %q, want airy", got)
	}
}
