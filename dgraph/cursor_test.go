package dgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

func network(t *topo.Topology) *inf.Infrastructure {
	m := NewBuilder()
	m.CreateNetwork(t, nil)
	return m.Infrastructure()
}

func TestAdvance(t *testing.T) {
	g := network(topo.Straight(100))
	type setup struct {
		name     string
		from     Cursor
		l        float64
		expected Cursor
		ok       bool
	}
	setups := []setup{
		{"zero", AtNode(1), 0, AtNode(1), true},
		{"onto-edge", AtNode(1), 30, OnEdge(1, 2, 70), true},
		{"along-edge", OnEdge(1, 2, 70), 20, OnEdge(1, 2, 50), true},
		{"edge-end", AtNode(1), 100, AtNode(3), true},
		{"past-end", AtNode(1), 101, Cursor{}, false},
		{"boundary", AtNode(0), 1, Cursor{}, false},
	}
	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			got, ok := s.from.Advance(g, s.l)
			if ok != s.ok {
				t.Fatalf("expected ok %t, got %t", s.ok, ok)
			}
			if got != s.expected {
				t.Fatalf("expected %s, got %s", s.expected, got)
			}
		})
	}
}

func TestAdvanceSwitch(t *testing.T) {
	g := network(topo.Siding(500, 300))
	if _, ok := AtNode(1).Advance(g, 600); ok {
		t.Fatal("Advance shouldn't pick a switch branch")
	}
	// from the left branch, through the switch onto the trunk
	got, ok := AtNode(6).Advance(g, 400)
	if !ok {
		t.Fatal("Advance failed")
	}
	if expected := OnEdge(2, 1, 400); got != expected {
		t.Fatalf("expected %s, got %s", expected, got)
	}
}

func TestAdvanceBranchingTruncated(t *testing.T) {
	type setup struct {
		name     string
		t        *topo.Topology
		from     Cursor
		l        float64
		expected []Reach
	}
	setups := []setup{
		{"straight", topo.Straight(1000), AtNode(1), 200, []Reach{
			{OnEdge(1, 2, 800), 200},
		}},
		{"dead-end", topo.Straight(100), AtNode(1), 150, []Reach{
			{AtNode(3), 100},
		}},
		{"fork", topo.Siding(500, 300), AtNode(1), 600, []Reach{
			{OnEdge(5, 6, 200), 600},
			{OnEdge(9, 10, 200), 600},
		}},
		{"merge", topo.Siding(500, 300), AtNode(6), 400, []Reach{
			{OnEdge(4, 3, 0), 300},
		}},
	}
	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			g := network(s.t)
			got := s.from.AdvanceBranchingTruncated(g, s.l)
			if !cmp.Equal(got, s.expected, cmp.AllowUnexported(Cursor{})) {
				t.Fatalf("diff: %s", cmp.Diff(s.expected, got, cmp.AllowUnexported(Cursor{})))
			}
		})
	}
}

func TestReverse(t *testing.T) {
	g := network(topo.Straight(100))
	type setup struct {
		from, expected Cursor
	}
	setups := []setup{
		{AtNode(1), AtNode(0)},
		{OnEdge(1, 2, 30), OnEdge(2, 1, 70)},
		{OnEdge(2, 1, 100), OnEdge(1, 2, 0)},
	}
	for _, s := range setups {
		got := s.from.Reverse(g)
		if got != s.expected {
			t.Fatalf("%s: expected %s, got %s", s.from, s.expected, got)
		}
		if back := got.Reverse(g); back != s.from {
			t.Fatalf("%s: reversed twice to %s", s.from, back)
		}
	}
}

func TestNodes(t *testing.T) {
	g := network(topo.Straight(100))
	if a, b := AtNode(2).Nodes(g); a != 2 || b != 3 {
		t.Fatalf("expected 2, 3, got %d, %d", a, b)
	}
	if a, b := OnEdge(1, 2, 10).Nodes(g); a != 1 || b != 2 {
		t.Fatalf("expected 1, 2, got %d, %d", a, b)
	}
}
