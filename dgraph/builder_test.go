package dgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

func checkMirrors(t *testing.T, g *inf.Infrastructure) {
	t.Helper()
	for n, node := range g.Nodes {
		if g.Nodes[node.Other].Other != n {
			t.Fatalf("node %d: Other(Other(n)) = %d", n, g.Nodes[node.Other].Other)
		}
	}
	if err := g.Check(); err != nil {
		t.Fatalf("Check: %s", err)
	}
}

func TestCreateNetworkStraight(t *testing.T) {
	m := NewBuilder()
	nw := m.CreateNetwork(topo.Straight(1000), nil)
	g := m.Infrastructure()
	checkMirrors(t, g)
	if len(g.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(g.Nodes))
	}
	if got, expected := g.Arcs(), []inf.Edge{{A: 1, B: 2}, {A: 2, B: 1}}; !cmp.Equal(got, expected) {
		t.Fatalf("arcs diff: %s", cmp.Diff(expected, got))
	}
	if d, _ := g.EdgeLength(2, 1); d != 1000 {
		t.Fatalf("expected length 1000, got %g", d)
	}
	for _, n := range []inf.NodeID{0, 3} {
		if g.Nodes[n].Edges.Kind != inf.ModelBoundary {
			t.Fatalf("node %d: expected boundary, got %s", n, g.Nodes[n].Edges)
		}
	}
	if pt, ok := nw.NodeIDs.ByLeft(3); !ok || pt != (topo.Pt{X: 10, Y: 0}) {
		t.Fatalf("node 3 maps to %v, %t", pt, ok)
	}
	if got, expected := m.Intervals(), map[inf.Edge]Interval{{A: 1, B: 2}: {Track: 0, Start: 0, End: 1000}}; !cmp.Equal(got, expected) {
		t.Fatalf("intervals diff: %s", cmp.Diff(expected, got))
	}
}

func TestCreateNetworkSwitch(t *testing.T) {
	m := NewBuilder()
	nw := m.CreateNetwork(topo.Siding(500, 300), nil)
	g := m.Infrastructure()
	checkMirrors(t, g)
	switches := 0
	for n, node := range g.Nodes {
		if node.Edges.Kind != inf.Switchable {
			continue
		}
		switches++
		sw := g.Switch(node.Edges.Object)
		if sw.BranchSide != inf.SwitchLeft && sw.BranchSide != inf.SwitchRight {
			t.Fatalf("bad branch side %d", sw.BranchSide)
		}
		links := g.OutEdges(n)
		if len(links) != 2 {
			t.Fatalf("switchable node %d has %d links", n, len(links))
		}
		for _, l := range links {
			if l.Dist != 0 {
				t.Fatalf("link %d→%d is %g long", n, l.Node, l.Dist)
			}
			back := g.Nodes[l.Node].Edges
			if back.Kind != inf.Single || back.Target != n || back.Dist != 0 {
				t.Fatalf("branch %d doesn't lead back to trunk %d: %s", l.Node, n, back)
			}
		}
		if pt, ok := nw.SwitchIDs.ByLeft(node.Edges.Object); !ok || pt != (topo.Pt{X: 10, Y: 0}) {
			t.Fatalf("switch maps to %v, %t", pt, ok)
		}
	}
	if switches != 1 {
		t.Fatalf("expected 1 switchable node, got %d", switches)
	}
}

func countSwitches(g *inf.Infrastructure) int {
	n := 0
	for _, obj := range g.Objects {
		if _, ok := obj.(inf.Switch); ok {
			n++
		}
	}
	return n
}

func TestCreateNetworkCrossing(t *testing.T) {
	type setup struct {
		name string
		ct   topo.CrossingType
		// each drivable diagonal is a pair of switches
		switches    int
		fixedLinks  int
		nonDrivable int
	}
	setups := []setup{
		{"double-slip", topo.CrossingType{Kind: topo.DoubleSlip}, 4, 0, 0},
		{"single-slip-left", topo.CrossingType{Kind: topo.SingleSlip, Side: topo.Left}, 2, 2, 0},
		{"single-slip-right", topo.CrossingType{Kind: topo.SingleSlip, Side: topo.Right}, 2, 2, 0},
		{"diamond", topo.CrossingType{Kind: topo.FixedCrossing}, 0, 4, 1},
	}
	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			m := NewBuilder()
			y := topo.CrossingBench(s.ct, 100)
			nw := m.CreateNetwork(y, nil)
			g := m.Infrastructure()
			checkMirrors(t, g)
			if got := countSwitches(g); got != s.switches {
				t.Fatalf("expected %d switches, got %d", s.switches, got)
			}
			// crossing ports are the track-start nodes 0, 4, 8, 12
			fixed := 0
			for _, n := range []inf.NodeID{0, 4, 8, 12} {
				if g.Nodes[n].Edges.Kind == inf.Single {
					fixed++
				}
			}
			if fixed != s.fixedLinks {
				t.Fatalf("expected %d fixed links, got %d", s.fixedLinks, fixed)
			}
			if len(nw.NonDrivable) != s.nonDrivable {
				t.Fatalf("expected %d non-drivable edges, got %d", s.nonDrivable, len(nw.NonDrivable))
			}
		})
	}
}

func TestCreateNetworkMissingPort(t *testing.T) {
	b := topo.NewBuilder()
	b.Point(topo.Pt{X: 0, Y: 0}, topo.NodeType{Kind: topo.OpenEnd})
	b.Point(topo.Pt{X: 10, Y: 0}, topo.SwitchNode(topo.Left))
	b.TrackLen(100, topo.At(topo.Pt{X: 0, Y: 0}, topo.EndPort), topo.At(topo.Pt{X: 10, Y: 0}, topo.TrunkPort))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewBuilder().CreateNetwork(b.Topology(), nil)
}

func TestSplitEdge(t *testing.T) {
	var before Cursor
	m := NewBuilder()
	m.CreateNetwork(topo.Straight(100), func(track int, c Cursor, m *Builder) {
		var ok bool
		before, ok = c.Advance(m.Infrastructure(), 100)
		if !ok {
			t.Fatal("Advance failed")
		}
		at, ok := c.Advance(m.Infrastructure(), 30)
		if !ok {
			t.Fatal("Advance failed")
		}
		m.InsertNodePair(at)
	})
	g := m.Infrastructure()
	checkMirrors(t, g)

	expected := map[inf.Edge]Interval{
		{A: 1, B: 4}: {Track: 0, Start: 0, End: 30},
		{A: 5, B: 2}: {Track: 0, Start: 30, End: 100},
	}
	if got := m.Intervals(); !cmp.Equal(got, expected) {
		t.Fatalf("intervals diff: %s", cmp.Diff(expected, got))
	}
	var sum float64
	for _, iv := range m.Intervals() {
		sum += iv.Length()
	}
	if sum != 100 {
		t.Fatalf("intervals sum to %g", sum)
	}

	after, ok := AtNode(1).Advance(g, 100)
	if !ok {
		t.Fatal("Advance failed")
	}
	if after != before {
		t.Fatalf("advance after split reached %s, before split %s", after, before)
	}
}

func TestSplitEdgeWrongDirection(t *testing.T) {
	m := NewBuilder()
	m.CreateNetwork(topo.Straight(100), nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	// 0 is a boundary node, not an edge to 1
	m.InsertNodePair(OnEdge(0, 2, 50))
}

func TestInsertObject(t *testing.T) {
	m := NewBuilder()
	m.CreateNetwork(topo.Straight(100), nil)
	at, obj := m.InsertObject(OnEdge(1, 2, 40), inf.Signal{})
	n, ok := at.Node()
	if !ok {
		t.Fatalf("cursor not at node: %s", at)
	}
	if !cmp.Equal(m.Infrastructure().Nodes[n].Objects, []inf.ObjectID{obj}) {
		t.Fatalf("object not attached: %v", m.Infrastructure().Nodes[n].Objects)
	}
	if d, _ := m.Infrastructure().EdgeLength(n, 2); d != 40 {
		t.Fatalf("expected 40 to end, got %g", d)
	}
}

func TestInsertNodePairEdgeEnds(t *testing.T) {
	m := NewBuilder()
	m.CreateNetwork(topo.Straight(100), nil)
	if got := m.InsertNodePair(OnEdge(1, 2, 0)); got != AtNode(3) {
		t.Fatalf("at far end: expected node(3), got %s", got)
	}
	if got := m.InsertNodePair(OnEdge(1, 2, 100)); got != AtNode(1) {
		t.Fatalf("at near end: expected node(1), got %s", got)
	}
	if n := len(m.Infrastructure().Nodes); n != 4 {
		t.Fatalf("expected no new nodes, got %d nodes", n)
	}
}

func TestInsertNodePairAfterSplit(t *testing.T) {
	m := NewBuilder()
	m.CreateNetwork(topo.Straight(100), nil)
	first := m.InsertNodePair(OnEdge(1, 2, 70))
	// 40 from the start, on the reverse edge, which the first split replaced
	second := m.InsertNodePair(OnEdge(2, 1, 40))
	if second != AtNode(7) {
		t.Fatalf("expected node(7), got %s", second)
	}
	again := m.InsertNodePair(OnEdge(1, 2, 70))
	if again != first {
		t.Fatalf("expected %s again, got %s", first, again)
	}
	g := m.Infrastructure()
	checkMirrors(t, g)
	if len(g.Nodes) != 8 {
		t.Fatalf("expected 8 nodes, got %d", len(g.Nodes))
	}
	if d, _ := g.EdgeLength(7, 5); d != 10 {
		t.Fatalf("expected 10 between the two new pairs, got %g", d)
	}
	expected := map[inf.Edge]Interval{
		{A: 1, B: 4}: {Track: 0, Start: 0, End: 30},
		{A: 5, B: 7}: {Track: 0, Start: 30, End: 40},
		{A: 6, B: 2}: {Track: 0, Start: 40, End: 100},
	}
	if got := m.Intervals(); !cmp.Equal(got, expected) {
		t.Fatalf("intervals diff: %s", cmp.Diff(expected, got))
	}
}

// deadEnds is a 100 long track from a buffer stop at (0,0) to an
// unrecognised point at (10,0).
func deadEnds() *topo.Topology {
	b := topo.NewBuilder()
	b.Point(topo.Pt{X: 0, Y: 0}, topo.NodeType{Kind: topo.BufferStop})
	b.Point(topo.Pt{X: 10, Y: 0}, topo.NodeType{Kind: topo.Err})
	b.TrackLen(100, topo.At(topo.Pt{X: 0, Y: 0}, topo.EndPort), topo.At(topo.Pt{X: 10, Y: 0}, topo.EndPort))
	return b.Topology()
}

func TestCreateNetworkDeadEnds(t *testing.T) {
	m := NewBuilder()
	nw := m.CreateNetwork(deadEnds(), nil)
	g := m.Infrastructure()
	checkMirrors(t, g)
	for _, n := range []inf.NodeID{0, 3} {
		if g.Nodes[n].Edges.Kind != inf.Nothing {
			t.Fatalf("node %d: expected nothing, got %s", n, g.Nodes[n].Edges)
		}
	}
	if nw.NodeIDs.Len() != 0 {
		t.Fatalf("expected no mapped nodes, got %d", nw.NodeIDs.Len())
	}
	if got, expected := g.Arcs(), []inf.Edge{{A: 1, B: 2}, {A: 2, B: 1}}; !cmp.Equal(got, expected) {
		t.Fatalf("arcs diff: %s", cmp.Diff(expected, got))
	}
}

func TestBiMap(t *testing.T) {
	m := NewBiMap[int, string]()
	m.Insert(1, "a")
	m.Insert(2, "a")
	if _, ok := m.ByLeft(1); ok {
		t.Fatal("1 should have been replaced")
	}
	if l, _ := m.ByRight("a"); l != 2 {
		t.Fatalf("expected 2, got %d", l)
	}
	m.Insert(2, "b")
	if _, ok := m.ByRight("a"); ok {
		t.Fatal("a should have been replaced")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 pair, got %d", m.Len())
	}
}
