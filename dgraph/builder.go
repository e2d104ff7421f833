package dgraph

import (
	"fmt"

	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

// Interval is the part of a source track an edge was made from.
type Interval struct {
	Track      int
	Start, End float64
}

func (iv Interval) Length() float64 { return iv.End - iv.Start }

// Builder constructs an Infrastructure. It is only used while converting;
// nothing may call it once the graph is handed out.
type Builder struct {
	g         inf.Infrastructure
	intervals map[inf.Edge]Interval
	splits    map[inf.Edge]split
}

// split records where an edge a→b went: a now leads to mid, and b is
// second further on from Other(mid).
type split struct {
	mid    inf.NodeID
	second float64
}

func NewBuilder() *Builder {
	return &Builder{
		intervals: map[inf.Edge]Interval{},
		splits:    map[inf.Edge]split{},
	}
}

// Infrastructure returns the graph built so far.
func (m *Builder) Infrastructure() *inf.Infrastructure { return &m.g }

// Intervals returns the source interval of each track edge, keyed by the
// edge in the direction of the track.
func (m *Builder) Intervals() map[inf.Edge]Interval { return m.intervals }

func (m *Builder) NewObject(obj inf.StaticObject) inf.ObjectID {
	m.g.Objects = append(m.g.Objects, obj)
	return len(m.g.Objects) - 1
}

// NewObjectAt adds obj and attaches it to node n.
func (m *Builder) NewObjectAt(obj inf.StaticObject, n inf.NodeID) inf.ObjectID {
	id := m.NewObject(obj)
	m.g.Nodes[n].Objects = append(m.g.Nodes[n].Objects, id)
	return id
}

// NewNodePair allocates two nodes mirroring each other.
func (m *Builder) NewNodePair() (inf.NodeID, inf.NodeID) {
	a, b := len(m.g.Nodes), len(m.g.Nodes)+1
	m.g.Nodes = append(m.g.Nodes,
		inf.Node{Other: b},
		inf.Node{Other: a},
	)
	return a, b
}

func (m *Builder) connectLinear(a, b inf.NodeID, d float64) {
	m.g.Nodes[a].Edges = inf.SingleEdge(b, d)
	m.g.Nodes[b].Edges = inf.SingleEdge(a, d)
}

func (m *Builder) mustEdgeLength(a, b inf.NodeID) float64 {
	d, ok := m.g.EdgeLength(a, b)
	if !ok {
		panic(fmt.Sprintf("no edge %d→%d", a, b))
	}
	return d
}

// splitEdge puts a new node pair on the edge a→b, secondDist before b.
// The edge's interval (in whichever direction it is recorded) is split at
// the same place.
func (m *Builder) splitEdge(a, b inf.NodeID, secondDist float64) (inf.NodeID, inf.NodeID) {
	na, nb := m.NewNodePair()
	firstDist := m.mustEdgeLength(b, a) - secondDist
	m.replaceConn(a, b, na, firstDist)
	m.replaceConn(b, a, nb, secondDist)
	m.splits[inf.Edge{A: a, B: b}] = split{mid: na, second: secondDist}
	m.splits[inf.Edge{A: b, B: a}] = split{mid: nb, second: firstDist}

	for _, s := range []struct {
		from, fromNew inf.NodeID
		to, toNew     inf.NodeID
		dist          float64
	}{
		{a, na, b, nb, firstDist},
		{b, nb, a, na, secondDist},
	} {
		iv, ok := m.intervals[inf.Edge{A: s.from, B: s.to}]
		if !ok {
			continue
		}
		delete(m.intervals, inf.Edge{A: s.from, B: s.to})
		m.intervals[inf.Edge{A: s.from, B: s.fromNew}] = Interval{Track: iv.Track, Start: iv.Start, End: iv.Start + s.dist}
		m.intervals[inf.Edge{A: s.toNew, B: s.to}] = Interval{Track: iv.Track, Start: iv.Start + s.dist, End: iv.End}
	}
	return na, nb
}

// replaceConn redirects a's edge to b so it goes to x instead, d long, and
// points x back at a. a must lead to b, either by a plain edge or a switch
// link.
func (m *Builder) replaceConn(a, b, x inf.NodeID, d float64) {
	e := m.g.Nodes[a].Edges
	switch {
	case e.Kind == inf.Single && e.Target == b:
		m.g.Nodes[a].Edges = inf.SingleEdge(x, d)
	case e.Kind == inf.Switchable:
		sw, ok := m.g.Objects[e.Object].(inf.Switch)
		if !ok {
			panic(fmt.Sprintf("node %d: switchable object %d is %T", a, e.Object, m.g.Objects[e.Object]))
		}
		switch b {
		case sw.LeftLink.Node:
			sw.LeftLink = inf.Link{Node: x, Dist: d}
		case sw.RightLink.Node:
			sw.RightLink = inf.Link{Node: x, Dist: d}
		default:
			panic(fmt.Sprintf("node %d: switch %d doesn't lead to %d", a, e.Object, b))
		}
		m.g.Objects[e.Object] = sw
	default:
		panic(fmt.Sprintf("node %d: %s doesn't lead to %d", a, e, b))
	}
	m.g.Nodes[x].Edges = inf.SingleEdge(a, d)
}

// resolve moves a cursor on an edge that has since been split onto the
// piece of it that now holds the same position.
func (m *Builder) resolve(c Cursor) Cursor {
	for c.onEdge {
		e := c.edge
		if _, ok := m.g.EdgeLength(e.A, e.B); ok {
			break
		}
		s, ok := m.splits[e]
		if !ok {
			break
		}
		if c.remaining > s.second {
			c = OnEdge(e.A, s.mid, c.remaining-s.second)
		} else {
			c = OnEdge(m.g.Nodes[s.mid].Other, e.B, c.remaining)
		}
	}
	return c
}

// InsertNodePair makes sure there is a node at the cursor, splitting the
// edge it is on only if the cursor is strictly inside it. The returned
// cursor faces the same way. Cursors on edges split since they were made
// are followed onto the new pieces.
func (m *Builder) InsertNodePair(at Cursor) Cursor {
	at = m.resolve(at)
	e, remaining, ok := at.Edge()
	if !ok {
		return at
	}
	d := m.mustEdgeLength(e.A, e.B)
	switch {
	case remaining <= 0:
		return AtNode(m.g.Nodes[e.B].Other)
	case remaining >= d:
		return AtNode(e.A)
	}
	_, nb := m.splitEdge(e.A, e.B, remaining)
	return AtNode(nb)
}

// InsertObject attaches obj to the node at the cursor, creating the node if
// needed.
func (m *Builder) InsertObject(at Cursor, obj inf.StaticObject) (Cursor, inf.ObjectID) {
	at = m.InsertNodePair(at)
	n, _ := at.Node()
	return at, m.NewObjectAt(obj, n)
}

// Network is what CreateNetwork learnt about the topology while building.
type Network struct {
	NodeIDs   *BiMap[inf.NodeID, topo.Pt]
	SwitchIDs *BiMap[inf.ObjectID, topo.Pt]
	// NonDrivable has one edge of each crossing whose diagonals cannot be
	// changed between.
	NonDrivable []inf.Edge
}

// CreateNetwork builds the nodes and edges for tracks and points. eachTrack
// is called once for each track, right after it is built, with a cursor at
// the start of the track facing its end.
func (m *Builder) CreateNetwork(t *topo.Topology, eachTrack func(track int, c Cursor, m *Builder)) Network {
	nw := Network{
		NodeIDs:   NewBiMap[inf.NodeID, topo.Pt](),
		SwitchIDs: NewBiMap[inf.ObjectID, topo.Pt](),
	}
	ports := map[topo.PointPort]inf.NodeID{}
	port := func(pt topo.Pt, p topo.Port) inf.NodeID {
		n, ok := ports[topo.PointPort{Pt: pt, Port: p}]
		if !ok {
			panic(fmt.Sprintf("no track at %s/%s", pt, p))
		}
		return n
	}

	for i, tr := range t.Tracks {
		startA, startB := m.NewNodePair()
		endA, endB := m.NewNodePair()
		ports[tr.Start] = startA
		m.connectLinear(startB, endA, tr.Length)
		ports[tr.End] = endB
		m.intervals[inf.Edge{A: startB, B: endA}] = Interval{Track: i, Start: 0, End: tr.Length}
		if eachTrack != nil {
			eachTrack(i, AtNode(startB), m)
		}
	}

	for _, pt := range t.SortedPoints() {
		loc := t.Locations[pt]
		switch loc.Type.Kind {
		case topo.BufferStop, topo.Err:
		case topo.OpenEnd:
			n := port(pt, topo.EndPort)
			m.g.Nodes[n].Edges = inf.Edges{Kind: inf.ModelBoundary}
			nw.NodeIDs.Insert(n, pt)
		case topo.Cont:
			m.connectLinear(port(pt, topo.ContAPort), port(pt, topo.ContBPort), 0)
		case topo.Switch:
			trunk, left, right := port(pt, topo.TrunkPort), port(pt, topo.LeftPort), port(pt, topo.RightPort)
			sw := m.NewObject(inf.Switch{
				LeftLink:   inf.Link{Node: left},
				RightLink:  inf.Link{Node: right},
				BranchSide: switchPosition(loc.Type.Side),
			})
			nw.SwitchIDs.Insert(sw, pt)
			m.g.Nodes[left].Edges = inf.SingleEdge(trunk, 0)
			m.g.Nodes[right].Edges = inf.SingleEdge(trunk, 0)
			m.g.Nodes[trunk].Edges = inf.SwitchableEdge(sw)
		case topo.Crossing:
			ct := loc.Type.Crossing
			leftDrivable := ct.Kind == topo.DoubleSlip || (ct.Kind == topo.SingleSlip && ct.Side == topo.Left)
			rightDrivable := ct.Kind == topo.DoubleSlip || (ct.Kind == topo.SingleSlip && ct.Side == topo.Right)
			for _, d := range []struct {
				dir      topo.AB
				drivable bool
			}{{topo.A, leftDrivable}, {topo.B, rightDrivable}} {
				this0, this1 := port(pt, topo.Cross(d.dir, 0)), port(pt, topo.Cross(d.dir, 1))
				other0, other1 := port(pt, topo.Cross(d.dir.Other(), 0)), port(pt, topo.Cross(d.dir.Other(), 1))
				if d.drivable {
					swA := m.NewObject(inf.Switch{
						LeftLink:   inf.Link{Node: other1},
						RightLink:  inf.Link{Node: other0},
						BranchSide: inf.SwitchLeft,
					})
					swB := m.NewObject(inf.Switch{
						LeftLink:   inf.Link{Node: this1},
						RightLink:  inf.Link{Node: this0},
						BranchSide: inf.SwitchRight,
					})
					m.g.Nodes[this0].Edges = inf.SwitchableEdge(swA)
					m.g.Nodes[other1].Edges = inf.SwitchableEdge(swB)
				} else {
					m.g.Nodes[this0].Edges = inf.SingleEdge(other0, 0)
					m.g.Nodes[other1].Edges = inf.SingleEdge(this1, 0)
				}
			}
			if !leftDrivable && !rightDrivable {
				nw.NonDrivable = append(nw.NonDrivable, inf.Edge{
					A: port(pt, topo.Cross(topo.A, 0)),
					B: port(pt, topo.Cross(topo.A, 1)),
				})
			}
		default:
			panic(fmt.Sprintf("point %s: unknown node kind %s", pt, loc.Type.Kind))
		}
	}
	return nw
}

func switchPosition(s topo.Side) inf.SwitchPosition {
	if s == topo.Right {
		return inf.SwitchRight
	}
	return inf.SwitchLeft
}
