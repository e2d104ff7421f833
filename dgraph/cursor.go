package dgraph

import (
	"fmt"

	"nyiyui.ca/hato/senro/inf"
)

// Cursor is a position in the graph, facing a direction: either exactly at
// a node, or on an edge with some distance remaining until its end.
type Cursor struct {
	onEdge    bool
	node      inf.NodeID
	edge      inf.Edge
	remaining float64
}

func AtNode(n inf.NodeID) Cursor {
	return Cursor{node: n}
}

// OnEdge returns a cursor on the edge from a to b, remaining away from b.
func OnEdge(a, b inf.NodeID, remaining float64) Cursor {
	return Cursor{onEdge: true, edge: inf.Edge{A: a, B: b}, remaining: remaining}
}

// Node returns the node the cursor is at, if it is at one.
func (c Cursor) Node() (inf.NodeID, bool) {
	return c.node, !c.onEdge
}

// Edge returns the edge the cursor is on, if it is on one.
func (c Cursor) Edge() (e inf.Edge, remaining float64, ok bool) {
	return c.edge, c.remaining, c.onEdge
}

func (c Cursor) String() string {
	if c.onEdge {
		return fmt.Sprintf("edge(%s, %g left)", c.edge, c.remaining)
	}
	return fmt.Sprintf("node(%d)", c.node)
}

// Advance moves the cursor l forward. It only follows unambiguous paths:
// ok is false if the cursor would have to leave a node that has no edge or a
// switch. Arriving at the end of an edge leaves the cursor at the far node's
// mirror, facing onwards.
func (c Cursor) Advance(g *inf.Infrastructure, l float64) (next Cursor, ok bool) {
	for {
		if l <= 0 {
			return c, true
		}
		if !c.onEdge {
			e := g.Nodes[c.node].Edges
			if e.Kind != inf.Single {
				return Cursor{}, false
			}
			c = OnEdge(c.node, e.Target, e.Dist)
			continue
		}
		if c.remaining > l {
			return OnEdge(c.edge.A, c.edge.B, c.remaining-l), true
		}
		l -= c.remaining
		c = AtNode(g.Nodes[c.edge.B].Other)
	}
}

// Reach is where a branching advance ended up, and how far it got.
type Reach struct {
	Cursor   Cursor
	Distance float64
}

// AdvanceBranchingTruncated moves the cursor up to l forward along every
// path. Where paths fork (a switch seen from its trunk), every branch is
// followed. Where paths merge (arriving at a switch from a branch), the
// search stops at the switch, since what lies beyond it is not determined.
// Dead ends also stop the search. Each stop is reported with the distance
// actually travelled.
func (c Cursor) AdvanceBranchingTruncated(g *inf.Infrastructure, l float64) []Reach {
	type item struct {
		c      Cursor
		budget float64
	}
	var out []Reach
	stack := []item{{c, l}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.c.onEdge {
			a, b, rem := it.c.edge.A, it.c.edge.B, it.c.remaining
			switch {
			case rem >= it.budget:
				out = append(out, Reach{OnEdge(a, b, rem-it.budget), l})
			case g.Multiplicity(b) > 1:
				out = append(out, Reach{OnEdge(a, b, 0), l - (it.budget - rem)})
			default:
				stack = append(stack, item{AtNode(g.Nodes[b].Other), it.budget - rem})
			}
			continue
		}
		links := g.OutEdges(it.c.node)
		if len(links) == 0 {
			out = append(out, Reach{it.c, l - it.budget})
			continue
		}
		for _, link := range links {
			stack = append(stack, item{OnEdge(it.c.node, link.Node, link.Dist), it.budget})
		}
	}
	return out
}

// Reverse turns the cursor around in place.
func (c Cursor) Reverse(g *inf.Infrastructure) Cursor {
	if !c.onEdge {
		return AtNode(g.Nodes[c.node].Other)
	}
	d, ok := g.EdgeLength(c.edge.A, c.edge.B)
	if !ok {
		panic(fmt.Sprintf("cursor on nonexistent edge %s", c.edge))
	}
	return OnEdge(c.edge.B, c.edge.A, d-c.remaining)
}

// Nodes returns the pair of nodes the cursor lies between. For a cursor at a
// node, that is the node and its mirror.
func (c Cursor) Nodes(g *inf.Infrastructure) (inf.NodeID, inf.NodeID) {
	if c.onEdge {
		return c.edge.A, c.edge.B
	}
	return c.node, g.Nodes[c.node].Other
}
