// Package inf is the static infrastructure model: a flat arena of directed
// nodes, always allocated in mirrored pairs, and the objects attached to
// them.
//
// A node stands for one side of a point on the schematic and faces one
// direction. Its Edges describe where a train travelling in that direction
// can go next. Travelling an edge from a to b arrives at b, whose own edges
// point back the way the train came; the train continues from b.Other.
package inf

import "fmt"

type NodeID = int

type ObjectID = int

type EdgesKind uint8

const (
	// Nothing is a dead end.
	Nothing EdgesKind = iota
	Single
	// Switchable edges are the two links of a Switch object.
	Switchable
	// ModelBoundary leads out of the modelled network.
	ModelBoundary
)

func (k EdgesKind) String() string {
	switch k {
	case Nothing:
		return "nothing"
	case Single:
		return "single"
	case Switchable:
		return "switchable"
	case ModelBoundary:
		return "boundary"
	default:
		return fmt.Sprintf("EdgesKind(%d)", uint8(k))
	}
}

// Edges describes the outgoing connection of a node.
type Edges struct {
	Kind EdgesKind
	// Target and Dist are set for Single.
	Target NodeID
	Dist   float64
	// Object is set for Switchable, and refers to a Switch.
	Object ObjectID
}

func SingleEdge(target NodeID, dist float64) Edges {
	return Edges{Kind: Single, Target: target, Dist: dist}
}

func SwitchableEdge(obj ObjectID) Edges {
	return Edges{Kind: Switchable, Object: obj}
}

func (e Edges) String() string {
	switch e.Kind {
	case Single:
		return fmt.Sprintf("single(→%d, %g)", e.Target, e.Dist)
	case Switchable:
		return fmt.Sprintf("switchable(obj%d)", e.Object)
	default:
		return e.Kind.String()
	}
}

type Node struct {
	// Other is the mirror of this node.
	Other   NodeID
	Edges   Edges
	Objects []ObjectID
}

// Edge is a directed edge from A to B.
type Edge struct {
	A, B NodeID
}

func (e Edge) Reverse() Edge { return Edge{A: e.B, B: e.A} }

func (e Edge) String() string {
	return fmt.Sprintf("%d→%d", e.A, e.B)
}

// Link is one outgoing edge of a node.
type Link struct {
	Node NodeID
	Dist float64
}

type SwitchPosition uint8

const (
	SwitchLeft SwitchPosition = iota
	SwitchRight
)

func (p SwitchPosition) String() string {
	if p == SwitchLeft {
		return "left"
	}
	return "right"
}

// StaticObject is one of Switch, Signal, or Sight.
type StaticObject interface {
	isStaticObject()
}

type Switch struct {
	LeftLink   Link
	RightLink  Link
	BranchSide SwitchPosition
}

type Signal struct {
	HasDistant bool
}

// Sight marks where a train first sees Signal, Distance before it.
type Sight struct {
	Distance float64
	Signal   ObjectID
}

func (Switch) isStaticObject() {}
func (Signal) isStaticObject() {}
func (Sight) isStaticObject()  {}

type Infrastructure struct {
	Nodes   []Node
	Objects []StaticObject
}

func (g *Infrastructure) checkNode(n NodeID) {
	if n < 0 || n >= len(g.Nodes) {
		panic(fmt.Sprintf("node %d doesn't exist (%d nodes)", n, len(g.Nodes)))
	}
}

// Switch returns the Switch object referenced by a Switchable node's edges.
// It panics if obj is not a Switch.
func (g *Infrastructure) Switch(obj ObjectID) Switch {
	sw, ok := g.Objects[obj].(Switch)
	if !ok {
		panic(fmt.Sprintf("object %d is %T, not a switch", obj, g.Objects[obj]))
	}
	return sw
}

// OutEdges returns the links out of n. Switch links are in right, left
// order.
func (g *Infrastructure) OutEdges(n NodeID) []Link {
	g.checkNode(n)
	e := g.Nodes[n].Edges
	switch e.Kind {
	case Single:
		return []Link{{Node: e.Target, Dist: e.Dist}}
	case Switchable:
		sw := g.Switch(e.Object)
		return []Link{sw.RightLink, sw.LeftLink}
	default:
		return nil
	}
}

// Multiplicity is the number of edges out of n.
func (g *Infrastructure) Multiplicity(n NodeID) int {
	switch g.Nodes[n].Edges.Kind {
	case Single:
		return 1
	case Switchable:
		return 2
	default:
		return 0
	}
}

// EdgeLength returns the length of the edge from a to b.
func (g *Infrastructure) EdgeLength(a, b NodeID) (float64, bool) {
	for _, l := range g.OutEdges(a) {
		if l.Node == b {
			return l.Dist, true
		}
	}
	return 0, false
}

// Arcs returns every directed edge in node order.
func (g *Infrastructure) Arcs() []Edge {
	var arcs []Edge
	for n := range g.Nodes {
		for _, l := range g.OutEdges(n) {
			arcs = append(arcs, Edge{A: n, B: l.Node})
		}
	}
	return arcs
}
