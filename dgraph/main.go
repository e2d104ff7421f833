// Package dgraph compiles a schematic topology into the directed graph that
// routing, interlocking, and simulation run on.
package dgraph

import (
	"github.com/google/uuid"
	"nyiyui.ca/hato/senro/dgraph/allpaths"
	"nyiyui.ca/hato/senro/dgraph/sections"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

// DGraph is a converted topology. It is never modified after Convert
// returns it; an edited topology is converted again from scratch.
type DGraph struct {
	// ID is unique to each conversion, so consumers can key caches on it.
	ID  uuid.UUID
	Inf *inf.Infrastructure

	NodeIDs     *BiMap[inf.NodeID, topo.Pt]
	SwitchIDs   *BiMap[inf.ObjectID, topo.Pt]
	ObjectIDs   *BiMap[inf.ObjectID, topo.ObjectAddr]
	DetectorIDs *BiMap[inf.NodeID, topo.ObjectAddr]

	SectionEdges      map[sections.SectionID][]inf.Edge
	SectionEntryNodes map[sections.SectionID][]inf.NodeID

	// EdgeLines has the polyline of every track edge, in both directions.
	EdgeLines map[inf.Edge][]topo.PtC
	Mileage   map[inf.NodeID]float64

	AllPathsLength float64
	AllPaths       []allpaths.Path
}

// MileageAt returns the mileage at param (0 to 1) along the edge a→b.
func (dg *DGraph) MileageAt(a, b inf.NodeID, param float64) (float64, bool) {
	kmA, ok := dg.Mileage[a]
	if !ok {
		return 0, false
	}
	kmB, ok := dg.Mileage[b]
	if !ok {
		return 0, false
	}
	return kmA + (kmB-kmA)*param, true
}

func (dg *DGraph) EdgeLength(a, b inf.NodeID) (float64, bool) {
	return dg.Inf.EdgeLength(a, b)
}

// Sight is a Sight object and the node it is on.
type Sight struct {
	Object inf.ObjectID
	Node   inf.NodeID
	inf.Sight
}

// SightsOf returns the sight objects of a signal, in node order.
func (dg *DGraph) SightsOf(signal inf.ObjectID) []Sight {
	var sights []Sight
	for n, node := range dg.Inf.Nodes {
		for _, obj := range node.Objects {
			s, ok := dg.Inf.Objects[obj].(inf.Sight)
			if ok && s.Signal == signal {
				sights = append(sights, Sight{Object: obj, Node: n, Sight: s})
			}
		}
	}
	return sights
}

// SectionOf returns the section containing the edge a→b.
func (dg *DGraph) SectionOf(e inf.Edge) (sections.SectionID, bool) {
	for id, edges := range dg.SectionEdges {
		for _, e2 := range edges {
			if e2 == e {
				return id, true
			}
		}
	}
	return 0, false
}

// SectionDeriver divides a graph into TVD sections.
type SectionDeriver interface {
	DeriveSections(g *inf.Infrastructure, detectors []inf.Edge, nonDrivable []inf.Edge) (sections.Sections, error)
}

// MileageAssigner gives each node a linear position. known has the nodes
// whose schematic point is known.
type MileageAssigner interface {
	AssignMileage(known map[inf.NodeID]topo.Pt, g *inf.Infrastructure) map[inf.NodeID]float64
}

// PathEnumerator lists the paths of a given length.
type PathEnumerator interface {
	EnumeratePaths(g *inf.Infrastructure, maxLength float64) []allpaths.Path
}

// Collaborators are what Convert delegates to. Nil fields use the default
// implementations.
type Collaborators struct {
	Sections SectionDeriver
	Mileage  MileageAssigner
	Paths    PathEnumerator
}
