// Package sections derives track vacancy detection (TVD) sections from where
// detectors are.
package sections

import (
	"fmt"

	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/senro/inf"
)

type SectionID = int

// Sections are the TVD sections of a graph.
type Sections struct {
	// Edges has the directed edges inside each section.
	Edges map[SectionID][]inf.Edge
	// EntryNodes has the nodes trains arrive at when entering each section.
	EntryNodes map[SectionID][]inf.NodeID
}

// Deriver derives sections by joining everything not separated by a
// detector.
type Deriver struct{}

// DeriveSections splits g into sections bounded by the detector node pairs.
// Both diagonals of a crossing in nonDrivable share a section.
//
// A detector pair (a, b) makes b an entry node of the section a leads into,
// and a an entry node of the section b leads into.
func (Deriver) DeriveSections(g *inf.Infrastructure, detectors []inf.Edge, nonDrivable []inf.Edge) (Sections, error) {
	n := len(g.Nodes)
	inRange := func(id inf.NodeID) bool { return id >= 0 && id < n }
	isDetector := make([]bool, n)
	for _, d := range detectors {
		if !inRange(d.A) || !inRange(d.B) {
			return Sections{}, fmt.Errorf("detector %s: node doesn't exist", d)
		}
		if g.Nodes[d.A].Other != d.B {
			return Sections{}, fmt.Errorf("detector %s: nodes are not a mirrored pair", d)
		}
		isDetector[d.A] = true
		isDetector[d.B] = true
	}

	uf := newUnionFind(n)
	for _, arc := range g.Arcs() {
		uf.union(arc.A, arc.B)
	}
	for id, node := range g.Nodes {
		if !isDetector[id] {
			uf.union(id, node.Other)
		}
	}
	for _, e := range nonDrivable {
		if !inRange(e.A) || !inRange(e.B) {
			return Sections{}, fmt.Errorf("non-drivable edge %s: node doesn't exist", e)
		}
		uf.union(e.A, e.B)
	}

	// number components in order of their first arc; components without
	// arcs get no section
	ids := map[int]SectionID{}
	s := Sections{
		Edges:      map[SectionID][]inf.Edge{},
		EntryNodes: map[SectionID][]inf.NodeID{},
	}
	for _, arc := range g.Arcs() {
		root := uf.find(arc.A)
		if _, ok := ids[root]; !ok {
			ids[root] = SectionID(len(ids))
		}
		s.Edges[ids[root]] = append(s.Edges[ids[root]], arc)
	}
	seen := map[inf.NodeID]bool{}
	for _, d := range detectors {
		for _, pair := range [][2]inf.NodeID{{d.A, d.B}, {d.B, d.A}} {
			into, entry := pair[0], pair[1]
			if g.Multiplicity(into) == 0 || seen[entry] {
				continue
			}
			seen[entry] = true
			id := ids[uf.find(into)]
			s.EntryNodes[id] = append(s.EntryNodes[id], entry)
		}
	}
	for id := range s.EntryNodes {
		slices.Sort(s.EntryNodes[id])
	}
	return s, nil
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union joins the sets of a and b, keeping the lower root.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
