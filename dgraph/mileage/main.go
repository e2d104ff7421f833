// Package mileage assigns a linear distance-along-the-line coordinate to
// every node.
package mileage

import (
	"container/heap"

	"github.com/openacid/slimarray/polyfit"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

// Assigner assigns mileage with Auto.
type Assigner struct{}

func (Assigner) AssignMileage(known map[inf.NodeID]topo.Pt, g *inf.Infrastructure) map[inf.NodeID]float64 {
	return Auto(known, g)
}

// Auto measures each connected part of g from one anchor node: the known
// node with the lowest ID, or just the lowest node if none is known. Both
// nodes of a pair get the same mileage. If the known nodes show that mileage
// decreases towards the right of the schematic, the part is measured from
// the other end instead.
func Auto(known map[inf.NodeID]topo.Pt, g *inf.Infrastructure) map[inf.NodeID]float64 {
	anchors := maps.Keys(known)
	slices.Sort(anchors)
	for n := range g.Nodes {
		anchors = append(anchors, n)
	}

	mileage := map[inf.NodeID]float64{}
	for _, anchor := range anchors {
		if _, done := mileage[anchor]; done {
			continue
		}
		dist := shortest(g, anchor)
		if reversed(dist, known) {
			var max float64
			for _, d := range dist {
				if d > max {
					max = d
				}
			}
			for n, d := range dist {
				dist[n] = max - d
			}
		}
		for n, d := range dist {
			mileage[n] = d
		}
	}
	return mileage
}

// reversed fits schematic x against distance for the known nodes in dist.
func reversed(dist map[inf.NodeID]float64, known map[inf.NodeID]topo.Pt) bool {
	var ds, xs []float64
	distinct := false
	for n, pt := range known {
		d, ok := dist[n]
		if !ok {
			continue
		}
		if len(ds) > 0 && d != ds[0] {
			distinct = true
		}
		ds = append(ds, d)
		xs = append(xs, float64(pt.X))
	}
	if !distinct {
		return false
	}
	coeffs := polyfit.NewFit(ds, xs, 1).Solve()
	return coeffs[1] < 0
}

// shortest returns the distance from anchor to every node reachable from
// it, in either direction. A node's mirror is 0 away.
func shortest(g *inf.Infrastructure, anchor inf.NodeID) map[inf.NodeID]float64 {
	dist := map[inf.NodeID]float64{anchor: 0}
	done := map[inf.NodeID]bool{}
	q := &queue{{anchor, 0}}
	for q.Len() > 0 {
		it := heap.Pop(q).(item)
		if done[it.node] {
			continue
		}
		done[it.node] = true
		links := append(g.OutEdges(it.node), inf.Link{Node: g.Nodes[it.node].Other})
		for _, l := range links {
			d := it.dist + l.Dist
			if old, ok := dist[l.Node]; ok && old <= d {
				continue
			}
			dist[l.Node] = d
			heap.Push(q, item{l.Node, d})
		}
	}
	return dist
}

type item struct {
	node inf.NodeID
	dist float64
}

type queue []item

func (q queue) Len() int            { return len(q) }
func (q queue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(item)) }
func (q *queue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}
