// Package allpaths enumerates every path of a fixed length through a graph,
// for consumers that look up short paths often.
package allpaths

import "nyiyui.ca/hato/senro/inf"

// Path is a sequence of edges, each starting at the mirror of where the
// previous one arrived.
type Path struct {
	Edges  []inf.Edge
	Length float64
}

// Start returns the node the path leaves from.
func (p Path) Start() inf.NodeID { return p.Edges[0].A }

// Enumerator enumerates paths with Paths.
type Enumerator struct{}

func (Enumerator) EnumeratePaths(g *inf.Infrastructure, maxLength float64) []Path {
	return Paths(g, maxLength)
}

// Paths returns, for every node with outgoing edges, every path leaving it
// that is at least maxLength long, or shorter if it reaches a dead end
// first. Paths never visit a node twice.
func Paths(g *inf.Infrastructure, maxLength float64) []Path {
	var paths []Path
	for n := range g.Nodes {
		if g.Multiplicity(n) == 0 {
			continue
		}
		walk(g, n, maxLength, nil, 0, map[inf.NodeID]bool{n: true}, &paths)
	}
	return paths
}

func walk(g *inf.Infrastructure, n inf.NodeID, maxLength float64, edges []inf.Edge, length float64, visited map[inf.NodeID]bool, paths *[]Path) {
	links := g.OutEdges(n)
	if len(links) == 0 || length >= maxLength {
		if len(edges) > 0 {
			*paths = append(*paths, Path{Edges: append([]inf.Edge(nil), edges...), Length: length})
		}
		return
	}
	extended := false
	for _, l := range links {
		next := g.Nodes[l.Node].Other
		if visited[l.Node] || visited[next] {
			continue
		}
		extended = true
		visited[l.Node], visited[next] = true, true
		walk(g, next, maxLength, append(edges, inf.Edge{A: n, B: l.Node}), length+l.Dist, visited, paths)
		delete(visited, l.Node)
		delete(visited, next)
	}
	if !extended && len(edges) > 0 {
		*paths = append(*paths, Path{Edges: append([]inf.Edge(nil), edges...), Length: length})
	}
}
