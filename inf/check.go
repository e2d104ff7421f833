package inf

import (
	"fmt"
	"math"
)

const distEpsilon = 1e-9

// Check verifies the structural invariants of g: nodes are mirrored in
// pairs, every edge can be travelled back with the same length, switchable
// nodes refer to switches, and objects refer to things that exist.
func (g *Infrastructure) Check() error {
	for n, node := range g.Nodes {
		if node.Other < 0 || node.Other >= len(g.Nodes) || node.Other == n {
			return fmt.Errorf("node %d: bad mirror %d", n, node.Other)
		}
		if g.Nodes[node.Other].Other != n {
			return fmt.Errorf("node %d: mirror %d is mirrored to %d", n, node.Other, g.Nodes[node.Other].Other)
		}
		switch node.Edges.Kind {
		case Single:
			if t := node.Edges.Target; t < 0 || t >= len(g.Nodes) {
				return fmt.Errorf("node %d: edge to nonexistent node %d", n, t)
			}
		case Switchable:
			obj := node.Edges.Object
			if obj < 0 || obj >= len(g.Objects) {
				return fmt.Errorf("node %d: switchable to nonexistent object %d", n, obj)
			}
			if _, ok := g.Objects[obj].(Switch); !ok {
				return fmt.Errorf("node %d: switchable to %T object %d", n, g.Objects[obj], obj)
			}
		}
		for _, l := range g.OutEdges(n) {
			back, ok := g.EdgeLength(l.Node, n)
			if !ok {
				return fmt.Errorf("edge %d→%d has no reverse", n, l.Node)
			}
			if math.Abs(back-l.Dist) > distEpsilon {
				return fmt.Errorf("edge %d→%d is %g long, but reverse is %g", n, l.Node, l.Dist, back)
			}
		}
		for _, obj := range node.Objects {
			if obj < 0 || obj >= len(g.Objects) {
				return fmt.Errorf("node %d: nonexistent object %d", n, obj)
			}
		}
	}
	for i, obj := range g.Objects {
		if s, ok := obj.(Sight); ok {
			if s.Signal < 0 || s.Signal >= len(g.Objects) {
				return fmt.Errorf("sight %d: nonexistent signal %d", i, s.Signal)
			}
			if _, ok := g.Objects[s.Signal].(Signal); !ok {
				return fmt.Errorf("sight %d: object %d is %T, not a signal", i, s.Signal, g.Objects[s.Signal])
			}
		}
	}
	return nil
}
