// Package geoindex finds the graph edges drawn near a point on the
// schematic, for hit testing in renderers.
package geoindex

import (
	"fmt"
	"math"

	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/senro/dgraph"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

const indexName = "edges"

// Index is a spatial index over the edge lines of one DGraph. It is safe
// for concurrent use.
type Index struct {
	db    *buntdb.DB
	lines map[inf.Edge][]topo.PtC
}

func edgeKey(e inf.Edge) string {
	return fmt.Sprintf("edge:%d:%d", e.A, e.B)
}

func bounds(line []topo.PtC) string {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range line {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	return fmt.Sprintf("[%g %g],[%g %g]", minX, minY, maxX, maxY)
}

// New indexes every edge of dg that has a line. Each track edge is indexed
// once, in the direction leaving the lower node.
func New(dg *dgraph.DGraph) (*Index, error) {
	db, err := buntdb.Open(":memory:")
	if err != nil {
		return nil, err
	}
	err = db.CreateSpatialIndex(indexName, "edge:*", buntdb.IndexRect)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}
	lines := map[inf.Edge][]topo.PtC{}
	for e, line := range dg.EdgeLines {
		if e.A < e.B && len(line) > 0 {
			lines[e] = line
		}
	}
	err = db.Update(func(tx *buntdb.Tx) error {
		for e, line := range lines {
			if _, _, err := tx.Set(edgeKey(e), bounds(line), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("index edges: %w", err)
	}
	zap.S().Debugw("indexed edges", "graph", dg.ID, "edges", len(lines))
	return &Index{db: db, lines: lines}, nil
}

type hit struct {
	e    inf.Edge
	dist float64
}

// Near returns the edges whose line passes within radius of pt, nearest
// first.
func (x *Index) Near(pt topo.PtC, radius float64) ([]inf.Edge, error) {
	q := fmt.Sprintf("[%g %g],[%g %g]", pt.X-radius, pt.Y-radius, pt.X+radius, pt.Y+radius)
	var hits []hit
	err := x.db.View(func(tx *buntdb.Tx) error {
		return tx.Intersects(indexName, q, func(key, _ string) bool {
			var e inf.Edge
			if _, err := fmt.Sscanf(key, "edge:%d:%d", &e.A, &e.B); err != nil {
				zap.S().Warnw("malformed key", "key", key, "err", err)
				return true
			}
			if d := lineDist(x.lines[e], pt); d <= radius {
				hits = append(hits, hit{e, d})
			}
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(hits, func(a, b hit) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		case a.e.A != b.e.A:
			return a.e.A - b.e.A
		}
		return a.e.B - b.e.B
	})
	edges := make([]inf.Edge, len(hits))
	for i, h := range hits {
		edges[i] = h.e
	}
	return edges, nil
}

func (x *Index) Close() error {
	return x.db.Close()
}

// lineDist is the distance from p to the nearest point of line.
func lineDist(line []topo.PtC, p topo.PtC) float64 {
	if len(line) == 1 {
		return p.Sub(line[0]).Len()
	}
	d := math.Inf(1)
	for i := 1; i < len(line); i++ {
		d = math.Min(d, segmentDist(line[i-1], line[i], p))
	}
	return d
}

func segmentDist(a, b, p topo.PtC) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	ap := p.Sub(a)
	t := math.Max(0, math.Min(1, (ap.X*ab.X+ap.Y*ab.Y)/l2))
	return p.Sub(a.Lerp(b, t)).Len()
}
