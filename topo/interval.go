package topo

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortedPoints returns the points of t.Locations ordered by (X, Y).
func (t *Topology) SortedPoints() []Pt {
	pts := maps.Keys(t.Locations)
	slices.SortFunc(pts, func(a, b Pt) int {
		if a.X != b.X {
			return a.X - b.X
		}
		return a.Y - b.Y
	})
	return pts
}

func polylineLength(line []PtC) float64 {
	var sum float64
	for i := 1; i < len(line); i++ {
		sum += line[i].Sub(line[i-1]).Len()
	}
	return sum
}

// pointAt returns the point d along line (measured in line's own units).
func pointAt(line []PtC, d float64) PtC {
	for i := 1; i < len(line); i++ {
		seg := line[i].Sub(line[i-1]).Len()
		if d <= seg || i == len(line)-1 {
			if seg == 0 {
				return line[i]
			}
			return line[i-1].Lerp(line[i], math.Max(0, math.Min(1, d/seg)))
		}
		d -= seg
	}
	return line[len(line)-1]
}

// IntervalMap returns the part of track's polyline between offsets start
// and end, where offsets are in track length units (Track.Length spans the
// whole polyline). Returns nil when the track has no polyline.
func (t *Topology) IntervalMap(track int, start, end float64) []PtC {
	tr := t.Tracks[track]
	line := tr.Line
	if len(line) < 2 {
		return nil
	}
	scale := 1.0
	if tr.Length > 0 {
		scale = polylineLength(line) / tr.Length
	}
	s, e := start*scale, end*scale
	out := []PtC{pointAt(line, s)}
	var cum float64
	for i := 1; i < len(line)-1; i++ {
		cum += line[i].Sub(line[i-1]).Len()
		if cum > s && cum < e {
			out = append(out, line[i])
		}
	}
	return append(out, pointAt(line, e))
}
