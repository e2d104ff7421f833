package topo

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Builder assembles a Topology by hand. It is meant for presets and tests;
// documents produce a Topology directly.
type Builder struct {
	t Topology
}

func NewBuilder() *Builder {
	return &Builder{t: Topology{Locations: map[Pt]Location{}}}
}

// Point sets the type of the point at pt.
func (b *Builder) Point(pt Pt, typ NodeType) *Builder {
	b.t.Locations[pt] = Location{Type: typ}
	return b
}

// Track adds a straight track from one port to another, as long as the
// distance between the two points.
func (b *Builder) Track(from, to PointPort) int {
	return b.TrackLen(from.Pt.C().Sub(to.Pt.C()).Len(), from, to)
}

// TrackLen adds a track of the given length. If line is empty, the track is
// drawn straight between the two points.
func (b *Builder) TrackLen(length float64, from, to PointPort, line ...PtC) int {
	if len(line) == 0 {
		line = []PtC{from.Pt.C(), to.Pt.C()}
	}
	b.t.Tracks = append(b.t.Tracks, Track{
		Length: length,
		Start:  from,
		End:    to,
		Line:   line,
	})
	return len(b.t.Tracks) - 1
}

// Object places o on track i.
func (b *Builder) Object(i int, o TrackObject) *Builder {
	if i < 0 || i >= len(b.t.Tracks) {
		panic(fmt.Sprintf("track %d doesn't exist", i))
	}
	for len(b.t.TrackObjects) <= i {
		b.t.TrackObjects = append(b.t.TrackObjects, nil)
	}
	b.t.TrackObjects[i] = append(b.t.TrackObjects[i], o)
	return b
}

// Topology returns a copy of the topology built so far. Later calls on b
// don't affect it.
func (b *Builder) Topology() *Topology {
	t := Topology{
		Tracks:    slices.Clone(b.t.Tracks),
		Locations: maps.Clone(b.t.Locations),
	}
	for i := range t.Tracks {
		t.Tracks[i].Line = slices.Clone(t.Tracks[i].Line)
	}
	for _, objs := range b.t.TrackObjects {
		t.TrackObjects = append(t.TrackObjects, slices.Clone(objs))
	}
	return &t
}

func At(pt Pt, p Port) PointPort { return PointPort{Pt: pt, Port: p} }
