package dgraph

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/senro/config"
	"nyiyui.ca/hato/senro/dgraph/allpaths"
	"nyiyui.ca/hato/senro/dgraph/mileage"
	"nyiyui.ca/hato/senro/dgraph/sections"
	"nyiyui.ca/hato/senro/inf"
	"nyiyui.ca/hato/senro/topo"
)

func reverse[S ~[]E, E any](s S) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func (co Collaborators) withDefaults() Collaborators {
	if co.Sections == nil {
		co.Sections = sections.Deriver{}
	}
	if co.Mileage == nil {
		co.Mileage = mileage.Assigner{}
	}
	if co.Paths == nil {
		co.Paths = allpaths.Enumerator{}
	}
	return co
}

type placedSignal struct {
	addr topo.ObjectAddr
	obj  inf.ObjectID
	// at faces the same way as the signal.
	at Cursor
}

type conversion struct {
	m           *Builder
	signals     []placedSignal
	detectors   []inf.Edge
	objectIDs   *BiMap[inf.ObjectID, topo.ObjectAddr]
	detectorIDs *BiMap[inf.NodeID, topo.ObjectAddr]
}

func (cv *conversion) addDetector(at Cursor, addr topo.ObjectAddr) {
	a, b := at.Nodes(cv.m.Infrastructure())
	cv.detectors = append(cv.detectors, inf.Edge{A: a, B: b})
	cv.detectorIDs.Insert(a, addr)
	cv.detectorIDs.Insert(b, addr)
}

// legacySwitchAsDetector handles switches that older documents placed on a
// track as objects. Switches are built from points; the object only bounds a
// section, like a detector.
func (cv *conversion) legacySwitchAsDetector(at Cursor, addr topo.ObjectAddr) {
	zap.S().Warnw("track-placed switch object treated as a detector", "addr", addr)
	cv.addDetector(at, addr)
}

// placeObjects places the objects of one track, in order of offset.
func (cv *conversion) placeObjects(objs []topo.TrackObject, track int, c Cursor, m *Builder) {
	objs = slices.Clone(objs)
	slices.SortStableFunc(objs, func(a, b topo.TrackObject) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	g := m.Infrastructure()
	var last float64
	for _, o := range objs {
		next, ok := c.Advance(g, o.Offset-last)
		if !ok {
			panic(fmt.Sprintf("track %d: cannot reach %s at %g", track, o.Addr, o.Offset))
		}
		c = m.InsertNodePair(next)
		switch o.Func.Kind {
		case topo.Detector:
			cv.addDetector(c, o.Addr)
		case topo.MainSignal, topo.ShiftingSignal:
			at := c
			if o.Dir == topo.DirB {
				at = c.Reverse(g)
			}
			_, obj := m.InsertObject(at, inf.Signal{HasDistant: o.Func.HasDistant})
			cv.signals = append(cv.signals, placedSignal{addr: o.Addr, obj: obj, at: at})
			cv.objectIDs.Insert(obj, o.Addr)
		case topo.LegacySwitch:
			cv.legacySwitchAsDetector(c, o.Addr)
		default:
			panic(fmt.Sprintf("track %d: %s has unknown function %s", track, o.Addr, o.Func.Kind))
		}
		last = o.Offset
	}
}

// placeSights walks back from each signal and puts a Sight wherever the
// walk stops.
func (cv *conversion) placeSights(sightDistance float64) {
	g := cv.m.Infrastructure()
	for _, s := range cv.signals {
		reaches := s.at.Reverse(g).AdvanceBranchingTruncated(g, sightDistance)
		// turn every reach around before inserting any; an insertion splits
		// edges other reaches (e.g. both ways round a loop) may be on
		targets := make([]Cursor, len(reaches))
		for i, r := range reaches {
			targets[i] = r.Cursor.Reverse(g)
		}
		for i, r := range reaches {
			cv.m.InsertObject(targets[i], inf.Sight{Distance: r.Distance, Signal: s.obj})
		}
		zap.S().Debugw("placed sights", "signal", s.addr, "sights", len(reaches))
	}
}

// Convert compiles t into a DGraph. The only error it returns is from
// deriving sections (or from invariant checks, if opts asks for them); a
// malformed topology panics.
func Convert(t *topo.Topology, opts config.Options, co Collaborators) (*DGraph, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	co = co.withDefaults()
	cv := &conversion{
		m:           NewBuilder(),
		objectIDs:   NewBiMap[inf.ObjectID, topo.ObjectAddr](),
		detectorIDs: NewBiMap[inf.NodeID, topo.ObjectAddr](),
	}
	nw := cv.m.CreateNetwork(t, func(track int, c Cursor, m *Builder) {
		cv.placeObjects(t.ObjectsOf(track), track, c, m)
	})
	g := cv.m.Infrastructure()
	zap.S().Debugw("built network",
		"tracks", len(t.Tracks),
		"nodes", len(g.Nodes),
		"objects", len(g.Objects),
		"signals", len(cv.signals))

	cv.placeSights(opts.SightDistance)

	for n, node := range g.Nodes {
		if node.Edges.Kind == inf.ModelBoundary {
			cv.detectors = append(cv.detectors, inf.Edge{A: n, B: node.Other})
		}
	}
	secs, err := co.Sections.DeriveSections(g, cv.detectors, nw.NonDrivable)
	if err != nil {
		return nil, fmt.Errorf("derive sections: %w", err)
	}

	if opts.CheckInvariants {
		if err := g.Check(); err != nil {
			return nil, fmt.Errorf("check: %w", err)
		}
	}

	lines := map[inf.Edge][]topo.PtC{}
	for e, iv := range cv.m.Intervals() {
		line := t.IntervalMap(iv.Track, iv.Start, iv.End)
		lines[e] = line
		rev := slices.Clone(line)
		reverse(rev)
		lines[e.Reverse()] = rev
	}

	known := map[inf.NodeID]topo.Pt{}
	nw.NodeIDs.Range(func(n inf.NodeID, pt topo.Pt) bool {
		known[n] = pt
		return true
	})
	km := co.Mileage.AssignMileage(known, g)
	paths := co.Paths.EnumeratePaths(g, opts.AllPathsLength)

	dg := &DGraph{
		ID:                uuid.New(),
		Inf:               g,
		NodeIDs:           nw.NodeIDs,
		SwitchIDs:         nw.SwitchIDs,
		ObjectIDs:         cv.objectIDs,
		DetectorIDs:       cv.detectorIDs,
		SectionEdges:      secs.Edges,
		SectionEntryNodes: secs.EntryNodes,
		EdgeLines:         lines,
		Mileage:           km,
		AllPathsLength:    opts.AllPathsLength,
		AllPaths:          paths,
	}
	zap.S().Infow("converted topology",
		"id", dg.ID,
		"nodes", len(g.Nodes),
		"objects", len(g.Objects),
		"sections", len(secs.Edges),
		"paths", len(paths))
	return dg, nil
}
