// Package topo describes the schematic track topology fed to the graph
// compiler: tracks between points, what kind of junction each point is, and
// the objects placed along each track.
package topo

import (
	"fmt"
	"math"
)

// Pt is a grid point on the schematic.
type Pt struct {
	X, Y int
}

func (p Pt) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// C converts p to continuous coordinates.
func (p Pt) C() PtC {
	return PtC{X: float64(p.X), Y: float64(p.Y)}
}

// PtC is a point in continuous schematic coordinates.
type PtC struct {
	X, Y float64
}

func (p PtC) Sub(q PtC) PtC { return PtC{p.X - q.X, p.Y - q.Y} }
func (p PtC) Len() float64  { return math.Hypot(p.X, p.Y) }

// Lerp returns the point at param t between p and q.
func (p PtC) Lerp(q PtC, t float64) PtC {
	return PtC{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// AB names the two ends (or two diagonals) of something.
type AB uint8

const (
	A AB = iota
	B
)

func (ab AB) Other() AB {
	if ab == A {
		return B
	}
	return A
}

func (ab AB) String() string {
	if ab == A {
		return "A"
	}
	return "B"
}

type PortKind uint8

const (
	// PortEnd is the only port of a dead end or open end.
	PortEnd PortKind = iota
	PortContA
	PortContB
	PortTrunk
	PortLeft
	PortRight
	// PortCross is one of the four ports of a crossing, see Cross.
	PortCross
)

// Port is a place on a point where a track can attach.
type Port struct {
	Kind PortKind
	// Diagonal and CrossI are only used for PortCross. Each diagonal has
	// ports 0 and 1.
	Diagonal AB
	CrossI   int
}

var (
	EndPort   = Port{Kind: PortEnd}
	ContAPort = Port{Kind: PortContA}
	ContBPort = Port{Kind: PortContB}
	TrunkPort = Port{Kind: PortTrunk}
	LeftPort  = Port{Kind: PortLeft}
	RightPort = Port{Kind: PortRight}
)

// Cross returns port i of diagonal ab of a crossing.
func Cross(ab AB, i int) Port {
	return Port{Kind: PortCross, Diagonal: ab, CrossI: i}
}

func (p Port) String() string {
	switch p.Kind {
	case PortEnd:
		return "end"
	case PortContA:
		return "contA"
	case PortContB:
		return "contB"
	case PortTrunk:
		return "trunk"
	case PortLeft:
		return "left"
	case PortRight:
		return "right"
	case PortCross:
		return fmt.Sprintf("cross%s%d", p.Diagonal, p.CrossI)
	default:
		return fmt.Sprintf("Port(%d)", uint8(p.Kind))
	}
}

// PointPort is a port on a specific point.
type PointPort struct {
	Pt   Pt
	Port Port
}

func (pp PointPort) String() string {
	return fmt.Sprintf("%s/%s", pp.Pt, pp.Port)
}

type NodeKind uint8

const (
	BufferStop NodeKind = iota
	OpenEnd
	Cont
	Switch
	Crossing
	// Err marks a point whose shape could not be recognised.
	Err
)

func (k NodeKind) String() string {
	switch k {
	case BufferStop:
		return "buffer-stop"
	case OpenEnd:
		return "open-end"
	case Cont:
		return "cont"
	case Switch:
		return "switch"
	case Crossing:
		return "crossing"
	case Err:
		return "err"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

type CrossingKind uint8

const (
	// FixedCrossing is a plain diamond; trains cannot change diagonals.
	FixedCrossing CrossingKind = iota
	DoubleSlip
	// SingleSlip has one drivable diagonal, chosen by CrossingType.Side.
	SingleSlip
)

type CrossingType struct {
	Kind CrossingKind
	Side Side
}

// NodeType is the shape of a point.
type NodeType struct {
	Kind NodeKind
	// Side is the branch side of a Switch. It only affects rendering.
	Side     Side
	Crossing CrossingType
}

func SwitchNode(side Side) NodeType { return NodeType{Kind: Switch, Side: side} }

func CrossingNode(ct CrossingType) NodeType { return NodeType{Kind: Crossing, Crossing: ct} }

// Ports lists the ports a point of this type needs tracks attached to.
func (t NodeType) Ports() []Port {
	switch t.Kind {
	case OpenEnd:
		return []Port{EndPort}
	case Cont:
		return []Port{ContAPort, ContBPort}
	case Switch:
		return []Port{TrunkPort, LeftPort, RightPort}
	case Crossing:
		return []Port{Cross(A, 0), Cross(A, 1), Cross(B, 0), Cross(B, 1)}
	default:
		return nil
	}
}

// Location is a point's type and its orientation on the schematic.
type Location struct {
	Type        NodeType
	Orientation PtC
}

// ObjectAddr identifies a track-placed object in the document.
type ObjectAddr struct {
	X, Y int
}

func (a ObjectAddr) String() string {
	return fmt.Sprintf("obj(%d,%d)", a.X, a.Y)
}

type FunctionKind uint8

const (
	MainSignal FunctionKind = iota
	ShiftingSignal
	Detector
	// LegacySwitch is a switch placed as a track object by older documents.
	// Switches are points (see Switch); this is kept only so such documents
	// still convert.
	LegacySwitch
)

func (k FunctionKind) String() string {
	switch k {
	case MainSignal:
		return "main-signal"
	case ShiftingSignal:
		return "shifting-signal"
	case Detector:
		return "detector"
	case LegacySwitch:
		return "legacy-switch"
	default:
		return fmt.Sprintf("FunctionKind(%d)", uint8(k))
	}
}

type Function struct {
	Kind FunctionKind
	// HasDistant is only used by signals.
	HasDistant bool
}

func (f Function) IsSignal() bool {
	return f.Kind == MainSignal || f.Kind == ShiftingSignal
}

// Direction is the direction an object faces along its track.
type Direction uint8

const (
	// DirUnspecified is treated as DirA.
	DirUnspecified Direction = iota
	// DirA faces from the track's start to its end.
	DirA
	DirB
)

// TrackObject is an object placed Offset from the start of a track.
type TrackObject struct {
	Offset float64
	Addr   ObjectAddr
	Func   Function
	Dir    Direction
}

// Track is a piece of track from Start to End.
type Track struct {
	Length float64
	Start  PointPort
	End    PointPort
	// Line is the polyline drawn for this track, from Start to End.
	Line []PtC
}

// Topology is the input to the graph compiler.
type Topology struct {
	Tracks    []Track
	Locations map[Pt]Location
	// TrackObjects has the objects of each track, by track index. It may be
	// shorter than Tracks.
	TrackObjects [][]TrackObject
}

// ObjectsOf returns the objects placed on track i.
func (t *Topology) ObjectsOf(i int) []TrackObject {
	if i >= len(t.TrackObjects) {
		return nil
	}
	return t.TrackObjects[i]
}

// Validate checks that every port a point needs has a track attached, that
// no port is used twice, and that objects lie within their tracks.
// The graph compiler assumes a valid topology.
func (t *Topology) Validate() error {
	used := map[PointPort]int{}
	for i, tr := range t.Tracks {
		if tr.Length <= 0 {
			return fmt.Errorf("track %d: non-positive length %f", i, tr.Length)
		}
		for _, pp := range []PointPort{tr.Start, tr.End} {
			if j, ok := used[pp]; ok {
				return fmt.Errorf("track %d: port %s already used by track %d", i, pp, j)
			}
			used[pp] = i
		}
	}
	for _, pt := range t.SortedPoints() {
		loc := t.Locations[pt]
		for _, p := range loc.Type.Ports() {
			pp := PointPort{Pt: pt, Port: p}
			if _, ok := used[pp]; !ok {
				return fmt.Errorf("point %s (%s): no track at port %s", pt, loc.Type.Kind, p)
			}
		}
	}
	for i, objs := range t.TrackObjects {
		if i >= len(t.Tracks) {
			return fmt.Errorf("objects given for track %d, which doesn't exist", i)
		}
		for _, o := range objs {
			if o.Offset < 0 || o.Offset > t.Tracks[i].Length {
				return fmt.Errorf("track %d: object %s at %f outside [0, %f]", i, o.Addr, o.Offset, t.Tracks[i].Length)
			}
		}
	}
	return nil
}
