package topo

// Straight is a single track of the given length between two open ends at
// (0,0) and (10,0).
func Straight(length float64) *Topology {
	b := NewBuilder()
	b.Point(Pt{0, 0}, NodeType{Kind: OpenEnd})
	b.Point(Pt{10, 0}, NodeType{Kind: OpenEnd})
	b.TrackLen(length, At(Pt{0, 0}, EndPort), At(Pt{10, 0}, EndPort))
	return b.Topology()
}

// Siding is a switch at (10,0) with its trunk towards an open end at (0,0)
// (track 0), its left branch to an open end at (20,0) (track 1), and its
// right branch to an open end at (20,2) (track 2).
func Siding(trunkLen, branchLen float64) *Topology {
	b := NewBuilder()
	b.Point(Pt{0, 0}, NodeType{Kind: OpenEnd})
	b.Point(Pt{10, 0}, SwitchNode(Left))
	b.Point(Pt{20, 0}, NodeType{Kind: OpenEnd})
	b.Point(Pt{20, 2}, NodeType{Kind: OpenEnd})
	b.TrackLen(trunkLen, At(Pt{0, 0}, EndPort), At(Pt{10, 0}, TrunkPort))
	b.TrackLen(branchLen, At(Pt{10, 0}, LeftPort), At(Pt{20, 0}, EndPort))
	b.TrackLen(branchLen, At(Pt{10, 0}, RightPort), At(Pt{20, 2}, EndPort))
	return b.Topology()
}

// CrossingBench is a crossing at (10,0) with an arm of armLen to an open end
// on each of its four ports. Tracks 0..3 attach to Cross(A,0), Cross(B,0),
// Cross(A,1) and Cross(B,1) in that order.
func CrossingBench(ct CrossingType, armLen float64) *Topology {
	c := Pt{10, 0}
	b := NewBuilder()
	b.Point(c, CrossingNode(ct))
	arms := []struct {
		end  Pt
		port Port
	}{
		{Pt{0, 0}, Cross(A, 0)},
		{Pt{20, 0}, Cross(B, 0)},
		{Pt{0, -4}, Cross(A, 1)},
		{Pt{20, 4}, Cross(B, 1)},
	}
	for _, arm := range arms {
		b.Point(arm.end, NodeType{Kind: OpenEnd})
		b.TrackLen(armLen, At(c, arm.port), At(arm.end, EndPort))
	}
	return b.Topology()
}

// Testbench is a passing loop: an open end at (0,0), a continuation at
// (5,0), a switch at (10,0) splitting into a main line and a loop that
// rejoin at a switch at (30,0), and an open end at (40,0). It carries
// detectors at both ends of the loop and a signal pair guarding each
// switch.
func Testbench() *Topology {
	b := NewBuilder()
	west, cont, s1, s2, east := Pt{0, 0}, Pt{5, 0}, Pt{10, 0}, Pt{30, 0}, Pt{40, 0}
	b.Point(west, NodeType{Kind: OpenEnd})
	b.Point(cont, NodeType{Kind: Cont})
	b.Point(s1, SwitchNode(Left))
	b.Point(s2, SwitchNode(Right))
	b.Point(east, NodeType{Kind: OpenEnd})

	approachW := b.TrackLen(250, At(west, EndPort), At(cont, ContAPort))
	throatW := b.TrackLen(250, At(cont, ContBPort), At(s1, TrunkPort))
	main := b.TrackLen(600, At(s1, LeftPort), At(s2, LeftPort))
	loop := b.TrackLen(640, At(s1, RightPort), At(s2, RightPort),
		s1.C(), PtC{12, 2}, PtC{28, 2}, s2.C())
	approachE := b.TrackLen(400, At(s2, TrunkPort), At(east, EndPort))

	b.Object(approachW, TrackObject{Offset: 100, Addr: ObjectAddr{2, 0}, Func: Function{Kind: Detector}})
	b.Object(throatW, TrackObject{Offset: 200, Addr: ObjectAddr{9, 0}, Func: Function{Kind: MainSignal, HasDistant: true}, Dir: DirA})
	b.Object(throatW, TrackObject{Offset: 220, Addr: ObjectAddr{9, 1}, Func: Function{Kind: Detector}})
	b.Object(main, TrackObject{Offset: 50, Addr: ObjectAddr{11, 0}, Func: Function{Kind: Detector}})
	b.Object(main, TrackObject{Offset: 550, Addr: ObjectAddr{29, 0}, Func: Function{Kind: Detector}})
	b.Object(main, TrackObject{Offset: 560, Addr: ObjectAddr{29, 1}, Func: Function{Kind: ShiftingSignal}, Dir: DirA})
	b.Object(loop, TrackObject{Offset: 60, Addr: ObjectAddr{11, 2}, Func: Function{Kind: Detector}})
	b.Object(loop, TrackObject{Offset: 580, Addr: ObjectAddr{29, 2}, Func: Function{Kind: Detector}})
	b.Object(approachE, TrackObject{Offset: 30, Addr: ObjectAddr{31, 0}, Func: Function{Kind: MainSignal}, Dir: DirB})
	b.Object(approachE, TrackObject{Offset: 40, Addr: ObjectAddr{31, 1}, Func: Function{Kind: Detector}})
	return b.Topology()
}
